// file: internal/database/sql_store.go
// version: 2.1.0
// guid: 278ff4e9-6c61-4034-8c0a-6823776c8b75

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/jdfalk/library-catalog/internal/models"
)

const (
	dialectSQLite   = "sqlite3"
	dialectPostgres = "postgres"

	tableBooks = "books"
	tableLoans = "loans"

	colID       = "id"
	colTitle    = "title"
	colAuthor   = "author"
	colISBN     = "isbn"
	colBookID   = "book_id"
	colCustomer = "customer"
	colLoanDate = "loan_date"
	colReturned = "returned"

	pgUniqueViolation = "23505"
)

// SQLStore implements the Store interface on SQLite3 or PostgreSQL.
// Queries are built with goqu and scanned with sqlx.
type SQLStore struct {
	db      *sqlx.DB
	dialect string
	builder goqu.DialectWrapper
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLStore, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on&_busy_timeout=5000"
	} else {
		dsn += "?_foreign_keys=on&_busy_timeout=5000"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	return newSQLStore(db, dialectSQLite)
}

// NewPostgresStore creates a new PostgreSQL store through the pgx driver
func NewPostgresStore(dsn string) (*SQLStore, error) {
	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
	}
	return newSQLStore(db, dialectPostgres)
}

func newSQLStore(db *sqlx.DB, dialect string) (*SQLStore, error) {
	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLStore{
		db:      db,
		dialect: dialect,
		builder: goqu.Dialect(dialect),
	}
	if err := store.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Dialect returns the SQL dialect name the store was opened with.
func (s *SQLStore) Dialect() string {
	return s.dialect
}

// Close closes the database
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// isUniqueViolation reports whether err is a unique-constraint failure in either dialect.
func isUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// contains builds a case-sensitive substring predicate.
func (s *SQLStore) contains(column, value string) exp.Expression {
	if s.dialect == dialectPostgres {
		return goqu.L("strpos(?, ?) > 0", goqu.C(column), value)
	}
	return goqu.L("instr(?, ?) > 0", goqu.C(column), value)
}

func (s *SQLStore) filterExpressions(filter models.BookFilter) []exp.Expression {
	where := make([]exp.Expression, 0, 3)
	if filter.Title != "" {
		where = append(where, s.contains(colTitle, filter.Title))
	}
	if filter.Author != "" {
		where = append(where, s.contains(colAuthor, filter.Author))
	}
	if filter.ISBN != "" {
		where = append(where, goqu.C(colISBN).Eq(filter.ISBN))
	}
	return where
}

func (s *SQLStore) getBook(ctx context.Context, where exp.Expression) (*models.Book, error) {
	query, args, err := s.builder.From(tableBooks).Prepared(true).
		Select(colID, colTitle, colAuthor, colISBN).
		Where(where).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var book models.Book
	if err := s.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// Book operations

func (s *SQLStore) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, nil
	}
	return s.getBook(ctx, goqu.C(colID).Eq(id))
}

func (s *SQLStore) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	return s.getBook(ctx, goqu.C(colISBN).Eq(isbn))
}

func (s *SQLStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	query, args, err := s.builder.From(tableBooks).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(goqu.C(colISBN).Eq(isbn)).
		ToSQL()
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLStore) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	record := *book
	if record.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		record.ID = id
	}

	query, args, err := s.builder.Insert(tableBooks).Prepared(true).
		Rows(goqu.Record{
			colID:     record.ID,
			colTitle:  record.Title,
			colAuthor: record.Author,
			colISBN:   record.ISBN,
		}).
		ToSQL()
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return &record, nil
}

func (s *SQLStore) UpdateBook(ctx context.Context, id string, book *models.Book) (*models.Book, error) {
	query, args, err := s.builder.Update(tableBooks).Prepared(true).
		Set(goqu.Record{
			colTitle:  book.Title,
			colAuthor: book.Author,
			colISBN:   book.ISBN,
		}).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.ErrRecordNotFound
	}

	record := *book
	record.ID = id
	return &record, nil
}

// DeleteBook removes the book. Its loans go with it through ON DELETE CASCADE.
func (s *SQLStore) DeleteBook(ctx context.Context, id string) error {
	query, args, err := s.builder.Delete(tableBooks).Prepared(true).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func (s *SQLStore) FindBooks(ctx context.Context, filter models.BookFilter, page models.PageRequest) ([]models.Book, int, error) {
	where := s.filterExpressions(filter)

	countQuery, countArgs, err := s.builder.From(tableBooks).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(where...).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := s.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}
	if page.Size <= 0 || page.Offset() >= total {
		return []models.Book{}, total, nil
	}

	order := make([]exp.OrderedExpression, 0, len(page.Sort)+1)
	for _, o := range page.Sort {
		if o.Descending {
			order = append(order, goqu.C(o.Field).Desc())
		} else {
			order = append(order, goqu.C(o.Field).Asc())
		}
	}
	order = append(order, goqu.C(colID).Asc())

	query, args, err := s.builder.From(tableBooks).Prepared(true).
		Select(colID, colTitle, colAuthor, colISBN).
		Where(where...).
		Order(order...).
		Limit(uint(page.Size)).
		Offset(uint(page.Offset())).
		ToSQL()
	if err != nil {
		return nil, 0, err
	}

	books := []models.Book{}
	if err := s.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (s *SQLStore) CountBooks(ctx context.Context) (int, error) {
	query, _, err := s.builder.From(tableBooks).Select(goqu.COUNT("*")).ToSQL()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, query); err != nil {
		return 0, err
	}
	return n, nil
}

// Loan operations

func (s *SQLStore) CreateLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	record := *loan
	record.Book = nil
	if record.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		record.ID = id
	}

	query, args, err := s.builder.Insert(tableLoans).Prepared(true).
		Rows(goqu.Record{
			colID:       record.ID,
			colBookID:   record.BookID,
			colCustomer: record.Customer,
			colLoanDate: record.LoanDate,
			colReturned: record.Returned,
		}).
		ToSQL()
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return &record, nil
}

func (s *SQLStore) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	if id == "" {
		return nil, nil
	}
	query, args, err := s.builder.From(tableLoans).Prepared(true).
		Select(colID, colBookID, colCustomer, colLoanDate, colReturned).
		Where(goqu.C(colID).Eq(id)).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var loan models.Loan
	if err := s.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	loan.LoanDate = models.LoanDay(loan.LoanDate.UTC())
	return &loan, nil
}

func (s *SQLStore) HasOpenLoan(ctx context.Context, bookID string) (bool, error) {
	query, args, err := s.builder.From(tableLoans).Prepared(true).
		Select(goqu.COUNT("*")).
		Where(
			goqu.C(colBookID).Eq(bookID),
			goqu.C(colReturned).Eq(false),
		).
		ToSQL()
	if err != nil {
		return false, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}
