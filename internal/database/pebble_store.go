// file: internal/database/pebble_store.go
// version: 2.1.0
// guid: 9934dec7-0f19-457a-a49c-0e537198ac1f

package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/pebble/v2"

	"github.com/jdfalk/library-catalog/internal/models"
)

// Key prefixes.
const (
	prefixBook     = "book:"
	prefixISBN     = "isbn:"
	prefixLoan     = "loan:"
	prefixLoanBook = "loanbook:"
)

var errStoreClosed = errors.New("store is closed")

// PebbleStore implements the Store interface using PebbleDB (LSM key-value store)
//
// Key Schema:
// - book:<id>                   -> Book JSON
// - isbn:<isbn>                 -> book_id (unique catalog number index)
// - loan:<id>                   -> Loan JSON
// - loanbook:<book_id>:<loan_id> -> loan_id (loans per book)
type PebbleStore struct {
	db *pebble.DB

	// mu serializes writes that touch the isbn index
	mu     sync.Mutex
	closed atomic.Bool
}

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.db.Close()
}

// Ping reports whether the store can serve requests.
func (p *PebbleStore) Ping(ctx context.Context) error {
	if p.closed.Load() {
		return errStoreClosed
	}
	_, err := p.has([]byte(prefixBook))
	return err
}

// Helper functions

func bookKey(id string) []byte {
	return []byte(prefixBook + id)
}

func isbnKey(isbn string) []byte {
	return []byte(prefixISBN + isbn)
}

func loanKey(id string) []byte {
	return []byte(prefixLoan + id)
}

func loanBookPrefix(bookID string) []byte {
	return []byte(prefixLoanBook + bookID + ":")
}

// prefixUpperBound returns the smallest key greater than every key with prefix.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (p *PebbleStore) has(key []byte) (bool, error) {
	_, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	closer.Close()
	return true, nil
}

func (p *PebbleStore) getString(key []byte) (string, bool, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer closer.Close()
	return string(value), true, nil
}

func (p *PebbleStore) getRecord(key []byte, v any) (bool, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer closer.Close()
	if err := json.Unmarshal(value, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// scanPrefix calls fn with the value of every key under prefix, in key order.
func (p *PebbleStore) scanPrefix(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(iter.Key(), iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// Book operations

func (p *PebbleStore) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	if id == "" {
		return nil, nil
	}
	var book models.Book
	found, err := p.getRecord(bookKey(id), &book)
	if err != nil || !found {
		return nil, err
	}
	return &book, nil
}

func (p *PebbleStore) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	id, found, err := p.getString(isbnKey(isbn))
	if err != nil || !found {
		return nil, err
	}
	return p.GetBookByID(ctx, id)
}

func (p *PebbleStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return p.has(isbnKey(isbn))
}

func (p *PebbleStore) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	taken, err := p.has(isbnKey(book.ISBN))
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, models.ErrDuplicateKey
	}

	record := *book
	if record.ID == "" {
		if record.ID, err = newULID(); err != nil {
			return nil, err
		}
	}
	data, err := json.Marshal(&record)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(bookKey(record.ID), data, nil); err != nil {
		return nil, err
	}
	if err := batch.Set(isbnKey(record.ISBN), []byte(record.ID), nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return &record, nil
}

func (p *PebbleStore) UpdateBook(ctx context.Context, id string, book *models.Book) (*models.Book, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, models.ErrRecordNotFound
	}

	record := *book
	record.ID = id
	data, err := json.Marshal(&record)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	if record.ISBN != current.ISBN {
		taken, err := p.has(isbnKey(record.ISBN))
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.ErrDuplicateKey
		}
		if err := batch.Delete(isbnKey(current.ISBN), nil); err != nil {
			return nil, err
		}
		if err := batch.Set(isbnKey(record.ISBN), []byte(id), nil); err != nil {
			return nil, err
		}
	}
	if err := batch.Set(bookKey(id), data, nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return &record, nil
}

// DeleteBook removes the book, its catalog number index entry and its loans.
func (p *PebbleStore) DeleteBook(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.GetBookByID(ctx, id)
	if err != nil || current == nil {
		return err
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	if err := batch.Delete(bookKey(id), nil); err != nil {
		return err
	}
	if err := batch.Delete(isbnKey(current.ISBN), nil); err != nil {
		return err
	}
	err = p.scanPrefix(ctx, loanBookPrefix(id), func(key, value []byte) error {
		if err := batch.Delete(loanKey(string(value)), nil); err != nil {
			return err
		}
		return batch.Delete(append([]byte(nil), key...), nil)
	})
	if err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

func (p *PebbleStore) FindBooks(ctx context.Context, filter models.BookFilter, page models.PageRequest) ([]models.Book, int, error) {
	var matches []models.Book
	err := p.scanPrefix(ctx, []byte(prefixBook), func(_, value []byte) error {
		var book models.Book
		if err := json.Unmarshal(value, &book); err != nil {
			return err
		}
		if filter.Matches(book) {
			matches = append(matches, book)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(matches)
	models.SortBooks(matches, page.Sort)

	start := max(0, min(page.Offset(), total))
	end := max(start, min(start+max(page.Size, 0), total))
	return matches[start:end], total, nil
}

func (p *PebbleStore) CountBooks(ctx context.Context) (int, error) {
	count := 0
	err := p.scanPrefix(ctx, []byte(prefixBook), func(_, _ []byte) error {
		count++
		return nil
	})
	return count, err
}

// Loan operations

func (p *PebbleStore) CreateLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	record := *loan
	record.Book = nil
	if record.ID == "" {
		id, err := newULID()
		if err != nil {
			return nil, err
		}
		record.ID = id
	}
	data, err := json.Marshal(&record)
	if err != nil {
		return nil, err
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(loanKey(record.ID), data, nil); err != nil {
		return nil, err
	}
	indexKey := append(loanBookPrefix(record.BookID), record.ID...)
	if err := batch.Set(indexKey, []byte(record.ID), nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to create loan: %w", err)
	}
	return &record, nil
}

func (p *PebbleStore) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	if id == "" {
		return nil, nil
	}
	var loan models.Loan
	found, err := p.getRecord(loanKey(id), &loan)
	if err != nil || !found {
		return nil, err
	}
	return &loan, nil
}

func (p *PebbleStore) HasOpenLoan(ctx context.Context, bookID string) (bool, error) {
	errFound := errors.New("open loan")
	err := p.scanPrefix(ctx, loanBookPrefix(bookID), func(_, value []byte) error {
		loan, err := p.GetLoanByID(ctx, string(value))
		if err != nil {
			return err
		}
		if loan != nil && !loan.Returned {
			return errFound
		}
		return nil
	})
	if errors.Is(err, errFound) {
		return true, nil
	}
	return false, err
}
