// file: internal/library/store.go
// version: 1.0.0
// guid: 72c39556-b566-4db2-acaf-650670d54b28

package library

import (
	"context"

	"github.com/jdfalk/library-catalog/internal/models"
)

// BookStore is the catalog persistence BookService depends on.
// Lookups return (nil, nil) when no record matches.
type BookStore interface {
	CreateBook(ctx context.Context, book *models.Book) (*models.Book, error)
	GetBookByID(ctx context.Context, id string) (*models.Book, error)
	GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	UpdateBook(ctx context.Context, id string, book *models.Book) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
	FindBooks(ctx context.Context, filter models.BookFilter, page models.PageRequest) ([]models.Book, int, error)
	CountBooks(ctx context.Context) (int, error)
}

// LoanStore is the loan persistence LoanService depends on.
type LoanStore interface {
	CreateLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error)
	GetLoanByID(ctx context.Context, id string) (*models.Loan, error)
	HasOpenLoan(ctx context.Context, bookID string) (bool, error)
}

// BookLookup is the narrow read capability the loan workflow needs from the catalog.
type BookLookup interface {
	GetByID(ctx context.Context, id string) (*models.Book, error)
	GetByCatalogNumber(ctx context.Context, isbn string) (*models.Book, error)
}
