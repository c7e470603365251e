// file: internal/library/loan_service.go
// version: 1.0.0
// guid: dde3695f-4341-41be-89f7-3c8cb27dc236

package library

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jdfalk/library-catalog/internal/models"
)

// LoanRequest asks for the book registered under ISBN to be lent to Customer.
type LoanRequest struct {
	ISBN     string
	Customer string
}

// LoanService records loans of catalog books to customers.
type LoanService struct {
	books     BookLookup
	loans     LoanStore
	now       func() time.Time
	exclusive bool
}

// LoanOption configures a LoanService.
type LoanOption func(*LoanService)

// WithClock overrides the clock used for loan dates.
func WithClock(now func() time.Time) LoanOption {
	return func(s *LoanService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithExclusiveLoans rejects a new loan while the book has an unreturned one.
func WithExclusiveLoans(enabled bool) LoanOption {
	return func(s *LoanService) {
		s.exclusive = enabled
	}
}

// NewLoanService creates a LoanService resolving books through books and
// persisting loans in loans.
func NewLoanService(books BookLookup, loans LoanStore, opts ...LoanOption) *LoanService {
	svc := &LoanService{
		books: books,
		loans: loans,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create lends the book identified by req.ISBN and returns the new loan's identifier.
func (svc *LoanService) Create(ctx context.Context, req LoanRequest) (string, error) {
	isbn := strings.TrimSpace(req.ISBN)
	if isbn == "" {
		return "", newError(KindInvalidArgument, MsgCatalogNumberRequired)
	}
	if strings.TrimSpace(req.Customer) == "" {
		return "", newError(KindInvalidArgument, MsgCustomerRequired)
	}

	book, err := svc.books.GetByCatalogNumber(ctx, isbn)
	if err != nil {
		return "", err
	}
	if book == nil {
		return "", newError(KindNotFound, MsgBookNotFoundForISBN, isbn)
	}

	if svc.exclusive {
		open, err := svc.loans.HasOpenLoan(ctx, book.ID)
		if err != nil {
			return "", fmt.Errorf("check open loans for book %s: %w", book.ID, err)
		}
		if open {
			return "", newError(KindBookAlreadyLent, MsgBookAlreadyLent)
		}
	}

	loan := &models.Loan{
		BookID:   book.ID,
		Customer: req.Customer,
		LoanDate: models.LoanDay(svc.now()),
		Returned: false,
	}
	saved, err := svc.loans.CreateLoan(ctx, loan)
	if err != nil {
		return "", fmt.Errorf("create loan: %w", err)
	}
	return saved.ID, nil
}

// GetByID returns the loan with its book populated, or nil when there is none.
func (svc *LoanService) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, err := svc.loans.GetLoanByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get loan %s: %w", id, err)
	}
	if loan == nil {
		return nil, nil
	}

	book, err := svc.books.GetByID(ctx, loan.BookID)
	if err != nil {
		return nil, err
	}
	loan.Book = book
	return loan, nil
}
