// file: internal/library/loan_service_test.go
// version: 1.0.0
// guid: f52ee981-75e7-4ad8-80f3-40151cba3fc2

package library_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/library-catalog/internal/database/mocks"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2024, time.March, 9, 17, 45, 0, 0, time.UTC)
}

func newLoanService(t *testing.T, opts ...library.LoanOption) (*library.LoanService, *mocks.MockStore) {
	t.Helper()
	store := mocks.NewMockStore(t)
	books := library.NewBookService(store)
	opts = append([]library.LoanOption{library.WithClock(fixedClock)}, opts...)
	return library.NewLoanService(books, store, opts...), store
}

func TestLoanService_CreateForExistingBook(t *testing.T) {
	svc, store := newLoanService(t)
	ctx := context.Background()

	store.On("GetBookByISBN", ctx, "123").Return(&models.Book{ID: "b1", ISBN: "123"}, nil)
	store.On("CreateLoan", ctx, mock.MatchedBy(func(l *models.Loan) bool {
		return l.ID == "" &&
			l.BookID == "b1" &&
			l.Customer == "Ana" &&
			!l.Returned &&
			l.LoanDate.Equal(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC))
	})).Return(&models.Loan{ID: "loan-1", BookID: "b1"}, nil).Once()

	id, err := svc.Create(ctx, library.LoanRequest{ISBN: "123", Customer: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "loan-1", id)
}

func TestLoanService_CreateUsesClockLocalDate(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	late := func() time.Time { return time.Date(2024, time.March, 9, 22, 30, 0, 0, saoPaulo) }
	svc, store := newLoanService(t, library.WithClock(late))
	ctx := context.Background()

	store.On("GetBookByISBN", ctx, "123").Return(&models.Book{ID: "b1", ISBN: "123"}, nil)
	store.On("CreateLoan", ctx, mock.MatchedBy(func(l *models.Loan) bool {
		return l.LoanDate.Equal(time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC))
	})).Return(&models.Loan{ID: "loan-1", BookID: "b1"}, nil).Once()

	_, err := svc.Create(ctx, library.LoanRequest{ISBN: "123", Customer: "Ana"})
	require.NoError(t, err)
}

func TestLoanService_CreateForMissingBookWritesNothing(t *testing.T) {
	svc, store := newLoanService(t)
	ctx := context.Background()

	store.On("GetBookByISBN", ctx, "000").Return(nil, nil)

	id, err := svc.Create(ctx, library.LoanRequest{ISBN: "000", Customer: "Ana"})
	assert.Empty(t, id)
	require.Error(t, err)
	assert.True(t, library.IsNotFound(err))
	assert.Equal(t, "book not found for catalog number 000", err.Error())
	store.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
}

func TestLoanService_CreateValidatesRequest(t *testing.T) {
	tests := []struct {
		name string
		req  library.LoanRequest
		msg  string
	}{
		{"blank isbn", library.LoanRequest{ISBN: "  ", Customer: "Ana"}, library.MsgCatalogNumberRequired},
		{"blank customer", library.LoanRequest{ISBN: "123"}, library.MsgCustomerRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newLoanService(t)

			_, err := svc.Create(context.Background(), tt.req)
			assert.True(t, library.IsInvalidArgument(err))
			assert.Equal(t, tt.msg, err.Error())
			assert.Empty(t, store.Calls)
		})
	}
}

func TestLoanService_ExclusiveLoansRejectOpenLoan(t *testing.T) {
	svc, store := newLoanService(t, library.WithExclusiveLoans(true))
	ctx := context.Background()

	store.On("GetBookByISBN", ctx, "123").Return(&models.Book{ID: "b1", ISBN: "123"}, nil)
	store.On("HasOpenLoan", ctx, "b1").Return(true, nil)

	_, err := svc.Create(ctx, library.LoanRequest{ISBN: "123", Customer: "Ana"})
	assert.True(t, library.IsBookAlreadyLent(err))
	store.AssertNotCalled(t, "CreateLoan", mock.Anything, mock.Anything)
}

func TestLoanService_NonExclusiveAllowsConcurrentLoans(t *testing.T) {
	svc, store := newLoanService(t)
	ctx := context.Background()

	store.On("GetBookByISBN", ctx, "123").Return(&models.Book{ID: "b1", ISBN: "123"}, nil)
	store.On("CreateLoan", ctx, mock.Anything).Return(&models.Loan{ID: "l1"}, nil).Once()
	store.On("CreateLoan", ctx, mock.Anything).Return(&models.Loan{ID: "l2"}, nil).Once()

	first, err := svc.Create(ctx, library.LoanRequest{ISBN: "123", Customer: "Ana"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, library.LoanRequest{ISBN: "123", Customer: "Bia"})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	store.AssertNotCalled(t, "HasOpenLoan", mock.Anything, mock.Anything)
}

func TestLoanService_GetByIDPopulatesBook(t *testing.T) {
	svc, store := newLoanService(t)
	ctx := context.Background()

	store.On("GetLoanByID", ctx, "l1").Return(&models.Loan{ID: "l1", BookID: "b1", Customer: "Ana"}, nil)
	store.On("GetBookByID", ctx, "b1").Return(&models.Book{ID: "b1", Title: "Iracema"}, nil)

	loan, err := svc.GetByID(ctx, "l1")
	require.NoError(t, err)
	require.NotNil(t, loan.Book)
	assert.Equal(t, "Iracema", loan.Book.Title)
}

func TestLoanService_GetByIDMissing(t *testing.T) {
	svc, store := newLoanService(t)
	ctx := context.Background()

	store.On("GetLoanByID", ctx, "nope").Return(nil, nil)

	loan, err := svc.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, loan)
}
