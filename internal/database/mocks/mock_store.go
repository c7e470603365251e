// file: internal/database/mocks/mock_store.go
// version: 2.0.0
// guid: db12a2a5-6aac-417b-87ec-8247398d3c03

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jdfalk/library-catalog/internal/database"
	"github.com/jdfalk/library-catalog/internal/models"
)

var _ database.Store = (*MockStore)(nil)

// MockStore is a testify mock of database.Store.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore and asserts its expectations when the test ends.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func bookResult(args mock.Arguments, i int) *models.Book {
	if b, ok := args.Get(i).(*models.Book); ok {
		return b
	}
	return nil
}

func loanResult(args mock.Arguments, i int) *models.Loan {
	if l, ok := args.Get(i).(*models.Loan); ok {
		return l
	}
	return nil
}

func (m *MockStore) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	args := m.Called(ctx, book)
	return bookResult(args, 0), args.Error(1)
}

func (m *MockStore) GetBookByID(ctx context.Context, id string) (*models.Book, error) {
	args := m.Called(ctx, id)
	return bookResult(args, 0), args.Error(1)
}

func (m *MockStore) GetBookByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	args := m.Called(ctx, isbn)
	return bookResult(args, 0), args.Error(1)
}

func (m *MockStore) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	args := m.Called(ctx, isbn)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) UpdateBook(ctx context.Context, id string, book *models.Book) (*models.Book, error) {
	args := m.Called(ctx, id, book)
	return bookResult(args, 0), args.Error(1)
}

func (m *MockStore) DeleteBook(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) FindBooks(ctx context.Context, filter models.BookFilter, page models.PageRequest) ([]models.Book, int, error) {
	args := m.Called(ctx, filter, page)
	books, _ := args.Get(0).([]models.Book)
	return books, args.Int(1), args.Error(2)
}

func (m *MockStore) CountBooks(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockStore) CreateLoan(ctx context.Context, loan *models.Loan) (*models.Loan, error) {
	args := m.Called(ctx, loan)
	return loanResult(args, 0), args.Error(1)
}

func (m *MockStore) GetLoanByID(ctx context.Context, id string) (*models.Loan, error) {
	args := m.Called(ctx, id)
	return loanResult(args, 0), args.Error(1)
}

func (m *MockStore) HasOpenLoan(ctx context.Context, bookID string) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
