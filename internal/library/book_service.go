// file: internal/library/book_service.go
// version: 1.1.0
// guid: 456bf85c-570d-45d6-a36c-292399929584

package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jdfalk/library-catalog/internal/models"
)

// BookService owns the book lifecycle and the catalog-number uniqueness rule.
type BookService struct {
	store BookStore
}

// NewBookService creates a BookService backed by store.
func NewBookService(store BookStore) *BookService {
	return &BookService{store: store}
}

// Create stores a new book. The catalog number must not already be registered.
// Surrounding whitespace is dropped from every field before the check.
func (svc *BookService) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	if book == nil {
		return nil, newError(KindInvalidArgument, MsgBookRequired)
	}

	// The store assigns the identifier
	record := &models.Book{
		Title:  strings.TrimSpace(book.Title),
		Author: strings.TrimSpace(book.Author),
		ISBN:   strings.TrimSpace(book.ISBN),
	}

	exists, err := svc.store.ExistsByISBN(ctx, record.ISBN)
	if err != nil {
		return nil, fmt.Errorf("check catalog number: %w", err)
	}
	if exists {
		return nil, newError(KindDuplicateCatalogNumber, MsgDuplicateCatalogNumber)
	}

	saved, err := svc.store.CreateBook(ctx, record)
	if errors.Is(err, models.ErrDuplicateKey) {
		return nil, newError(KindDuplicateCatalogNumber, MsgDuplicateCatalogNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return saved, nil
}

// GetByID returns the book with id, or nil when there is none.
func (svc *BookService) GetByID(ctx context.Context, id string) (*models.Book, error) {
	book, err := svc.store.GetBookByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book %s: %w", id, err)
	}
	return book, nil
}

// GetByCatalogNumber returns the book registered under isbn, or nil when there is none.
func (svc *BookService) GetByCatalogNumber(ctx context.Context, isbn string) (*models.Book, error) {
	isbn = strings.TrimSpace(isbn)
	book, err := svc.store.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("get book by catalog number %s: %w", isbn, err)
	}
	return book, nil
}

// Update replaces title and author of an existing book. The catalog number is
// never changed through this path.
func (svc *BookService) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	if !book.HasID() {
		return nil, newError(KindInvalidArgument, MsgBookIDRequired)
	}

	current, err := svc.store.GetBookByID(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("load book %s: %w", book.ID, err)
	}
	if current == nil {
		return nil, newError(KindNotFound, MsgBookNotFound)
	}

	current.Title = strings.TrimSpace(book.Title)
	current.Author = strings.TrimSpace(book.Author)

	updated, err := svc.store.UpdateBook(ctx, current.ID, current)
	if errors.Is(err, models.ErrRecordNotFound) {
		return nil, newError(KindNotFound, MsgBookNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update book %s: %w", book.ID, err)
	}
	return updated, nil
}

// Delete removes a book. Deleting an identifier that is not stored is a no-op.
func (svc *BookService) Delete(ctx context.Context, book *models.Book) error {
	if !book.HasID() {
		return newError(KindInvalidArgument, MsgBookIDRequired)
	}
	if err := svc.store.DeleteBook(ctx, book.ID); err != nil {
		return fmt.Errorf("delete book %s: %w", book.ID, err)
	}
	return nil
}

// Find returns one page of books matching filter together with the total match count.
func (svc *BookService) Find(ctx context.Context, filter models.BookFilter, page models.PageRequest) (models.Page[models.Book], error) {
	page = page.Normalized()
	for _, o := range page.Sort {
		if !models.IsSortableField(o.Field) {
			return models.Page[models.Book]{}, newError(KindInvalidArgument, MsgUnsupportedSortField, o.Field)
		}
	}

	books, total, err := svc.store.FindBooks(ctx, filter, page)
	if err != nil {
		return models.Page[models.Book]{}, fmt.Errorf("find books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}

	return models.Page[models.Book]{
		Content:       books,
		TotalElements: total,
		Page:          page.Page,
		Size:          page.Size,
	}, nil
}

// All pages through every book matching filter in id order.
func (svc *BookService) All(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	var all []models.Book
	req := models.PageRequest{Size: models.MaxPageSize}
	for {
		page, err := svc.Find(ctx, filter, req)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Content...)
		if len(page.Content) < page.Size || len(all) >= page.TotalElements {
			return all, nil
		}
		req.Page++
	}
}

// Count returns the number of stored books.
func (svc *BookService) Count(ctx context.Context) (int, error) {
	n, err := svc.store.CountBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}
