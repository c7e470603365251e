// file: internal/models/page.go
// version: 1.1.0
// guid: 62b685c8-f77d-43cd-bedd-789b3c40f7d7

package models

import (
	"math"
	"slices"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Sortable book fields.
const (
	SortByID     = "id"
	SortByTitle  = "title"
	SortByAuthor = "author"
	SortByISBN   = "isbn"
)

// BookFilter is a match-by-example filter. Empty fields do not constrain the result;
// non-empty fields are ANDed. Title and Author match as case-sensitive substrings,
// ISBN matches exactly.
type BookFilter struct {
	Title  string `json:"title,omitempty" form:"title"`
	Author string `json:"author,omitempty" form:"author"`
	ISBN   string `json:"isbn,omitempty" form:"isbn"`
}

// IsEmpty reports whether the filter matches every book.
func (f BookFilter) IsEmpty() bool {
	return f.Title == "" && f.Author == "" && f.ISBN == ""
}

// Matches applies the filter to a single book.
func (f BookFilter) Matches(b Book) bool {
	if f.Title != "" && !strings.Contains(b.Title, f.Title) {
		return false
	}
	if f.Author != "" && !strings.Contains(b.Author, f.Author) {
		return false
	}
	if f.ISBN != "" && b.ISBN != f.ISBN {
		return false
	}
	return true
}

// SortOrder orders results by a single field.
type SortOrder struct {
	Field      string
	Descending bool
}

// PageRequest selects one page of results.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// Offset is the number of records skipped before this page. It saturates at
// math.MaxInt instead of wrapping, so a far-out page is simply empty.
func (p PageRequest) Offset() int {
	if p.Page <= 0 || p.Size <= 0 {
		return 0
	}
	if p.Page > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return p.Page * p.Size
}

// Normalized clamps page index and size into their valid ranges.
func (p PageRequest) Normalized() PageRequest {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// IsSortableField reports whether field can be used in a SortOrder.
func IsSortableField(field string) bool {
	switch field {
	case SortByID, SortByTitle, SortByAuthor, SortByISBN:
		return true
	}
	return false
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"total_elements"`
	Page          int `json:"page"`
	Size          int `json:"size"`
}

// TotalPages returns the number of pages needed for TotalElements.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalElements + p.Size - 1) / p.Size
}

// SortBooks orders books in place. Ties, and an empty order list, fall back to ID order.
func SortBooks(books []Book, orders []SortOrder) {
	slices.SortStableFunc(books, func(a, b Book) int {
		for _, o := range orders {
			c := strings.Compare(bookField(a, o.Field), bookField(b, o.Field))
			if o.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func bookField(b Book, field string) string {
	switch field {
	case SortByTitle:
		return b.Title
	case SortByAuthor:
		return b.Author
	case SortByISBN:
		return b.ISBN
	default:
		return b.ID
	}
}
