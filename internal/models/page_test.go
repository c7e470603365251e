// file: internal/models/page_test.go
// version: 1.1.0
// guid: 77f3a0af-882a-4282-bf19-565df3172fd8

package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBookFilter_Matches(t *testing.T) {
	book := Book{ID: "01", Title: "As Aventuras", Author: "Eduardo", ISBN: "147852"}

	tests := []struct {
		name   string
		filter BookFilter
		want   bool
	}{
		{"empty filter matches everything", BookFilter{}, true},
		{"title substring", BookFilter{Title: "Aventuras"}, true},
		{"title is case sensitive", BookFilter{Title: "aventuras"}, false},
		{"author substring", BookFilter{Author: "Edu"}, true},
		{"isbn exact", BookFilter{ISBN: "147852"}, true},
		{"isbn prefix does not match", BookFilter{ISBN: "1478"}, false},
		{"fields are ANDed", BookFilter{Title: "As", Author: "Fulano"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(book))
		})
	}
}

func TestPageRequest_Normalized(t *testing.T) {
	p := PageRequest{Page: -3, Size: 0}.Normalized()
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, DefaultPageSize, p.Size)

	p = PageRequest{Page: 2, Size: 500}.Normalized()
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 200, p.Offset())
}

func TestPageRequest_OffsetSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, PageRequest{Page: 461168601842738791, Size: 20}.Offset())
	assert.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt, Size: MaxPageSize}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 3, Size: 0}.Offset())
	assert.Equal(t, 0, PageRequest{Page: -1, Size: 20}.Offset())
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 0, Page[Book]{TotalElements: 0, Size: 10}.TotalPages())
	assert.Equal(t, 1, Page[Book]{TotalElements: 10, Size: 10}.TotalPages())
	assert.Equal(t, 3, Page[Book]{TotalElements: 21, Size: 10}.TotalPages())
	assert.Equal(t, 0, Page[Book]{TotalElements: 5}.TotalPages())
}

func TestSortBooks(t *testing.T) {
	books := []Book{
		{ID: "03", Title: "B", Author: "x"},
		{ID: "01", Title: "C", Author: "x"},
		{ID: "02", Title: "A", Author: "y"},
	}

	SortBooks(books, nil)
	assert.Equal(t, []string{"01", "02", "03"}, ids(books))

	SortBooks(books, []SortOrder{{Field: SortByTitle}})
	assert.Equal(t, []string{"02", "03", "01"}, ids(books))

	SortBooks(books, []SortOrder{{Field: SortByAuthor, Descending: true}, {Field: SortByTitle}})
	assert.Equal(t, []string{"02", "03", "01"}, ids(books))
}

func TestLoanDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	ts := time.Date(2026, 3, 4, 23, 30, 0, 0, loc)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), LoanDay(ts), "late evening keeps the local date")

	ts = time.Date(2026, 3, 5, 0, 15, 0, 0, time.FixedZone("CET", 60*60))
	assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), LoanDay(ts))

	stored := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, stored, LoanDay(stored), "already a loan day")
}

func ids(books []Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}
