// file: internal/models/book.go
// version: 2.1.0
// guid: 7f505f37-ea42-45e8-8136-78c0a36cb495

package models

import (
	"errors"
	"time"
)

// Store-level sentinels shared by every store implementation.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
)

// Book is a catalog record. ID is a ULID assigned by the store on creation.
type Book struct {
	ID     string `json:"id" db:"id" yaml:"id,omitempty"`
	Title  string `json:"title" db:"title" yaml:"title"`
	Author string `json:"author" db:"author" yaml:"author"`
	ISBN   string `json:"isbn" db:"isbn" yaml:"isbn"`
}

// HasID reports whether the book carries a store-assigned identifier.
func (b *Book) HasID() bool {
	return b != nil && b.ID != ""
}

// Loan records that a book was lent to a customer.
type Loan struct {
	ID       string    `json:"id" db:"id"`
	BookID   string    `json:"book_id" db:"book_id"`
	Customer string    `json:"customer" db:"customer"`
	LoanDate time.Time `json:"loan_date" db:"loan_date"`
	Returned bool      `json:"returned" db:"returned"`

	// Populated on read, never persisted as a copy
	Book *Book `json:"book,omitempty" db:"-"`
}

// LoanDay returns the calendar day of t in t's own location, as midnight UTC.
// Callers pass the server's local time to get the local date.
func LoanDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
