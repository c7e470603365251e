// file: internal/server/dto.go
// version: 1.0.0
// guid: 950e22ef-4419-4ee3-b3eb-3965aaf8c654

package server

import (
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/models"
)

// LoanDateLayout is the wire format of loan dates.
const LoanDateLayout = "2006-01-02"

// BookDTO is the wire form of a book. ID is ignored on input.
type BookDTO struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title" binding:"required,notblank,max=255"`
	Author string `json:"author" binding:"required,notblank,max=255"`
	ISBN   string `json:"isbn" binding:"required,notblank,max=32"`
}

// BookUpdateDTO carries the mutable fields of a book.
type BookUpdateDTO struct {
	Title  string `json:"title" binding:"required,notblank,max=255"`
	Author string `json:"author" binding:"required,notblank,max=255"`
}

// LoanDTO requests a loan of the book registered under ISBN.
type LoanDTO struct {
	ISBN     string `json:"isbn" binding:"required,notblank,max=32"`
	Customer string `json:"customer" binding:"required,notblank,max=255"`
}

// LoanResponseDTO is the wire form of a stored loan.
type LoanResponseDTO struct {
	ID       string   `json:"id"`
	Book     *BookDTO `json:"book,omitempty"`
	Customer string   `json:"customer"`
	LoanDate string   `json:"loanDate"`
	Returned bool     `json:"returned"`
}

func bookFromDTO(dto BookDTO) *models.Book {
	return &models.Book{
		Title:  dto.Title,
		Author: dto.Author,
		ISBN:   dto.ISBN,
	}
}

func bookFromUpdateDTO(id string, dto BookUpdateDTO) *models.Book {
	return &models.Book{
		ID:     id,
		Title:  dto.Title,
		Author: dto.Author,
	}
}

func bookToDTO(book models.Book) BookDTO {
	return BookDTO{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
		ISBN:   book.ISBN,
	}
}

func loanRequestFromDTO(dto LoanDTO) library.LoanRequest {
	return library.LoanRequest{
		ISBN:     dto.ISBN,
		Customer: dto.Customer,
	}
}

func loanToDTO(loan models.Loan) LoanResponseDTO {
	dto := LoanResponseDTO{
		ID:       loan.ID,
		Customer: loan.Customer,
		LoanDate: loan.LoanDate.Format(LoanDateLayout),
		Returned: loan.Returned,
	}
	if loan.Book != nil {
		book := bookToDTO(*loan.Book)
		dto.Book = &book
	}
	return dto
}
