// file: internal/database/pebble_check.go
// version: 1.0.0
// guid: ff70fa8f-b3d1-43ac-ab8d-5002823d85e9

package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/cockroachdb/pebble/v2"

	"github.com/jdfalk/library-catalog/internal/models"
)

// IndexProblem is an index entry that disagrees with the stored records.
type IndexProblem struct {
	Key      string
	Reason   string
	Repaired bool
}

type indexFix struct {
	problem int
	del     [][]byte
	set     [2][]byte
}

// CheckIndexes verifies the isbn and loanbook indexes against the book and
// loan records. With repair set, dangling entries are deleted and missing
// isbn entries are restored. Conflicting isbn entries are only reported.
func (p *PebbleStore) CheckIndexes(ctx context.Context, repair bool) ([]IndexProblem, error) {
	if p.closed.Load() {
		return nil, errStoreClosed
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var problems []IndexProblem
	var fixes []indexFix
	report := func(key []byte, reason string, fix *indexFix) {
		problems = append(problems, IndexProblem{Key: string(key), Reason: reason})
		if fix != nil {
			fix.problem = len(problems) - 1
			fixes = append(fixes, *fix)
		}
	}

	// isbn:<isbn> must point at a book carrying that isbn
	err := p.scanPrefix(ctx, []byte(prefixISBN), func(key, value []byte) error {
		isbn := strings.TrimPrefix(string(key), prefixISBN)
		book, err := p.GetBookByID(ctx, string(value))
		if err != nil {
			return err
		}
		k := append([]byte(nil), key...)
		switch {
		case book == nil:
			report(k, fmt.Sprintf("isbn index points to missing book %s", value), &indexFix{del: [][]byte{k}})
		case book.ISBN != isbn:
			report(k, fmt.Sprintf("isbn index points to book %s with isbn %s", book.ID, book.ISBN), &indexFix{del: [][]byte{k}})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan isbn index: %w", err)
	}

	// every book must be reachable through its isbn
	err = p.scanPrefix(ctx, []byte(prefixBook), func(key, value []byte) error {
		var book models.Book
		if err := json.Unmarshal(value, &book); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		owner, found, err := p.getString(isbnKey(book.ISBN))
		if err != nil {
			return err
		}
		switch {
		case !found:
			report(isbnKey(book.ISBN), fmt.Sprintf("book %s has no isbn index entry", book.ID),
				&indexFix{set: [2][]byte{isbnKey(book.ISBN), []byte(book.ID)}})
		case owner != book.ID:
			holder, err := p.GetBookByID(ctx, owner)
			if err != nil {
				return err
			}
			if holder != nil && holder.ISBN == book.ISBN {
				report(isbnKey(book.ISBN), fmt.Sprintf("isbn %s is claimed by books %s and %s", book.ISBN, owner, book.ID), nil)
				return nil
			}
			// The isbn scan deletes the stale entry; this fix runs after it
			report(isbnKey(book.ISBN), fmt.Sprintf("book %s is not reachable through its isbn", book.ID),
				&indexFix{set: [2][]byte{isbnKey(book.ISBN), []byte(book.ID)}})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan books: %w", err)
	}

	// loanbook:<book>:<loan> must reference an existing book and loan
	err = p.scanPrefix(ctx, []byte(prefixLoanBook), func(key, value []byte) error {
		rest := strings.TrimPrefix(string(key), prefixLoanBook)
		bookID, _, _ := strings.Cut(rest, ":")
		k := append([]byte(nil), key...)

		bookExists, err := p.has(bookKey(bookID))
		if err != nil {
			return err
		}
		if !bookExists {
			report(k, fmt.Sprintf("loan %s references missing book %s", value, bookID),
				&indexFix{del: [][]byte{k, loanKey(string(value))}})
			return nil
		}
		loanExists, err := p.has(loanKey(string(value)))
		if err != nil {
			return err
		}
		if !loanExists {
			report(k, fmt.Sprintf("loan index points to missing loan %s", value), &indexFix{del: [][]byte{k}})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan index: %w", err)
	}

	if !repair || len(fixes) == 0 {
		return problems, nil
	}

	batch := p.db.NewBatch()
	defer batch.Close()
	for _, fix := range fixes {
		for _, key := range fix.del {
			if err := batch.Delete(key, nil); err != nil {
				return problems, err
			}
		}
		if fix.set[0] != nil {
			if err := batch.Set(fix.set[0], fix.set[1], nil); err != nil {
				return problems, err
			}
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return problems, fmt.Errorf("failed to repair indexes: %w", err)
	}
	for _, fix := range fixes {
		problems[fix.problem].Repaired = true
	}
	return problems, nil
}
