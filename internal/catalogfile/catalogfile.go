// file: internal/catalogfile/catalogfile.go
// version: 1.0.0
// guid: 163f22d9-bb3f-4ac0-a98d-6c12e84acbbe

// Package catalogfile reads and writes YAML catalog files used to import and
// export books in bulk.
//
// A catalog file looks like:
//
//	books:
//	  - title: Domain-Driven Design
//	    author: Eric Evans
//	    isbn: 978-0321125217
package catalogfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jdfalk/library-catalog/internal/models"
)

// File is the document stored in a catalog file.
type File struct {
	Books []models.Book `yaml:"books"`
}

// EntryError reports a catalog entry missing a required field.
type EntryError struct {
	Index int
	Field string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %d: %s must not be empty", e.Index+1, e.Field)
}

// Load reads and validates the catalog file at path.
func Load(path string) ([]models.Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	books, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return books, nil
}

// Decode parses a catalog document and validates every entry. All invalid
// entries are reported together.
func Decode(r io.Reader) ([]models.Book, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Book{}, nil
		}
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	var errs []error
	for i := range doc.Books {
		b := &doc.Books[i]
		b.Title = strings.TrimSpace(b.Title)
		b.Author = strings.TrimSpace(b.Author)
		b.ISBN = strings.TrimSpace(b.ISBN)
		for _, field := range []struct{ name, value string }{
			{"title", b.Title},
			{"author", b.Author},
			{"isbn", b.ISBN},
		} {
			if field.value == "" {
				errs = append(errs, &EntryError{Index: i, Field: field.name})
			}
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if doc.Books == nil {
		doc.Books = []models.Book{}
	}
	return doc.Books, nil
}

// Encode writes books as a catalog document.
func Encode(w io.Writer, books []models.Book) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(File{Books: books}); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return enc.Close()
}

// Write stores books in a catalog file at path, replacing any existing file.
func Write(path string, books []models.Book) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	if err := Encode(f, books); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close catalog file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace catalog file: %w", err)
	}
	return nil
}
