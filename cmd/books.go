// file: cmd/books.go
// version: 1.0.0
// guid: a48b0a53-9f33-4d4d-97db-f36ecd2f2278

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jdfalk/library-catalog/internal/catalogfile"
	"github.com/jdfalk/library-catalog/internal/config"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/models"
)

var (
	booksCmd = &cobra.Command{
		Use:   "books",
		Short: "Manage the book catalog",
	}

	booksImportCmd = &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import books from a YAML catalog file",
		Long: `Import books from a YAML catalog file. Books whose ISBN is already
registered are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, _ := cmd.Flags().GetInt("workers")
			return withServices(func(svc *services) error {
				_, err := runImport(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), svc.books, args[0], workers)
				return err
			})
		},
	}

	booksExportCmd = &cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Export all books to a YAML catalog file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(svc *services) error {
				return runExport(cmd.Context(), cmd.OutOrStdout(), svc.books, args[0])
			})
		},
	}

	booksListCmd = &cobra.Command{
		Use:   "list",
		Short: "List one page of books",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var filter models.BookFilter
			filter.Title, _ = flags.GetString("title")
			filter.Author, _ = flags.GetString("author")
			filter.ISBN, _ = flags.GetString("isbn")
			page, _ := flags.GetInt("page")
			size, _ := flags.GetInt("size")
			sortFields, _ := flags.GetStringSlice("sort")

			req := models.PageRequest{Page: page, Size: size}
			for _, field := range sortFields {
				req.Sort = append(req.Sort, parseSortFlag(field))
			}
			return withServices(func(svc *services) error {
				return runList(cmd.Context(), cmd.OutOrStdout(), svc.books, filter, req)
			})
		},
	}
)

func init() {
	booksImportCmd.Flags().Int("workers", 4, "number of concurrent import workers")

	booksListCmd.Flags().String("title", "", "only books whose title contains this text")
	booksListCmd.Flags().String("author", "", "only books whose author contains this text")
	booksListCmd.Flags().String("isbn", "", "only the book with this ISBN")
	booksListCmd.Flags().Int("page", 0, "page index, starting at 0")
	booksListCmd.Flags().Int("size", models.DefaultPageSize, "page size")
	booksListCmd.Flags().StringSlice("sort", nil, "sort field, optionally suffixed with :desc (repeatable)")

	booksCmd.AddCommand(booksImportCmd)
	booksCmd.AddCommand(booksExportCmd)
	booksCmd.AddCommand(booksListCmd)
}

// withServices opens the configured store for the duration of fn.
func withServices(fn func(*services) error) error {
	svc, err := openServices(config.Current())
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

// parseSortFlag reads `field` or `field:desc`.
func parseSortFlag(value string) models.SortOrder {
	field, dir, _ := strings.Cut(value, ":")
	return models.SortOrder{Field: field, Descending: dir == "desc"}
}

// importSummary counts the outcome of an import.
type importSummary struct {
	Imported   int
	Duplicates []string
	Failed     int
}

func runImport(ctx context.Context, out, errOut io.Writer, books *library.BookService, path string, workers int) (importSummary, error) {
	var summary importSummary

	entries, err := catalogfile.Load(path)
	if err != nil {
		return summary, err
	}
	if workers < 1 {
		workers = 1
	}

	fmt.Fprintf(out, "Importing %d books from %s (using %d workers)...\n", len(entries), path, workers)
	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionSetDescription("importing"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(errOut) }),
	)

	var (
		mu        sync.Mutex
		wg        sync.WaitGroup
		semaphore = make(chan struct{}, workers)
	)
	for i := range entries {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return summary, err
		}

		wg.Add(1)
		semaphore <- struct{}{} // Acquire
		go func(book models.Book) {
			defer wg.Done()
			defer func() {
				<-semaphore // Release
				bar.Add(1)
			}()

			_, err := books.Create(ctx, &book)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				summary.Imported++
			case library.IsDuplicateCatalogNumber(err):
				summary.Duplicates = append(summary.Duplicates, book.ISBN)
			default:
				summary.Failed++
				fmt.Fprintf(errOut, "Warning: could not import %q (%s): %v\n", book.Title, book.ISBN, err)
			}
		}(entries[i])
	}
	wg.Wait()

	sort.Strings(summary.Duplicates)
	for _, isbn := range summary.Duplicates {
		fmt.Fprintf(out, "Skipped duplicate ISBN %s\n", isbn)
	}
	fmt.Fprintf(out, "Imported %d books, skipped %d duplicates, %d failed\n",
		summary.Imported, len(summary.Duplicates), summary.Failed)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d books failed to import", summary.Failed)
	}
	return summary, nil
}

func runExport(ctx context.Context, out io.Writer, books *library.BookService, path string) error {
	all, err := books.All(ctx, models.BookFilter{})
	if err != nil {
		return fmt.Errorf("failed to read books: %w", err)
	}
	if err := catalogfile.Write(path, all); err != nil {
		return err
	}
	fmt.Fprintf(out, "Exported %d books to %s\n", len(all), path)
	return nil
}

func runList(ctx context.Context, out io.Writer, books *library.BookService, filter models.BookFilter, req models.PageRequest) error {
	page, err := books.Find(ctx, filter, req)
	if err != nil {
		return err
	}
	if len(page.Content) == 0 {
		fmt.Fprintln(out, "No books found.")
		return nil
	}

	for i, book := range page.Content {
		fmt.Fprintf(out, "%2d. ID: %s\n", page.Page*page.Size+i+1, book.ID)
		fmt.Fprintf(out, "    Title:  %s\n", book.Title)
		fmt.Fprintf(out, "    Author: %s\n", book.Author)
		fmt.Fprintf(out, "    ISBN:   %s\n", book.ISBN)
	}
	fmt.Fprintf(out, "Page %d of %d (%d books)\n", page.Page+1, page.TotalPages(), page.TotalElements)
	return nil
}
