// file: cmd/diagnostics.go
// version: 2.0.0
// guid: 83eb6bcf-4762-4039-9da3-82e7d8c6dcc2

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/pebble/v2"
	"github.com/spf13/cobra"

	"github.com/jdfalk/library-catalog/internal/config"
	"github.com/jdfalk/library-catalog/internal/database"
	"github.com/jdfalk/library-catalog/internal/library"
	"github.com/jdfalk/library-catalog/internal/models"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and repair helpers",
		Long:  "Diagnostic utilities for inspecting and repairing the catalog database.",
	}

	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Verify the ISBN and loan indexes (Pebble only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			fix, _ := cmd.Flags().GetBool("fix")
			force, _ := cmd.Flags().GetBool("yes")
			return runIndexCheck(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), config.Current(), fix, force)
		},
	}

	queryCmd = &cobra.Command{
		Use:   "query",
		Short: "Inspect stored book records",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			prefix, _ := cmd.Flags().GetString("prefix")
			raw, _ := cmd.Flags().GetBool("raw")
			return runDiagnosticsQuery(cmd.Context(), cmd.OutOrStdout(), config.Current(), limit, prefix, raw)
		},
	}
)

func init() {
	checkCmd.Flags().Bool("fix", false, "Repair dangling and missing index entries")
	checkCmd.Flags().Bool("yes", false, "Skip confirmation prompt")

	queryCmd.Flags().Int("limit", 5, "Number of records to display")
	queryCmd.Flags().String("prefix", "book:", "Key prefix to inspect when --raw is set")
	queryCmd.Flags().Bool("raw", false, "Show raw Pebble key/value data (Pebble only)")

	diagnosticsCmd.AddCommand(checkCmd)
	diagnosticsCmd.AddCommand(queryCmd)
}

func runIndexCheck(ctx context.Context, in io.Reader, out io.Writer, cfg config.Config, fix, force bool) error {
	if cfg.DatabaseType != database.TypePebble {
		return fmt.Errorf("index check is only available for Pebble databases")
	}

	store, err := database.NewPebbleStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "Inspecting indexes in %s (%s)\n", cfg.DatabasePath, cfg.DatabaseType)

	problems, err := store.CheckIndexes(ctx, false)
	if err != nil {
		return err
	}
	if len(problems) == 0 {
		fmt.Fprintln(out, "No index problems detected.")
		return nil
	}

	fmt.Fprintf(out, "Found %d index problems:\n", len(problems))
	for i, p := range problems {
		fmt.Fprintf(out, "%2d. Key: %s\n", i+1, p.Key)
		fmt.Fprintf(out, "    %s\n", p.Reason)
	}

	if !fix {
		fmt.Fprintln(out, "Run with --fix to repair them.")
		return nil
	}

	if !force {
		confirmed, err := promptYesNo(in, out, fmt.Sprintf("Repair %d problems", len(problems)))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Aborted. Nothing was changed.")
			return nil
		}
	}

	problems, err = store.CheckIndexes(ctx, true)
	if err != nil {
		return err
	}
	repaired := 0
	for _, p := range problems {
		if p.Repaired {
			repaired++
		} else {
			fmt.Fprintf(out, "Not repaired: %s (%s)\n", p.Key, p.Reason)
		}
	}
	fmt.Fprintf(out, "Repaired %d of %d problems.\n", repaired, len(problems))
	return nil
}

func runDiagnosticsQuery(ctx context.Context, out io.Writer, cfg config.Config, limit int, prefix string, raw bool) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}

	if raw {
		if cfg.DatabaseType != database.TypePebble {
			return fmt.Errorf("raw inspection is only available for Pebble databases")
		}
		return runRawPebbleQuery(out, cfg.DatabasePath, limit, prefix)
	}

	store, err := database.InitializeStore(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	page, err := library.NewBookService(store).Find(ctx, models.BookFilter{}, models.PageRequest{Size: limit})
	if err != nil {
		return fmt.Errorf("failed to fetch books: %w", err)
	}
	if len(page.Content) == 0 {
		fmt.Fprintln(out, "No books found.")
		return nil
	}

	for i, book := range page.Content {
		fmt.Fprintf(out, "%2d. ID: %s\n", i+1, book.ID)
		fmt.Fprintf(out, "    Title: %s\n", book.Title)
		fmt.Fprintf(out, "    Author: %s\n", book.Author)
		fmt.Fprintf(out, "    ISBN: %s\n", book.ISBN)
		fmt.Fprintln(out, "---")
	}
	fmt.Fprintf(out, "Showing %d of %d books\n", len(page.Content), page.TotalElements)

	return nil
}

func runRawPebbleQuery(out io.Writer, path string, limit int, prefix string) error {
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for ok := iter.First(); ok && iter.Valid(); ok = iter.Next() {
		fmt.Fprintf(out, "Key: %s\n", string(iter.Key()))
		val := iter.Value()
		fmt.Fprintf(out, "Value length: %d bytes\n", len(val))
		fmt.Fprintf(out, "Value preview: %s\n", truncateString(string(val), 500))
		fmt.Fprintln(out, "---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(out, "No keys matched the requested prefix.")
	}

	return nil
}

func promptYesNo(in io.Reader, out io.Writer, action string) (bool, error) {
	fmt.Fprintf(out, "%s? Type 'yes' to confirm: ", action)
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
