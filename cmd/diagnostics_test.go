// file: cmd/diagnostics_test.go
// version: 2.0.0
// guid: 3e35f483-f720-4f7d-94b8-1de3de9f008c

package cmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/jdfalk/library-catalog/internal/config"
	"github.com/jdfalk/library-catalog/internal/database"
	"github.com/jdfalk/library-catalog/internal/models"
)

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Fatalf("expected no truncation, got %q", got)
	}
	if got := truncateString("this is long", 4); got != "this..." {
		t.Fatalf("expected truncation, got %q", got)
	}
}

func TestPromptYesNo(t *testing.T) {
	confirmed, err := promptYesNo(strings.NewReader("yes\n"), io.Discard, "confirm")
	if err != nil {
		t.Fatalf("promptYesNo failed: %v", err)
	}
	if !confirmed {
		t.Fatal("expected confirmation")
	}

	confirmed, err = promptYesNo(strings.NewReader("no"), io.Discard, "confirm")
	if err != nil || confirmed {
		t.Fatalf("expected refusal, got %v (%v)", confirmed, err)
	}
}

func seedBooks(t *testing.T, cfg config.Config, n int) {
	t.Helper()
	svc, err := openServices(cfg)
	if err != nil {
		t.Fatalf("openServices failed: %v", err)
	}
	defer svc.Close()
	for i := 0; i < n; i++ {
		isbn := string(rune('a' + i))
		if _, err := svc.books.Create(context.Background(), &models.Book{Title: "Book " + isbn, Author: "A", ISBN: isbn}); err != nil {
			t.Fatal(err)
		}
	}
}

func TestRunDiagnosticsQueryErrors(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	if err := runDiagnosticsQuery(ctx, io.Discard, cfg, 0, "", false); err == nil {
		t.Fatal("expected error for invalid limit")
	}

	cfg.DatabaseType = database.TypeSQLite
	if err := runDiagnosticsQuery(ctx, io.Discard, cfg, 1, "book:", true); err == nil {
		t.Fatal("expected error for raw query with non-pebble db")
	}
}

func TestRunDiagnosticsQuerySuccess(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, 3)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runDiagnosticsQuery(ctx, &out, cfg, 2, "", false); err != nil {
		t.Fatalf("runDiagnosticsQuery failed: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Showing 2 of 3 books") {
		t.Fatalf("unexpected output: %q", got)
	}

	out.Reset()
	if err := runDiagnosticsQuery(ctx, &out, cfg, 10, "isbn:", true); err != nil {
		t.Fatalf("raw query failed: %v", err)
	}
	got := out.String()
	for _, key := range []string{"Key: isbn:a", "Key: isbn:b", "Key: isbn:c"} {
		if !strings.Contains(got, key) {
			t.Fatalf("expected %q in output: %q", key, got)
		}
	}
	if strings.Contains(got, "Key: book:") {
		t.Fatalf("prefix not applied: %q", got)
	}

	out.Reset()
	if err := runDiagnosticsQuery(ctx, &out, cfg, 10, "nothing:", true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No keys matched") {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestRunIndexCheck(t *testing.T) {
	cfg := testConfig(t)
	seedBooks(t, cfg, 2)
	ctx := context.Background()

	var out bytes.Buffer
	if err := runIndexCheck(ctx, strings.NewReader(""), &out, cfg, false, false); err != nil {
		t.Fatalf("runIndexCheck failed: %v", err)
	}
	if !strings.Contains(out.String(), "No index problems detected.") {
		t.Fatalf("unexpected output: %q", out.String())
	}

	sqlite := cfg
	sqlite.DatabaseType = database.TypeSQLite
	if err := runIndexCheck(ctx, strings.NewReader(""), io.Discard, sqlite, false, false); err == nil {
		t.Fatal("expected error for non-pebble db")
	}
}
