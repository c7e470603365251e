// file: main_test.go
// version: 2.0.0
// guid: de467723-9feb-4ea7-86aa-2e6bf11b3d64

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMainHelp(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "db", "test.pebble")

	origArgs := os.Args
	defer func() {
		os.Args = origArgs
	}()

	os.Args = []string{
		"library-catalog",
		"--db",
		dbPath,
		"--help",
	}

	main()
}
