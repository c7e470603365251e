// file: cmd/root.go
// version: 2.0.0
// guid: e624ca69-9323-4406-b96c-53edf7747c86

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/library-catalog/internal/config"
	"github.com/jdfalk/library-catalog/internal/database"
	"github.com/jdfalk/library-catalog/internal/library"
)

var cfgFile string
var databasePath string
var databaseType string
var databaseDSN string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "library-catalog",
	Short: "Library book catalog and loan service",
	Long: `Library Catalog keeps a catalog of books identified by ISBN and records
loans of those books to customers.

It serves a localized JSON API and offers bulk import, export and
diagnostics from the command line.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.library-catalog.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "library.pebble", "path to database (PebbleDB directory or SQLite file)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "pebble", "database type: pebble (default), sqlite or postgres")
	rootCmd.PersistentFlags().StringVar(&databaseDSN, "dsn", "", "PostgreSQL connection string (postgres only)")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	viper.BindPFlag("database_dsn", rootCmd.PersistentFlags().Lookup("dsn"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(diagnosticsCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.DefaultConfigName)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()

	// Ensure database directory exists
	cfg := config.Current()
	if cfg.DatabaseType != database.TypePostgres && cfg.DatabasePath != "" {
		dbDir := filepath.Dir(cfg.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "Error creating database directory: %v\n", err)
			}
		}
	}
}

// services bundles the store and the services built on it.
type services struct {
	store database.Store
	books *library.BookService
	loans *library.LoanService
}

// openServices opens the configured store and wires the catalog and loan
// services to it. The caller closes the store.
func openServices(cfg config.Config) (*services, error) {
	store, err := database.InitializeStore(cfg.DatabaseType, cfg.DatabasePath, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	books := library.NewBookService(store)
	loans := library.NewLoanService(books, store, library.WithExclusiveLoans(cfg.Loans.Exclusive))
	return &services{store: store, books: books, loans: loans}, nil
}

func (s *services) Close() error {
	return s.store.Close()
}
