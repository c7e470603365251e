// file: cmd/config_cmd.go
// version: 1.0.0
// guid: b8321d8b-7051-4f45-8f44-d4dbf250db3f

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdfalk/library-catalog/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect and write configuration",
	}

	configInitCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write the effective configuration to a YAML file",
		Long: `Write the effective configuration (defaults, config file, environment
and flags combined) to path, or to $HOME/.library-catalog.yaml.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigInit(cmd.OutOrStdout(), config.Current(), path, force)
		},
	}
)

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(out io.Writer, cfg config.Config, path string, force bool) error {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigFilePath(); err != nil {
			return err
		}
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	if err := config.SaveConfigToFile(cfg, path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Configuration written to %s\n", path)
	return nil
}
