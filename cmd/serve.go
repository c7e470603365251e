// file: cmd/serve.go
// version: 1.0.0
// guid: 7431de0f-718f-4d8c-923f-580368adcb11

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jdfalk/library-catalog/internal/config"
	"github.com/jdfalk/library-catalog/internal/server"
	"github.com/jdfalk/library-catalog/internal/server/middleware"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the HTTP server exposing the book catalog and loan API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Current()

		svc, err := openServices(cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		log.Printf("[INFO] Using database: %s (%s)", cfg.DatabasePath, cfg.DatabaseType)

		config.WatchConfig(func(c config.Config) {
			log.Printf("[INFO] Reloaded configuration (auth enabled: %v)", c.Auth.Enabled)
		})

		srvCfg, err := serverConfig(cmd, cfg)
		if err != nil {
			return err
		}
		srv, err := server.NewServer(server.Dependencies{
			Books:        svc.books,
			Loans:        svc.loans,
			Health:       svc.store,
			DatabaseType: cfg.DatabaseType,
		}, srvCfg)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Start(ctx)
	},
}

func init() {
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(flags *pflag.FlagSet) {
	flags.String("port", "", "port to run the web server on (default from config, 8080)")
	flags.String("host", "", "host to bind the web server to (default from config, localhost)")
	flags.String("read-timeout", "", "read timeout (e.g. 15s, 1m)")
	flags.String("write-timeout", "", "write timeout (e.g. 15s, 1m)")
	flags.String("idle-timeout", "", "idle timeout (e.g. 60s, 2m)")
	flags.Int("max-connections", 0, "maximum concurrent connections (default from config)")
}

// serverConfig builds the server configuration from cfg, overridden by any
// flags given on the command line.
func serverConfig(cmd *cobra.Command, cfg config.Config) (server.ServerConfig, error) {
	srvCfg := server.GetDefaultServerConfig()
	srvCfg.Host = cfg.Host
	srvCfg.Port = cfg.Port
	srvCfg.ReadTimeout = cfg.ReadTimeout
	srvCfg.WriteTimeout = cfg.WriteTimeout
	srvCfg.IdleTimeout = cfg.IdleTimeout
	srvCfg.MaxConnections = cfg.MaxConnections
	srvCfg.MaxBodyBytes = cfg.MaxBodyBytes
	srvCfg.RateLimitPerMinute = cfg.RateLimit.RequestsPerMinute
	srvCfg.RateLimitBurst = cfg.RateLimit.Burst
	srvCfg.DefaultLocale = cfg.DefaultLocale
	srvCfg.Credentials = credentialsFromConfig

	flags := cmd.Flags()
	if port, _ := flags.GetString("port"); port != "" {
		srvCfg.Port = port
	}
	if host, _ := flags.GetString("host"); host != "" {
		srvCfg.Host = host
	}
	for flag, target := range map[string]*time.Duration{
		"read-timeout":  &srvCfg.ReadTimeout,
		"write-timeout": &srvCfg.WriteTimeout,
		"idle-timeout":  &srvCfg.IdleTimeout,
	} {
		value, _ := flags.GetString(flag)
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return srvCfg, fmt.Errorf("invalid --%s: %w", flag, err)
		}
		*target = d
	}
	if n, _ := flags.GetInt("max-connections"); n > 0 {
		srvCfg.MaxConnections = n
	}
	return srvCfg, nil
}

// credentialsFromConfig reads the current auth settings on every request so
// config reloads apply without a restart.
func credentialsFromConfig() middleware.Credentials {
	auth := config.Auth()
	return middleware.Credentials{
		Enabled:      auth.Enabled,
		Username:     auth.Username,
		PasswordHash: auth.PasswordHash,
	}
}
