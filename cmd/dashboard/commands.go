package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/neurobridge-dashboard/internal/app"
	"github.com/yungbote/neurobridge-dashboard/internal/platform/logger"
)

// loadConfig builds the viper for this invocation and binds the command's flags to
// their config keys.
func loadConfig(cmd *cobra.Command, binds map[string]string) (app.Config, error) {
	v, err := app.NewViper(configPath)
	if err != nil {
		return app.Config{}, err
	}
	for key, flag := range binds {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return app.Config{}, err
			}
		}
	}
	return app.Load(v)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"http.addr":    "addr",
				"metrics.addr": "metrics-addr",
				"redis.addr":   "redis-addr",
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Start(ctx); err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
	cmd.Flags().String("addr", "", "HTTP listen address (overrides http.addr)")
	cmd.Flags().String("metrics-addr", "", "separate metrics listen address")
	cmd.Flags().String("redis-addr", "", "redis address for the realtime bus")
	return cmd
}

func probeCmd() *cobra.Command {
	var (
		token  string
		userID string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run every dashboard view once and print per-call outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env)
			if err != nil {
				return err
			}
			defer log.Sync()

			p, err := app.NewProbe(log, cfg)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			reports, err := p.Run(ctx, token, userID)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), reports)
			}
			renderReports(cmd.OutOrStdout(), reports)
			if degraded(reports) {
				return errDegraded
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "bearer token forwarded upstream (default: issue one)")
	cmd.Flags().StringVar(&userID, "user-id", "probe", "subject of the issued token")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg.Redacted())
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
			}
			return nil
		},
	}
}
