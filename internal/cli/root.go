// Package cli implements reportctl, the operator command line for the
// reporting engine.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hrinsight/internal/app/server"
	"hrinsight/internal/platform/config"
	"hrinsight/internal/transport/http/shared"
)

// Global flags
var (
	databaseURL string
	noMigrate   bool
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "reportctl",
	Short: "Generate consolidated reports, exports and benchmarks",
	Long: `reportctl runs the reporting engine against the configured database
without going through the HTTP API.

Configuration is read from the same environment variables as the server
(DATABASE_URL, REDIS_ADDR, REPORT_DEFAULT_WINDOW, ...). --database-url
overrides DATABASE_URL.

Examples:
  reportctl generate --start 2026-07-01 --end 2026-09-30
  reportctl export --format xlsx -o q3.xlsx
  reportctl benchmark --scope department --scope-id 4 --start 2026-01-01 --end 2026-06-30
  reportctl coverage`,
	SilenceUsage: true,
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres connection string (default: $DATABASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&noMigrate, "no-migrate", false, "Skip applying migrations on startup")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall command timeout")
}

func openApp(cmd *cobra.Command) (*server.App, context.Context, context.CancelFunc, error) {
	cfg := config.Load()
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if noMigrate {
		cfg.RunMigrations = false
	}
	cfg.MetricsEnabled = false

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	app, err := server.New(ctx, cfg)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	return app, ctx, cancel, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type periodFlags struct {
	start string
	end   string
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.start, "start", "", "Period start (YYYY-MM-DD or RFC3339)")
	cmd.Flags().StringVar(&p.end, "end", "", "Period end, inclusive (YYYY-MM-DD or RFC3339)")
}

func (p periodFlags) parse() (time.Time, time.Time, error) {
	start, err := shared.ParseDate(p.start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --start: %w", err)
	}
	end, err := shared.ParseEndDate(p.end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
	}
	return start, end, nil
}

// optionalID maps the unset flag value 0 to nil.
func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
