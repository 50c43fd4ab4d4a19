package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/databridge/pgbridge"
	"github.com/databridge/pgbridge/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile string
	dbURL   string
)

var rootCmd = &cobra.Command{
	Use:   "pgbridge",
	Short: "Typed PostgreSQL access",
	Long: `pgbridge - Typed PostgreSQL access

Pgbridge is a typed intermediary for PostgreSQL: validated identifiers,
parameterized query building, and lossless value decoding with a stable
JSON projection.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = cli.LoadConfig(cfgFile)
		if err != nil {
			return cli.ConfigError("loading configuration", err)
		}
		logger = cfg.BuildLogger()

		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

// Command group IDs
const (
	groupDatabase = "database"
	groupUtility  = "utility"
)

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover pgbridge.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL")

	// Define command groups
	rootCmd.AddGroup(
		&cobra.Group{ID: groupDatabase, Title: "Database:"},
		&cobra.Group{ID: groupUtility, Title: "Utility:"},
	)

	// Database commands
	pingCmd.GroupID = groupDatabase
	queryCmd.GroupID = groupDatabase
	countCmd.GroupID = groupDatabase
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(countCmd)

	// Utility commands
	configCmd.GroupID = groupUtility
	versionCmd.GroupID = groupUtility
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// connect resolves the DSN from the --db flag or config and opens a
// pool using the configured pool settings.
func connect(ctx context.Context) (*pgxpool.Pool, error) {
	dsn := dbURL
	if dsn == "" {
		var err error
		dsn, err = cfg.DSN()
		if err != nil {
			return nil, cli.ConfigError("resolving database DSN", err)
		}
	}

	pool, err := pgbridge.Connect(ctx, dsn, pgbridge.PoolConfig{
		MinConns:       cfg.Pool.MinConns,
		MaxConns:       cfg.Pool.MaxConns,
		ConnectTimeout: cfg.Pool.ConnectTimeout,
		MaxLifetime:    cfg.Pool.MaxLifetime,
		IdleTimeout:    cfg.Pool.IdleTimeout,
	})
	if err != nil {
		return nil, cli.DBConnectError("connecting to database", err)
	}
	return pool, nil
}
