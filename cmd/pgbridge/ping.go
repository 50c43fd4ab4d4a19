package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/databridge/pgbridge/internal/cli"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check database connectivity",
	Long:  `Open a connection pool with the configured settings and verify the database answers.`,
	Example: `  # Ping using config or environment
  pgbridge ping

  # Ping an explicit database
  pgbridge ping --db postgres://localhost/mydb`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return cli.DBConnectError("ping failed", err)
		}

		stat := pool.Stat()
		fmt.Println("Database is reachable.")
		fmt.Printf("Pool: %d/%d connections (%d idle)\n",
			stat.TotalConns(), stat.MaxConns(), stat.IdleConns())
		return nil
	},
}
