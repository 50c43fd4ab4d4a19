package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/databridge/pgbridge"
	"github.com/databridge/pgbridge/internal/cli"
)

var countWhere []string

var countCmd = &cobra.Command{
	Use:   "count <table>",
	Short: "Count rows matching a filter",
	Example: `  # Count all rows
  pgbridge count users

  # Count with a filter
  pgbridge count users --where status=active`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		qb, err := pgbridge.NewQueryBuilder(args[0])
		if err != nil {
			return cli.GeneralError("invalid table", err)
		}
		for _, filter := range countWhere {
			field, raw, ok := strings.Cut(filter, "=")
			if !ok {
				return cli.GeneralError(fmt.Sprintf("invalid filter %q, want field=value", filter), nil)
			}
			if raw == "null" {
				if _, err := qb.WhereNull(field); err != nil {
					return cli.GeneralError("invalid filter field", err)
				}
				continue
			}
			if _, err := qb.Where(field, pgbridge.OpEq, parseFilterValue(raw)); err != nil {
				return cli.GeneralError("invalid filter field", err)
			}
		}

		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := pgbridge.NewStore(pool, pgbridge.WithLogger(logger))
		n, err := store.Count(ctx, args[0], qb)
		if err != nil {
			return cli.QueryError("counting", err)
		}

		fmt.Println(n)
		return nil
	},
}

func init() {
	countCmd.Flags().StringArrayVar(&countWhere, "where", nil, "equality filter as field=value (repeatable)")
}
