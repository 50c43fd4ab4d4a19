package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/databridge/pgbridge"
	"github.com/databridge/pgbridge/internal/cli"
)

var (
	queryColumns []string
	queryWhere   []string
	queryOrderBy string
	queryLimit   int64
	queryOffset  int64
)

var queryCmd = &cobra.Command{
	Use:   "query <table>",
	Short: "Run a filtered select against a table",
	Long: `Run a filtered select against a table and print each row as a JSON
object, one per line. Filters are simple equality conditions; the
special value "null" matches SQL NULL.`,
	Example: `  # All rows
  pgbridge query users

  # Filtered, ordered, paginated
  pgbridge query users --where status=active --order-by created_at:desc --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		qb, err := buildQuery(args[0])
		if err != nil {
			return err
		}

		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		store := pgbridge.NewStore(pool, pgbridge.WithLogger(logger))
		rows, err := store.FindMany(ctx, args[0], qb)
		if err != nil {
			return cli.QueryError("querying", err)
		}

		for _, row := range rows {
			out, err := row.MarshalJSON()
			if err != nil {
				return cli.GeneralError("encoding row", err)
			}
			fmt.Println(string(out))
		}
		return nil
	},
}

func init() {
	f := queryCmd.Flags()
	f.StringSliceVar(&queryColumns, "columns", nil, "columns to select (default: all)")
	f.StringArrayVar(&queryWhere, "where", nil, "equality filter as field=value (repeatable)")
	f.StringVar(&queryOrderBy, "order-by", "", "sort as column or column:desc")
	f.Int64Var(&queryLimit, "limit", 0, "maximum rows to return")
	f.Int64Var(&queryOffset, "offset", 0, "rows to skip")
}

// buildQuery assembles a QueryBuilder from the query command flags.
func buildQuery(table string) (*pgbridge.QueryBuilder, error) {
	qb, err := pgbridge.NewQueryBuilder(table)
	if err != nil {
		return nil, cli.GeneralError("invalid table", err)
	}

	if len(queryColumns) > 0 {
		if _, err := qb.Select(queryColumns...); err != nil {
			return nil, cli.GeneralError("invalid column", err)
		}
	}

	for _, filter := range queryWhere {
		field, raw, ok := strings.Cut(filter, "=")
		if !ok {
			return nil, cli.GeneralError(fmt.Sprintf("invalid filter %q, want field=value", filter), nil)
		}
		if raw == "null" {
			if _, err := qb.WhereNull(field); err != nil {
				return nil, cli.GeneralError("invalid filter field", err)
			}
			continue
		}
		if _, err := qb.Where(field, pgbridge.OpEq, parseFilterValue(raw)); err != nil {
			return nil, cli.GeneralError("invalid filter field", err)
		}
	}

	if queryOrderBy != "" {
		col, dir, err := parseOrderBy(queryOrderBy)
		if err != nil {
			return nil, err
		}
		if _, err := qb.OrderBy(col, dir); err != nil {
			return nil, cli.GeneralError("invalid order-by column", err)
		}
	}

	if queryLimit > 0 {
		qb.Limit(queryLimit)
	}
	if queryOffset > 0 {
		qb.Offset(queryOffset)
	}

	return qb, nil
}

// parseFilterValue maps a flag string to the closest typed value:
// integers, booleans, then text.
func parseFilterValue(raw string) pgbridge.Value {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return pgbridge.Int8(n)
	}
	if raw == "true" || raw == "false" {
		return pgbridge.Bool(raw == "true")
	}
	return pgbridge.Text(raw)
}

func parseOrderBy(raw string) (string, pgbridge.OrderDirection, error) {
	col, dirStr, ok := strings.Cut(raw, ":")
	if !ok {
		return col, pgbridge.Asc, nil
	}
	switch strings.ToLower(dirStr) {
	case "asc":
		return col, pgbridge.Asc, nil
	case "desc":
		return col, pgbridge.Desc, nil
	}
	return "", pgbridge.Asc, cli.GeneralError(fmt.Sprintf("invalid sort direction %q, want asc or desc", dirStr), nil)
}
