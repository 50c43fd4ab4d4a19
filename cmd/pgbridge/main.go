// Package main provides a CLI for inspecting PostgreSQL data through
// the pgbridge typed value layer.
//
// The CLI supports:
//   - ping: Check database connectivity and pool health
//   - query: Run a filtered select against a table, printing rows as JSON
//   - count: Count rows matching a filter
//   - config: Show the effective configuration
//
// Commands that touch the database (ping, query, count) need a DSN from
// flags, PGBRIDGE_DATABASE_* environment variables, or pgbridge.yaml.
package main

func main() {
	Execute()
}
