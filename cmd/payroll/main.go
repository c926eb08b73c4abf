/*
main.go - Application entry point

PURPOSE:
  The payroll command. "serve" runs the HTTP API; the other subcommands
  call the same engine directly against the configured database.

COMMANDS:
  serve                       HTTP server with graceful shutdown
  punch <type> [--at]         Record in/out/sick/vacation
  today                       Today's hours and clock state
  calc [--start --end]        Period summary with per-day breakdown
  rate [--set]                Show or replace the hourly rate
  calendar [--year --month]   Month of entries

CONFIGURATION:
  Environment (PAYROLL_*), see config/config.go. The persistent flags
  --driver, --db, --database-url and --port override it.

EXAMPLES:
  # Run with file database
  payroll serve --db=./data/payroll.db

  # Run against PostgreSQL
  payroll serve --driver=postgres --database-url=postgres://localhost/payroll

  # Clock in at a specific time
  payroll punch in --at=2025-03-17T07:00:00Z

SEE ALSO:
  - api/server.go: Router configuration
  - payroll/calculator.go: Engine
*/
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
