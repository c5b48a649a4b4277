/*
main.go - MCP server entry point

PURPOSE:
  Starts the Model Context Protocol server on stdin/stdout so an
  MCP-capable assistant can run entitlement calculations and LHA lookups
  as tools. Stateless: no database, nothing is persisted.

ENVIRONMENT:
  UC_RATES_FILE    YAML rate book; compiled-in 2026-27 rates when unset
  UC_LHA_FILE      YAML LHA schedule; compiled-in sample BRMAs when unset

EXAMPLES:
  # Default rates
  ./uc-mcp

  # Operator-supplied rates
  UC_RATES_FILE=./rates/2026-27.yaml ./uc-mcp

  Logs go to stderr; stdout carries only protocol traffic.

SEE ALSO:
  - mcpserver/server.go: Tool definitions and handlers
  - cmd/server/main.go: The HTTP counterpart
*/
package main

import (
	"log"

	"github.com/claimkit/uc-engine/config"
	"github.com/claimkit/uc-engine/mcpserver"
	"github.com/claimkit/uc-engine/rates"
)

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	rateTable := rates.Default()
	if settings.RatesFile != "" {
		if rateTable, err = rates.LoadRateTable(settings.RatesFile); err != nil {
			log.Fatalf("Failed to load rate book: %v", err)
		}
	}

	lhaTable := rates.DefaultLHA()
	if settings.LHAFile != "" {
		if lhaTable, err = rates.LoadLHATable(settings.LHAFile); err != nil {
			log.Fatalf("Failed to load LHA schedule: %v", err)
		}
	}

	log.Printf("UC entitlement MCP server ready (tax year %s, %d BRMAs)", rateTable.TaxYear(), lhaTable.Len())

	if err := mcpserver.ServeStdio(mcpserver.New(rateTable, lhaTable)); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
