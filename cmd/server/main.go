/*
main.go - Application entry point

PURPOSE:
  Runs the perfumeria CLI. `serve` starts the HTTP API; every other
  command operates directly on the configured store and exits.

STARTUP SEQUENCE (serve):
  1. Load .env, environment and flags
  2. Open the key-value store and load the ledger (seed for missing keys)
  3. Wire Kafka events, Jaeger tracing and the Gemini assistant if configured
  4. Start the stock monitor and the HTTP server

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Flush pending collection writes and close the store
  4. Exit

EXAMPLES:
  # Serve with JSON files under ./data
  ./server serve

  # Serve with SQLite
  ./server serve --store sqlite --store-dsn ./data/perfumeria.db

  # Record a sale from the shell
  ./server sale add 10001 1

ENVIRONMENT:
  PERFUMERIA_* mirrors every flag (PERFUMERIA_STORE_DSN, ...). PORT,
  KAFKA_BROKERS, GEMINI_API_KEY and JAEGER_ENDPOINT are accepted too.

SEE ALSO:
  - cli/root.go: Commands and flags
  - config/config.go: Settings
*/
package main

import (
	"fmt"
	"os"

	"github.com/warp/perfume-ledger/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
