/*
main.go - Operator console entry point

PURPOSE:
  Starts the local bonus console: loads configuration, opens the snapshot
  store, wires the engine and serves the API until interrupted.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load config (bonus.yaml, .env, BONUS_* environment)
  3. Initialize SQLite snapshot store
  4. Build the engine from the configured catalog
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Config file path (default: bonus.yaml)
  -addr    Listen address, overrides config
  -db      SQLite database path, overrides config
           Use ":memory:" for a session that is never kept

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  ./server
  ./server -db="./data/bonus.db" -addr=127.0.0.1:3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration sources
  - store/sqlite/sqlite.go: Snapshot store
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/bonus-engine/api"
	"github.com/warp/bonus-engine/config"
	"github.com/warp/bonus-engine/session"
	"github.com/warp/bonus-engine/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", config.DefaultConfigFile, "Config file path")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Store.Path = *dbPath
	}

	catalog, err := cfg.BuildCatalog()
	if err != nil {
		log.Fatalf("Invalid catalog: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.Store.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	handler := api.NewHandler(session.NewEngine(catalog), store)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	// Uploads and exports can be large; keep the write timeout generous.
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("🚀 Bonus console starting on http://%s", cfg.Server.Addr)
		log.Printf("💾 Snapshots in %s", cfg.Store.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
