/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the family-activity aid simulation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Build the canonical program catalog and engine
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (default: 8080)
  -db       SQLite database path (default: famiz.db)
            Use ":memory:" for an in-memory database
  -catalog  JSON catalog definition file. When omitted the built-in
            canonical catalog is served.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/famiz.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

  # Run with an operator-defined catalog
  ./server -catalog=./programs.json

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - catalog/programs.go: The program catalog loaded here
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/famiz/aid-engine/aid"
	"github.com/famiz/aid-engine/api"
	"github.com/famiz/aid-engine/catalog"
	"github.com/famiz/aid-engine/factory"
	"github.com/famiz/aid-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "famiz.db", "SQLite database path")
	catalogPath := flag.String("catalog", "", "JSON catalog file (default: built-in catalog)")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Build catalog and engine. The catalog is validated here, at
	// startup: a malformed program definition must never surface per
	// request. An operator-provided JSON file replaces the built-in
	// catalog wholesale.
	cat, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load program catalog: %v", err)
	}
	engine := aid.NewEngine(cat)
	log.Printf("Loaded %d aid programs", cat.Len())

	// Create router
	handler := api.NewHandler(store, engine)
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
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

// loadCatalog resolves the program catalog: the JSON file when a path
// is given, the built-in canonical catalog otherwise.
func loadCatalog(path string) (*aid.Catalog, error) {
	if path == "" {
		return aid.NewCatalog(catalog.Programs()...)
	}
	log.Printf("Loading program catalog from %s", path)
	return factory.New(catalog.Tables).ParseCatalogFile(path)
}
