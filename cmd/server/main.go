package main

import (
	"context"
	"log"

	"github.com/hassanfarid/fbr-invoice-service/internal/config"
	"github.com/hassanfarid/fbr-invoice-service/internal/handler"
	"github.com/hassanfarid/fbr-invoice-service/internal/repository"
	"github.com/hassanfarid/fbr-invoice-service/internal/server"
	"github.com/hassanfarid/fbr-invoice-service/internal/service"
)

func main() {
	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize the state store backend
	log.Printf("Initializing %s state store...", cfg.StoreBackend)
	var kv repository.KVStore
	switch cfg.StoreBackend {
	case config.StoreBackendPostgres:
		pool, err := repository.NewPostgresPool(context.Background(), cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer pool.Close()

		store := repository.NewPostgresKVStore(pool)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatalf("Failed to prepare database schema: %v", err)
		}
		kv = store
	default:
		store, err := repository.NewFileKVStore(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to initialize file store: %v", err)
		}
		kv = store
	}

	// Create the invoice service over the persisted state
	invoiceService := service.NewInvoiceService(repository.NewStateStore(kv))

	// Create handler
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)

	// Create and configure server
	log.Println("Configuring server...")
	appServer := server.NewServer(cfg, invoiceHandler)

	// Start server (blocking call)
	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}
