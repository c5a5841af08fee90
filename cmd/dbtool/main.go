package main

import (
	"context"
	"flag"
	"log"
	"transport-report-service/internal/adapters/cache"
	"transport-report-service/internal/config"
)

// dbtool initializes or purges the SQL-backed sheet cache.
func main() {
	purge := flag.Bool("purge", false, "delete every cached sheet export")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	backend := cache.Backend{
		Kind:        cfg.CacheBackend,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
	}

	log.Printf("Initializing sheet cache schema backend=%s...", cfg.CacheBackend)
	db, err := cache.OpenSQL(ctx, backend)
	if err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	defer db.Close()
	log.Println("Schema ready.")

	if *purge {
		n, err := cache.Purge(ctx, db)
		if err != nil {
			log.Fatalf("purge failed: %v", err)
		}
		log.Printf("Purged %d cached exports.", n)
	}
}
