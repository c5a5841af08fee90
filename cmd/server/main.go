package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	"transport-report-service/internal/adapters/cache"
	"transport-report-service/internal/adapters/publisher"
	"transport-report-service/internal/adapters/sheets"
	"transport-report-service/internal/api"
	"transport-report-service/internal/api/handlers"
	"transport-report-service/internal/config"
	"transport-report-service/internal/metrics"
	"transport-report-service/internal/ports"
	"transport-report-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (sheet cache, spreadsheet source, observers)
// behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sites, err := config.LoadSites(cfg.SitesPath)
	if err != nil {
		log.Fatal(err)
	}

	sheetCache, closeCache, err := cache.Open(ctx, cache.Backend{
		Kind:        cfg.CacheBackend,
		DBPath:      cfg.DBPath,
		DatabaseURL: cfg.DatabaseURL,
		RedisURL:    cfg.RedisURL,
		TTL:         cfg.CacheTTL,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	mcol := metrics.NewCollector(cfg.Capacity)

	// Spreadsheet exports are cached so repeated page loads do not hit the remote service.
	source := sheets.NewGoogleSheetsSource(sheetCache, cfg.CacheTTL,
		sheets.WithBaseURL(cfg.SheetsBaseURL),
		sheets.WithConcurrency(cfg.FetchConcurrency),
		sheets.WithMetrics(mcol),
	)

	observers := []ports.AnomalyObserver{services.LogObserver{}, mcol}
	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSAnomalyPublisher(cfg.NATSURL)
		if err != nil {
			log.Printf("nats unavailable, anomalies stay local: %v", err)
		} else {
			defer pub.Close()
			observers = append(observers, pub)
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Sites: &handlers.SiteHandler{Sites: sites},
		Reports: &handlers.ReportHandler{
			Sites:  sites,
			Source: source,
			Options: services.ReportOptions{
				Capacity:         cfg.Capacity,
				ThresholdMinutes: cfg.DurationFlag,
				FetchConcurrency: cfg.FetchConcurrency,
				Observer:         services.Observers(observers...),
			},
			Recorder: mcol,
			Timeout:  60 * time.Second,
		},
		Metrics:      mcol.Handler(),
		AllowOrigins: cfg.CORSOrigins,
	})

	// Timeouts are tuned for cold-cache reports (several sheet downloads).
	log.Printf("Server listening addr=:%s cache=%s sites=%d", cfg.Port, cfg.CacheBackend, len(sites.All()))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}
