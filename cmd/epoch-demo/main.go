package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klabast/wb-services/epoch-demo/internal/app"
	"github.com/klabast/wb-services/epoch-demo/internal/commands"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	// Parse flags
	configPath := flag.String("config", app.DefaultConfigFile, "Path to YAML config file")
	listen := flag.String("listen", "", "Listen address (overrides config)")
	port := flag.Int("port", 0, "Port to listen on (shorthand for -listen :PORT)")
	flag.Parse()

	cfg, err := app.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.Listen = fmt.Sprintf(":%d", *port)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	location, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to resolve timezone: %v", err)
	}

	creds, err := app.LoadAuthCredentials(app.ResolveAuthFile(cfg.AuthFile))
	if err != nil {
		log.Fatalf("Failed to load auth credentials: %v", err)
	}

	templates, err := app.LoadTemplates()
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	svc := app.NewService(app.NewEventStore(), templates, location)
	server := app.NewServer(svc, creds, *cfg.LogRequests)

	httpServer := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting epoch-demo on http://%s (timezone: %s)", cfg.Listen, location)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}
