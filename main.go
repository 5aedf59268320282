package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"csvlens/internal/config"
	"csvlens/internal/container"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if appConfig.API.Port != "" {
		log.Printf("JSON API enabled on port %s", appConfig.API.Port)
	}
	if appConfig.Profiling.Enabled {
		log.Printf("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", appConfig.Profiling.Port)
	}

	log.Printf("Starting csvlens dashboard on http://localhost:%s", appConfig.Server.Port)
	if err := appContainer.Serve(ctx, appContainer.Servers(true)...); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Shut down cleanly")
}
