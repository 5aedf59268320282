// Command api serves only the JSON API, without the dashboard.
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
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// Standalone, the API takes the main port unless API_PORT says otherwise
	if appConfig.API.Port == "" {
		appConfig.API.Port = appConfig.Server.Port
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting API server on port %s", appConfig.API.Port)
	if err := appContainer.Serve(ctx, appContainer.Servers(false)...); err != nil {
		log.Fatal("Server failed:", err)
	}
}
