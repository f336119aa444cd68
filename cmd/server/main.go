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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pandasushi/internal/api"
	"pandasushi/internal/config"
	"pandasushi/internal/dialogflow"
	"pandasushi/internal/dispatch"
	"pandasushi/internal/kitchen"
	"pandasushi/internal/session"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store := session.NewStore()
	sim := kitchen.NewSimulator(time.Duration(cfg.Kitchen.PrepDelaySeconds) * time.Second)
	dispatcher := dispatch.New(store, sim)

	dialogflowClient, err := initializeDialogflow(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Dialogflow client: %v", err)
	}
	if dialogflowClient == nil {
		log.Printf("GOOGLE_APPLICATION_CREDENTIALS_JSON not set; /dialogflow-query disabled")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(dispatcher, sim, dialogflowClient, cfg.Server.StaticDir).Router(),
	}

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Webhook live on port %d", cfg.Server.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeDialogflow builds the detectIntent proxy client from the
// service-account key in the environment. No key means no proxy, but the
// webhook itself needs no credentials.
func initializeDialogflow(cfg *config.Config) (*dialogflow.Client, error) {
	credentials := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
	if credentials == "" {
		return nil, nil
	}

	tokens, err := dialogflow.NewTokenSource([]byte(credentials))
	if err != nil {
		return nil, fmt.Errorf("service account credentials: %w", err)
	}

	projectID := cfg.Dialogflow.ProjectID
	if projectID == "" {
		projectID = tokens.ProjectID()
	}
	return dialogflow.NewClient(tokens, projectID, cfg.Dialogflow.SessionID, cfg.Dialogflow.Language), nil
}

func startMetricsServer(port int, path string) {
	metricsRouter := gin.Default()
	metricsRouter.GET(path, gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
