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

	"github.com/chainpilot-ai/chainpilot/internal/api"
	"github.com/chainpilot-ai/chainpilot/internal/config"
	"github.com/chainpilot-ai/chainpilot/internal/core"
	"github.com/chainpilot-ai/chainpilot/internal/market"
	"github.com/chainpilot-ai/chainpilot/internal/oracle"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for listing the provider's models
	listModelsFlag := flag.Bool("list-models", false, "List models available from the LLM provider and exit")
	flag.Parse()

	ctx := context.Background()

	// Initialize the intent oracle
	var (
		llmOracle oracle.Oracle
		lister    oracle.ModelLister
	)
	switch config.AppConfig.LLMProvider {
	case "gemini":
		gemini, err := oracle.NewGeminiOracle(ctx, config.AppConfig.LLMAPIKey, config.AppConfig.LLMModel)
		if err != nil {
			log.Fatalf("Failed to create Gemini oracle: %v", err)
		}
		defer gemini.Close()
		llmOracle, lister = gemini, gemini
	default:
		o := oracle.NewOpenAIOracle(config.AppConfig.LLMAPIKey, config.AppConfig.LLMAPIURL, config.AppConfig.LLMModel)
		llmOracle, lister = o, o
	}

	if *listModelsFlag {
		names, err := lister.ListModels(ctx)
		if err != nil {
			log.Fatalf("Failed to list models: %v", err)
		}
		fmt.Println("Available models:")
		for _, name := range names {
			fmt.Printf("- %s\n", name)
		}
		os.Exit(0)
	}

	// Initialize services
	intentService := core.NewIntentService(llmOracle)

	pollerCtx, cancelPoller := context.WithCancel(ctx)
	defer cancelPoller()
	poller := market.NewPoller(market.NewClient(), time.Duration(config.AppConfig.MarketPollSeconds)*time.Second)
	go poller.Run(pollerCtx)

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(intentService, poller)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancelPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
