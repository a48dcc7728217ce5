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

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/api"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/config"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/core"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/store"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/whatsapp"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flag for corpus ingestion
	ingestPath := flag.String("ingest", "", "Ingest the given text corpus into the FAQ collection and exit")
	flag.Parse()

	// Initialize the persistent FAQ collection
	faqStore, err := store.NewFAQStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize FAQ store: %v", err)
	}
	defer faqStore.Close()

	// Initialize LLM service
	llmService := core.NewLLMService()
	defer llmService.Close()

	// Handle corpus ingestion if the flag is set
	if *ingestPath != "" {
		log.Printf("Starting ingestion of %s...", *ingestPath)
		ingestor := core.NewIngestor(llmService, faqStore)
		numIngested, err := ingestor.IngestFile(*ingestPath)
		if err != nil {
			log.Fatalf("Ingestion failed after %d chunks: %v", numIngested, err)
		}
		log.Printf("Ingestion complete. Stored %d chunks. Exiting.", numIngested)
		os.Exit(0)
	}

	// Query responder and outbound sender
	responder := core.NewResponder(llmService, faqStore, llmService)
	sender := whatsapp.NewSender(config.AppConfig.WhatsAppToken, config.AppConfig.WhatsAppPhoneNumberID)

	// Webhook handler and router
	webhookHandler := api.NewWebhookHandler(responder, sender, config.AppConfig.WhatsAppVerifyToken)
	router := api.NewRouter(webhookHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting webhook server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
