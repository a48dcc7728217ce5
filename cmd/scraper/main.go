package main

import (
	"flag"
	"log"
	"strings"

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/config"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/core"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/scrape"
	"github.com/rossdeane/aisidekick-chunky-monkey/internal/store"
)

// urlList collects repeated or comma-separated --urls values.
type urlList []string

func (u *urlList) String() string {
	return strings.Join(*u, ",")
}

func (u *urlList) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*u = append(*u, v)
		}
	}
	return nil
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var urls urlList
	flag.Var(&urls, "urls", "URL to scrape (repeatable, or comma-separated)")
	targetID := flag.String("id", "", "Optional DOM element ID to target")
	output := flag.String("output", "scraped_content.txt", "Output file name")
	ingest := flag.Bool("ingest", false, "Ingest the scraped content into the FAQ collection after scraping")
	flag.Parse()

	if len(urls) == 0 {
		log.Fatal("at least one --urls value is required")
	}

	scraper := scrape.NewScraper()
	if err := scraper.ScrapeToFile(urls, *targetID, *output); err != nil {
		log.Fatalf("Scraping failed: %v", err)
	}

	if !*ingest {
		return
	}

	config.LoadConfig()

	faqStore, err := store.NewFAQStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize FAQ store: %v", err)
	}
	defer faqStore.Close()

	llmService := core.NewLLMService()
	defer llmService.Close()

	ingestor := core.NewIngestor(llmService, faqStore)
	numIngested, err := ingestor.IngestFile(*output)
	if err != nil {
		log.Fatalf("Ingestion failed after %d chunks: %v", numIngested, err)
	}
	log.Printf("Successfully ingested %d chunks into the FAQ collection", numIngested)
}
