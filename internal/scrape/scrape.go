package scrape

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	fetchTimeout = 10 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Scraper fetches web pages and extracts their text content for ingestion.
type Scraper struct {
	client *http.Client
	delay  time.Duration // base politeness delay before each fetch
}

func NewScraper() *Scraper {
	return &Scraper{
		client: &http.Client{Timeout: fetchTimeout},
		delay:  time.Second,
	}
}

// ScrapeURL fetches one URL and returns its extracted text. When targetID is
// set and an element with that id exists, only that element's text is
// returned; otherwise the whole page is extracted with non-content elements
// (scripts, styles, navigation, headers, footers, asides) removed.
//
// Fails soft: any fetch or parse error comes back as an error string in the
// content, so one bad URL never aborts a batch.
func (s *Scraper) ScrapeURL(url, targetID string) string {
	// Randomized delay to be polite to servers.
	if s.delay > 0 {
		time.Sleep(s.delay + time.Duration(rand.Int63n(int64(time.Second))))
	}

	content, err := s.fetch(url, targetID)
	if err != nil {
		log.Printf("Error scraping %s: %v", url, err)
		return fmt.Sprintf("Error scraping %s: %v", url, err)
	}
	return content
}

func (s *Scraper) fetch(url, targetID string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	if targetID != "" {
		if node := findByID(doc, targetID); node != nil {
			return elementText(node), nil
		}
		log.Printf("Warning: element with ID %q not found on %s, falling back to main content", targetID, url)
	}
	return mainContent(doc), nil
}

// ScrapeToFile scrapes all URLs in order and writes the combined text to
// outputPath, each page prefixed with a SOURCE header and separated by a
// delimiter line. The output file is overwritten.
func (s *Scraper) ScrapeToFile(urls []string, targetID, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", outputPath, err)
	}
	defer f.Close()

	for i, url := range urls {
		log.Printf("Scraping %d/%d: %s", i+1, len(urls), url)

		if i > 0 {
			if _, err := f.WriteString("\n\n" + strings.Repeat("=", 80) + "\n\n"); err != nil {
				return fmt.Errorf("failed to write separator: %w", err)
			}
		}
		if _, err := f.WriteString(fmt.Sprintf("SOURCE: %s\n\n", url)); err != nil {
			return fmt.Errorf("failed to write source header: %w", err)
		}
		if _, err := f.WriteString(s.ScrapeURL(url, targetID)); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
	}

	log.Printf("Scraping complete. Content saved to %s", outputPath)
	return nil
}
