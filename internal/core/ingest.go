package core

import (
	"fmt"
	"log"
	"os"

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/chunk"
)

// BatchEmbedder embeds an ordered batch of texts in one call.
type BatchEmbedder interface {
	EmbedTexts(texts []string) ([][]float32, error)
}

// Writer appends one (document, embedding) record to the collection.
type Writer interface {
	Add(document string, embedding []float32) (string, error)
}

// Ingestor reads a text corpus, chunks it into word windows, embeds all
// chunks in one batch, and writes one record per chunk. Writes are not
// transactional: a failure mid-loop leaves a partially ingested collection.
type Ingestor struct {
	embedder  BatchEmbedder
	writer    Writer
	chunkSize int
}

func NewIngestor(embedder BatchEmbedder, writer Writer) *Ingestor {
	return &Ingestor{
		embedder:  embedder,
		writer:    writer,
		chunkSize: chunk.DefaultSize,
	}
}

// IngestFile ingests the corpus at path and returns the number of chunks
// stored. Re-ingesting the same corpus appends duplicate records.
func (ing *Ingestor) IngestFile(path string) (int, error) {
	contentBytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}

	chunks := chunk.Words(string(contentBytes), ing.chunkSize)
	if len(chunks) == 0 {
		log.Printf("No chunks generated from %s; nothing to ingest.", path)
		return 0, nil
	}

	log.Printf("Generated %d chunks from %s. Embedding...", len(chunks), path)
	embeddings, err := ing.embedder.EmbedTexts(chunks)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}

	count := 0
	for i, embedding := range embeddings {
		if _, err := ing.writer.Add(chunks[i], embedding); err != nil {
			return count, fmt.Errorf("failed to store chunk %d: %w", i+1, err)
		}
		count++
		if count%10 == 0 || count == len(chunks) {
			log.Printf("Ingested %d/%d chunks...", count, len(chunks))
		}
	}
	return count, nil
}
