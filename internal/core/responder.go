package core

import (
	"fmt"
	"log"
	"strings"

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/store"
)

const NumRetrievedChunks = 5 // Number of nearest chunks used as grounding context

const answerPromptTemplate = `You are a friendly and helpful assistant for a small business.

A customer asked: "%s"

Based on the following information, answer clearly and helpfully:
---
%s
---`

// Embedder produces an embedding vector for a single text.
type Embedder interface {
	EmbedText(text string) ([]float32, error)
}

// Searcher returns the k stored records nearest to an embedding.
type Searcher interface {
	Search(embedding []float32, k int) ([]store.Record, error)
}

// Completer answers a single-turn prompt.
type Completer interface {
	Complete(prompt string) (string, error)
}

// Responder answers free-text questions grounded in the FAQ collection:
// embed the question, retrieve the nearest chunks, and ask the model to
// compose an answer from them. Every call re-embeds and re-queries; answers
// are not cached or persisted.
type Responder struct {
	embedder  Embedder
	searcher  Searcher
	completer Completer
}

func NewResponder(embedder Embedder, searcher Searcher, completer Completer) *Responder {
	return &Responder{
		embedder:  embedder,
		searcher:  searcher,
		completer: completer,
	}
}

func (r *Responder) Respond(question string) (string, error) {
	queryEmbedding, err := r.embedder.EmbedText(question)
	if err != nil {
		return "", fmt.Errorf("failed to embed question: %w", err)
	}

	records, err := r.searcher.Search(queryEmbedding, NumRetrievedChunks)
	if err != nil {
		return "", fmt.Errorf("failed to search FAQ collection: %w", err)
	}
	if len(records) == 0 {
		log.Printf("No stored chunks found for question: %.80s", question)
	}

	// Grounding context: retrieved chunks in store order, blank-line separated.
	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = rec.Document
	}
	contextBlock := strings.Join(docs, "\n\n")

	prompt := fmt.Sprintf(answerPromptTemplate, question, contextBlock)

	answer, err := r.completer.Complete(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to get completion: %w", err)
	}
	return answer, nil
}
