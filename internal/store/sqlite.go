package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/rossdeane/aisidekick-chunky-monkey/internal/vector"
)

// FAQStore is the persistent vector collection backing the bot. Embeddings
// are stored as JSON text alongside the chunk they describe; similarity
// search loads the whole collection and ranks it by cosine similarity.
type FAQStore struct {
	db *sql.DB
}

func NewFAQStore(dataSourceName string) (*FAQStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &FAQStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *FAQStore) Close() error {
	return s.db.Close()
}

func (s *FAQStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS business_faq (
        id TEXT PRIMARY KEY, -- UUID, generated fresh per write
        document TEXT NOT NULL,
        embedding_json TEXT NOT NULL -- JSON-encoded []float32
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

// Add persists one (document, embedding) pair under a fresh unique id and
// returns that id. Re-adding the same document creates a duplicate record;
// the collection is append-only.
func (s *FAQStore) Add(document string, embedding []float32) (string, error) {
	embeddingBytes, err := json.Marshal(embedding)
	if err != nil {
		return "", fmt.Errorf("failed to marshal embedding: %w", err)
	}

	id := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO business_faq (id, document, embedding_json) VALUES (?, ?, ?)")
	if err != nil {
		return "", fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(id, document, string(embeddingBytes)); err != nil {
		return "", fmt.Errorf("failed to execute record insert: %w", err)
	}
	return id, nil
}

// Count returns the number of stored records.
func (s *FAQStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM business_faq").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// GetAllRecords loads the full collection. Records whose embedding cannot be
// decoded are kept with a nil embedding and skipped at search time.
func (s *FAQStore) GetAllRecords() ([]Record, error) {
	rows, err := s.db.Query("SELECT id, document, embedding_json FROM business_faq")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var embeddingJSON string
		if err := rows.Scan(&rec.ID, &rec.Document, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		if err := json.Unmarshal([]byte(embeddingJSON), &rec.Embedding); err != nil {
			log.Printf("Warning: failed to unmarshal embedding for record %s (document: %.50s...): %v. Record will be unsearchable.", rec.ID, rec.Document, err)
			rec.Embedding = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scoredRecord struct {
	record     Record
	similarity float32
}

// Search returns the k stored records nearest to the given embedding by
// cosine similarity, most similar first. Fewer than k records may come back
// when the collection is small.
func (s *FAQStore) Search(embedding []float32, k int) ([]Record, error) {
	if k <= 0 {
		k = 5
	}

	records, err := s.GetAllRecords()
	if err != nil {
		return nil, err
	}

	scored := make([]scoredRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Embedding) == 0 {
			log.Printf("Skipping record %s due to missing embedding.", rec.ID)
			continue
		}
		similarity, err := vector.Cosine(embedding, rec.Embedding)
		if err != nil {
			log.Printf("Error calculating similarity for record %s: %v. Skipping.", rec.ID, err)
			continue
		}
		scored = append(scored, scoredRecord{record: rec, similarity: similarity})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	results := make([]Record, len(scored))
	for i, sr := range scored {
		results[i] = sr.record
	}
	return results, nil
}
