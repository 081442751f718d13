package analysis

import (
	"context"
	"sync"
	"time"
)

// CorpusEntry is one normalized-content fingerprint recorded for a question.
type CorpusEntry struct {
	ApplicationID     string    `json:"application_id"`
	ContentHash       string    `json:"content_hash"`
	NormalizedContent string    `json:"normalized_content"`
	InsertedAt        time.Time `json:"inserted_at"`
}

// CorpusStore is the narrow interface the similarity engine needs from the
// shared submission corpus. Lookup returns the entries for a question as of
// some consistent point; Append records one more entry and must not lose
// writes under concurrent use.
type CorpusStore interface {
	Lookup(ctx context.Context, questionID string) ([]CorpusEntry, error)
	Append(ctx context.Context, questionID string, entry CorpusEntry) error
}

// MemoryCorpus is the in-process CorpusStore: a question-keyed append-only
// map guarded by a single RWMutex. Readers do not block each other; appends
// for the same question serialize.
type MemoryCorpus struct {
	mu      sync.RWMutex
	entries map[string][]CorpusEntry
}

// NewMemoryCorpus constructs an empty in-memory corpus.
func NewMemoryCorpus() *MemoryCorpus {
	return &MemoryCorpus{entries: make(map[string][]CorpusEntry)}
}

// Lookup returns a copy of the entries recorded for the question.
func (c *MemoryCorpus) Lookup(_ context.Context, questionID string) ([]CorpusEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]CorpusEntry(nil), c.entries[questionID]...), nil
}

// Append records one entry under the question's bucket.
func (c *MemoryCorpus) Append(_ context.Context, questionID string, entry CorpusEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry.InsertedAt.IsZero() {
		entry.InsertedAt = time.Now().UTC()
	}
	c.entries[questionID] = append(c.entries[questionID], entry)
	return nil
}
