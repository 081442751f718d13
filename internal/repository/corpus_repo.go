package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/proctorly/integrity-api/internal/analysis"
	"github.com/proctorly/integrity-api/internal/models"
)

// GormCorpusStore is the durable analysis.CorpusStore: one row per analyzed
// answer, keyed by question. Appends rely on the database for atomicity, so
// concurrent submissions for the same question cannot lose entries.
type GormCorpusStore struct {
	db *gorm.DB
}

// NewGormCorpusStore instantiates the store.
func NewGormCorpusStore(db *gorm.DB) *GormCorpusStore {
	return &GormCorpusStore{db: db}
}

// Lookup returns all recorded entries for a question, oldest first.
func (s *GormCorpusStore) Lookup(ctx context.Context, questionID string) ([]analysis.CorpusEntry, error) {
	var rows []models.CorpusEntry
	if err := s.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("inserted_at ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]analysis.CorpusEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, analysis.CorpusEntry{
			ApplicationID:     row.ApplicationID,
			ContentHash:       row.ContentHash,
			NormalizedContent: row.NormalizedContent,
			InsertedAt:        row.InsertedAt,
		})
	}

	return entries, nil
}

// Append records one entry under the question.
func (s *GormCorpusStore) Append(ctx context.Context, questionID string, entry analysis.CorpusEntry) error {
	insertedAt := entry.InsertedAt
	if insertedAt.IsZero() {
		insertedAt = time.Now().UTC()
	}

	row := models.CorpusEntry{
		QuestionID:        questionID,
		ApplicationID:     entry.ApplicationID,
		ContentHash:       entry.ContentHash,
		NormalizedContent: entry.NormalizedContent,
		InsertedAt:        insertedAt,
	}

	return s.db.WithContext(ctx).Create(&row).Error
}
