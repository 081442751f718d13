package models

import "time"

// CorpusEntry is a durable fingerprint of one analyzed answer, used for
// cross-candidate similarity comparison. The corpus grows monotonically and is
// never pruned by the engine.
type CorpusEntry struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	QuestionID        string    `gorm:"size:64;index;not null" json:"question_id"`
	ApplicationID     string    `gorm:"size:64;not null" json:"application_id"`
	ContentHash       string    `gorm:"size:64;index;not null" json:"content_hash"`
	NormalizedContent string    `gorm:"type:text" json:"normalized_content"`
	InsertedAt        time.Time `json:"inserted_at"`
}
