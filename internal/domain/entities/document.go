package entities

import "time"

// Document represents an attached file tied to exactly one Case.
// Identity within a case is the content hash; the name is display only.
type Document struct {
	ID          string    `json:"id"`
	Seq         int64     `json:"seq"`
	CaseID      string    `json:"case_id"`
	Name        string    `json:"name"`
	ContentHash string    `json:"content_hash"` // Lower-case hex SHA-256 of the raw bytes
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
