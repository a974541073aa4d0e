package entities

import "time"

// Case represents a matter or dossier owned by exactly one Client.
// The normalized title is unique per client, not globally.
type Case struct {
	ID              string    `json:"id"`
	Seq             int64     `json:"seq"`
	ClientID        string    `json:"client_id"`
	Title           string    `json:"title"`            // As given
	NormalizedTitle string    `json:"normalized_title"` // Matching key within the client
	CreatedAt       time.Time `json:"created_at"`
}
