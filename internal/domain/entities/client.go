// Package entities contains core domain data structures.
package entities

import "time"

// Client represents a natural or legal person submitting case material.
// A Client is immutable once created.
type Client struct {
	ID             string    `json:"id"`
	Seq            int64     `json:"seq"`             // Store-assigned creation order, used for tie-breaking
	Email          string    `json:"email,omitempty"` // Normalized; empty when none was provided
	FirstName      string    `json:"first_name"`      // As given
	LastName       string    `json:"last_name"`       // As given
	NormalizedName string    `json:"normalized_name"` // "<first> <last>" lowercased, for fuzzy matching only
	CreatedAt      time.Time `json:"created_at"`
}

// HasEmail reports whether the client was created with an email address.
func (c *Client) HasEmail() bool {
	return c.Email != ""
}
