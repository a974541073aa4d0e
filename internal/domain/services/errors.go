package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is returned when an inbound item has neither an email nor a name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAmbiguousMatch is returned in strict-ties mode when several clients
	// share the best fuzzy score.
	ErrAmbiguousMatch = errors.New("ambiguous client match")
)

// AmbiguousMatchError lists the clients that tied at the best score.
type AmbiguousMatchError struct {
	Name         string
	Score        float64
	CandidateIDs []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous client match for %q: %d clients at score %.3f (%s)",
		e.Name, len(e.CandidateIDs), e.Score, strings.Join(e.CandidateIDs, ", "))
}

func (e *AmbiguousMatchError) Unwrap() error { return ErrAmbiguousMatch }
