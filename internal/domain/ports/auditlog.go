package ports

import (
	"context"

	"github.com/ersonp/intake-core/internal/domain/entities"
)

// AuditLog is the read side of the append-only event log.
// Appends only happen through StoreTx so they commit with the records they describe.
type AuditLog interface {
	// EventsAfter returns at most limit events with Seq greater than cursor, ascending.
	EventsAfter(ctx context.Context, cursor int64, limit int) ([]entities.Event, error)

	// LastSeq returns the Seq of the newest event, or 0 when the log is empty.
	LastSeq(ctx context.Context) (int64, error)
}
