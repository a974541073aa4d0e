package mocks

import (
	"context"

	"github.com/ersonp/intake-core/internal/domain/entities"
)

// AuditLog is a mock implementation of ports.AuditLog.
type AuditLog struct {
	Events     []entities.Event
	Err        error
	LastSeqErr error

	// Call tracking
	EventsAfterCallCount int
	LastLimit            int

	// OnPage runs after each EventsAfter call, e.g. to append events mid-read.
	OnPage func(m *AuditLog)
}

// EventsAfter returns at most limit events with Seq greater than cursor.
func (m *AuditLog) EventsAfter(_ context.Context, cursor int64, limit int) ([]entities.Event, error) {
	m.EventsAfterCallCount++
	m.LastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	var result []entities.Event
	for _, ev := range m.Events {
		if ev.Seq <= cursor {
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		result = append(result, ev)
	}
	if m.OnPage != nil {
		m.OnPage(m)
	}
	return result, nil
}

// LastSeq returns the Seq of the last event.
func (m *AuditLog) LastSeq(_ context.Context) (int64, error) {
	if m.LastSeqErr != nil {
		return 0, m.LastSeqErr
	}
	if len(m.Events) == 0 {
		return 0, nil
	}
	return m.Events[len(m.Events)-1].Seq, nil
}
