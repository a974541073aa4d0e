package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ersonp/intake-core/internal/domain/entities"
)

// Log implements ports.AuditLog in memory. Events are only appended by the
// owning Store when a transaction commits.
type Log struct {
	mu     sync.RWMutex
	events []entities.Event
}

func newLog() *Log {
	return &Log{}
}

// append assigns sequence numbers and non-decreasing timestamps.
func (l *Log) append(pending []pendingEvent, now time.Time) {
	if len(pending) == 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if n := len(l.events); n > 0 && now.Before(l.events[n-1].Timestamp) {
		now = l.events[n-1].Timestamp
	}
	for _, p := range pending {
		l.events = append(l.events, entities.Event{
			Seq:       int64(len(l.events) + 1),
			Timestamp: now,
			Action:    p.action,
			EntityID:  p.entityID,
			Details:   p.details,
		})
	}
}

// EventsAfter returns at most limit events with Seq greater than cursor.
func (l *Log) EventsAfter(_ context.Context, cursor int64, limit int) ([]entities.Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := sort.Search(len(l.events), func(i int) bool {
		return l.events[i].Seq > cursor
	})
	end := len(l.events)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return append([]entities.Event(nil), l.events[start:end]...), nil
}

// LastSeq returns the Seq of the newest event.
func (l *Log) LastSeq(_ context.Context) (int64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.events) == 0 {
		return 0, nil
	}
	return l.events[len(l.events)-1].Seq, nil
}
