package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

// DefaultAuditPageSize is the number of events fetched per round trip.
const DefaultAuditPageSize = 100

// AuditService exposes the audit log to downstream consumers.
type AuditService struct {
	log      ports.AuditLog
	pageSize int
}

// NewAuditService creates a new AuditService.
func NewAuditService(log ports.AuditLog, pageSize int) *AuditService {
	if pageSize <= 0 {
		pageSize = DefaultAuditPageSize
	}
	return &AuditService{
		log:      log,
		pageSize: pageSize,
	}
}

// EventsSince lazily yields events with Seq greater than cursor.
// The sequence stops at the newest event present when iteration starts, so
// it is finite; callers poll again with the last Seq they saw to continue.
func (s *AuditService) EventsSince(ctx context.Context, cursor int64) iter.Seq2[entities.Event, error] {
	return func(yield func(entities.Event, error) bool) {
		head, err := s.log.LastSeq(ctx)
		if err != nil {
			yield(entities.Event{}, fmt.Errorf("reading audit head: %w", err))
			return
		}

		for cursor < head {
			page, err := s.log.EventsAfter(ctx, cursor, s.pageSize)
			if err != nil {
				yield(entities.Event{}, fmt.Errorf("reading audit events after %d: %w", cursor, err))
				return
			}
			if len(page) == 0 {
				return
			}
			for _, ev := range page {
				if ev.Seq > head {
					return
				}
				if !yield(ev, nil) {
					return
				}
				cursor = ev.Seq
			}
		}
	}
}

// List returns up to limit events after cursor. A limit <= 0 means no limit.
func (s *AuditService) List(ctx context.Context, cursor int64, limit int) ([]entities.Event, error) {
	events := make([]entities.Event, 0, min(max(limit, 0), s.pageSize))
	for ev, err := range s.EventsSince(ctx, cursor) {
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
		if limit > 0 && len(events) >= limit {
			break
		}
	}
	return events, nil
}

// AuditSummary is the result of replaying the whole log.
type AuditSummary struct {
	Events     int                     `json:"events"`
	LastSeq    int64                   `json:"last_seq"`
	Counts     map[entities.Action]int `json:"counts"`
	Violations []string                `json:"violations,omitempty"`
}

// Verify replays the log from the start, counting actions and checking that
// sequence numbers are dense and timestamps never go backwards.
func (s *AuditService) Verify(ctx context.Context) (*AuditSummary, error) {
	summary := &AuditSummary{
		Counts: make(map[entities.Action]int, len(entities.Actions)),
	}

	var prev *entities.Event
	for ev, err := range s.EventsSince(ctx, 0) {
		if err != nil {
			return nil, err
		}
		if prev == nil && ev.Seq != 1 {
			summary.Violations = append(summary.Violations,
				fmt.Sprintf("log starts at seq %d", ev.Seq))
		}
		if prev != nil {
			if ev.Seq != prev.Seq+1 {
				summary.Violations = append(summary.Violations,
					fmt.Sprintf("gap between seq %d and %d", prev.Seq, ev.Seq))
			}
			if ev.Timestamp.Before(prev.Timestamp) {
				summary.Violations = append(summary.Violations,
					fmt.Sprintf("timestamp of seq %d precedes seq %d", ev.Seq, prev.Seq))
			}
		}
		summary.Events++
		summary.LastSeq = ev.Seq
		summary.Counts[ev.Action]++
		e := ev
		prev = &e
	}

	return summary, nil
}
