package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
)

// DefaultFuzzyThreshold is the minimum name similarity for a fuzzy client match.
const DefaultFuzzyThreshold = 0.88

// ResolutionOptions controls client matching.
type ResolutionOptions struct {
	FuzzyThreshold float64 // Minimum NameSimilarity for a name match (inclusive)
	StrictTies     bool    // Fail with AmbiguousMatchError instead of picking the oldest client
}

// ResolutionService decides, for each inbound item, which client, case and
// document it belongs to, creating whatever is missing. It holds no state of
// its own; every decision is committed to the store together with its event.
type ResolutionService struct {
	store  ports.EntityStore
	blobs  ports.BlobStore
	opts   ResolutionOptions
	logger *slog.Logger
}

// NewResolutionService creates a new ResolutionService.
// blobs may be nil, in which case document bytes are not kept.
func NewResolutionService(
	store ports.EntityStore,
	blobs ports.BlobStore,
	opts ResolutionOptions,
	logger *slog.Logger,
) *ResolutionService {
	if opts.FuzzyThreshold <= 0 {
		opts.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResolutionService{
		store:  store,
		blobs:  blobs,
		opts:   opts,
		logger: logger.With("component", "resolution"),
	}
}

// Process resolves one inbound item end to end: client, then case, then
// document. Exactly one event is appended per stage.
func (s *ResolutionService) Process(ctx context.Context, item entities.InboundItem) (*entities.Resolution, error) {
	email, hasEmail := entities.NormalizeEmail(item.Email)
	name := entities.NormalizeName(item.FirstName, item.LastName)
	if !hasEmail && name == "" {
		return nil, fmt.Errorf("%w: item has neither an email nor a name", ErrInvalidInput)
	}

	digest := HashContent(item.DocumentContent)
	if s.blobs != nil {
		if err := s.blobs.Put(ctx, digest, item.DocumentContent); err != nil {
			return nil, fmt.Errorf("storing document content: %w", err)
		}
	}

	var res entities.Resolution
	err := s.store.Atomically(ctx, func(tx ports.StoreTx) error {
		client, created, err := s.resolveClient(ctx, tx, email, hasEmail, name, item)
		if err != nil {
			return err
		}
		res.ClientID, res.ClientCreated = client.ID, created

		kase, created, err := s.resolveCase(ctx, tx, client, item.CaseTitle)
		if err != nil {
			return err
		}
		res.CaseID, res.CaseCreated = kase.ID, created

		doc, created, err := s.resolveDocument(ctx, tx, kase, item.DocumentName, digest, int64(len(item.DocumentContent)))
		if err != nil {
			return err
		}
		res.DocumentID, res.DocumentCreated = doc.ID, created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "item resolved",
		"client_id", res.ClientID,
		"case_id", res.CaseID,
		"document_id", res.DocumentID,
		"client_created", res.ClientCreated,
		"case_created", res.CaseCreated,
		"document_created", res.DocumentCreated,
	)
	return &res, nil
}

// resolveClient runs stage A. A provided email is authoritative: a hit is
// used, a miss creates a new client without trying the name.
func (s *ResolutionService) resolveClient(
	ctx context.Context,
	tx ports.StoreTx,
	email string,
	hasEmail bool,
	name string,
	item entities.InboundItem,
) (*entities.Client, bool, error) {
	if hasEmail {
		client, err := tx.FindClientByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("finding client by email: %w", err)
		}
		if client != nil {
			details := fmt.Sprintf("client %s matched by email %s", client.ID, email)
			if err := tx.AppendEvent(ctx, entities.ActionClientMatchEmail, client.ID, details); err != nil {
				return nil, false, fmt.Errorf("logging client match: %w", err)
			}
			return client, false, nil
		}
	} else {
		client, score, err := s.matchByName(ctx, tx, name)
		if err != nil {
			return nil, false, err
		}
		if client != nil {
			details := fmt.Sprintf("client %s matched by name %q (score %.3f)", client.ID, name, score)
			if err := tx.AppendEvent(ctx, entities.ActionClientMatchName, client.ID, details); err != nil {
				return nil, false, fmt.Errorf("logging client match: %w", err)
			}
			return client, false, nil
		}
	}

	client, err := tx.CreateClient(ctx, email, item.FirstName, item.LastName)
	if err != nil {
		return nil, false, fmt.Errorf("creating client: %w", err)
	}
	details := fmt.Sprintf("client %s created (email=%q name=%q)", client.ID, email, name)
	if err := tx.AppendEvent(ctx, entities.ActionClientCreate, client.ID, details); err != nil {
		return nil, false, fmt.Errorf("logging client creation: %w", err)
	}
	return client, true, nil
}

// matchByName scans every client for the best name similarity. Ties at the
// best score go to the earliest created client unless StrictTies is set.
func (s *ResolutionService) matchByName(ctx context.Context, tx ports.StoreTx, name string) (*entities.Client, float64, error) {
	clients, err := tx.ListClients(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("listing clients: %w", err)
	}

	best := -1.0
	var tied []*entities.Client
	for i := range clients {
		c := &clients[i]
		score := NameSimilarity(name, c.NormalizedName)
		switch {
		case score > best:
			best = score
			tied = append(tied[:0], c)
		case score == best:
			tied = append(tied, c)
		}
	}

	s.logger.DebugContext(ctx, "fuzzy client scan",
		"name", name,
		"candidates", len(clients),
		"best_score", best,
		"tied", len(tied),
	)

	if len(tied) == 0 || best < s.opts.FuzzyThreshold {
		return nil, 0, nil
	}

	if len(tied) > 1 && s.opts.StrictTies {
		ids := make([]string, len(tied))
		for i, c := range tied {
			ids[i] = c.ID
		}
		return nil, 0, &AmbiguousMatchError{Name: name, Score: best, CandidateIDs: ids}
	}

	winner := tied[0]
	for _, c := range tied[1:] {
		if c.Seq < winner.Seq {
			winner = c
		}
	}
	return winner, best, nil
}

// resolveCase runs stage B against the resolved client.
func (s *ResolutionService) resolveCase(
	ctx context.Context,
	tx ports.StoreTx,
	client *entities.Client,
	title string,
) (*entities.Case, bool, error) {
	normalized := entities.NormalizeTitle(title)

	kase, err := tx.FindCase(ctx, client.ID, normalized)
	if err != nil {
		return nil, false, fmt.Errorf("finding case: %w", err)
	}
	if kase != nil {
		details := fmt.Sprintf("case %s matched title %q for client %s", kase.ID, normalized, client.ID)
		if err := tx.AppendEvent(ctx, entities.ActionCaseMatch, kase.ID, details); err != nil {
			return nil, false, fmt.Errorf("logging case match: %w", err)
		}
		return kase, false, nil
	}

	kase, err = tx.CreateCase(ctx, client.ID, title)
	if err != nil {
		return nil, false, fmt.Errorf("creating case: %w", err)
	}
	details := fmt.Sprintf("case %s created with title %q for client %s", kase.ID, title, client.ID)
	if err := tx.AppendEvent(ctx, entities.ActionCaseCreate, kase.ID, details); err != nil {
		return nil, false, fmt.Errorf("logging case creation: %w", err)
	}
	return kase, true, nil
}

// resolveDocument runs stage C. The case is the deduplication boundary.
func (s *ResolutionService) resolveDocument(
	ctx context.Context,
	tx ports.StoreTx,
	kase *entities.Case,
	name, digest string,
	size int64,
) (*entities.Document, bool, error) {
	doc, err := tx.FindDocument(ctx, kase.ID, digest)
	if err != nil {
		return nil, false, fmt.Errorf("finding document: %w", err)
	}
	if doc != nil {
		details := fmt.Sprintf("document %s skipped: %q has hash %s already stored in case %s", doc.ID, name, digest, kase.ID)
		if err := tx.AppendEvent(ctx, entities.ActionDocSkipDuplicate, doc.ID, details); err != nil {
			return nil, false, fmt.Errorf("logging duplicate document: %w", err)
		}
		return doc, false, nil
	}

	doc, err = tx.CreateDocument(ctx, kase.ID, name, digest, size)
	if err != nil {
		return nil, false, fmt.Errorf("creating document: %w", err)
	}
	details := fmt.Sprintf("document %s created: %q (%d bytes, hash %s) in case %s", doc.ID, name, size, digest, kase.ID)
	if err := tx.AppendEvent(ctx, entities.ActionDocCreate, doc.ID, details); err != nil {
		return nil, false, fmt.Errorf("logging document creation: %w", err)
	}
	return doc, true, nil
}
