// Package sqlite provides a SQLite implementation of the entity store and audit log.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/ersonp/intake-core/internal/domain/entities"
	"github.com/ersonp/intake-core/internal/domain/ports"
	"github.com/ersonp/intake-core/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.EntityStore and ports.AuditLog using SQLite.
type Repository struct {
	db   *sql.DB
	path string

	// writeMu serializes Atomically within the process. Other handles and
	// processes on the same file are serialized by the IMMEDIATE write lock.
	writeMu sync.Mutex
}

// NewRepository opens the SQLite database at cfg.Path.
// Call EnsureSchema before use.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", dsn(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// A single connection makes ":memory:" databases shared and keeps one writer.
	db.SetMaxOpenConns(1)

	pragmas := []struct {
		stmt string
		what string
	}{
		{"PRAGMA foreign_keys = ON", "enabling foreign keys"},
		{"PRAGMA journal_mode = WAL", "enabling WAL mode"},
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p.stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	return newRepository(db, cfg.Path), nil
}

// busyTimeout bounds how long a transaction waits for another handle's write lock.
const busyTimeout = 5 * time.Second

// dsn adds the per-connection driver options. Transactions begin IMMEDIATE:
// the write lock is taken at BEGIN, where busy_timeout applies, rather than on
// the first write, where SQLite fails with SQLITE_BUSY without waiting.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_txlock=immediate&_pragma=busy_timeout(%d)", path, sep, busyTimeout.Milliseconds())
}

func newRepository(db *sql.DB, path string) *Repository {
	return &Repository{
		db:   db,
		path: path,
	}
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// Atomically runs fn inside a database transaction. The transaction commits
// when fn returns nil and rolls back otherwise.
func (r *Repository) Atomically(ctx context.Context, fn func(tx ports.StoreTx) error) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&sqlTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const (
	clientColumns   = `seq, id, email, first_name, last_name, normalized_name, created_at`
	caseColumns     = `seq, id, client_id, title, normalized_title, created_at`
	documentColumns = `seq, id, case_id, name, content_hash, size, created_at`
	eventColumns    = `seq, action, entity_id, details, created_at`
)

// builder renders read queries with '?' placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (*entities.Client, error) {
	var c entities.Client
	var email sql.NullString
	if err := row.Scan(
		&c.Seq,
		&c.ID,
		&email,
		&c.FirstName,
		&c.LastName,
		&c.NormalizedName,
		&c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Email = email.String
	return &c, nil
}

func scanCase(row rowScanner) (*entities.Case, error) {
	var k entities.Case
	if err := row.Scan(
		&k.Seq,
		&k.ID,
		&k.ClientID,
		&k.Title,
		&k.NormalizedTitle,
		&k.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &k, nil
}

func scanDocument(row rowScanner) (*entities.Document, error) {
	var d entities.Document
	if err := row.Scan(
		&d.Seq,
		&d.ID,
		&d.CaseID,
		&d.Name,
		&d.ContentHash,
		&d.Size,
		&d.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func scanEvent(row rowScanner) (*entities.Event, error) {
	var ev entities.Event
	var action string
	var entityID, details sql.NullString
	var nanos int64
	if err := row.Scan(&ev.Seq, &action, &entityID, &details, &nanos); err != nil {
		return nil, err
	}
	ev.Action = entities.Action(action)
	ev.EntityID = entityID.String
	ev.Details = details.String
	ev.Timestamp = time.Unix(0, nanos).UTC()
	return &ev, nil
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findOne[T any](ctx context.Context, q queryer, scan func(rowScanner) (*T, error), what, query string, args ...any) (*T, error) {
	v, err := scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", what, err)
	}
	return v, nil
}

func queryAll[T any](ctx context.Context, q queryer, scan func(rowScanner) (*T, error), what, query string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", what, err)
	}
	defer rows.Close()

	result := make([]T, 0, 16)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", what, err)
		}
		result = append(result, *v)
	}
	return result, rows.Err()
}

// GetClient finds a client by ID.
func (r *Repository) GetClient(ctx context.Context, id string) (*entities.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = ?`
	return findOne(ctx, r.db, scanClient, "client", query, id)
}

// ListClients lists all clients in creation order.
func (r *Repository) ListClients(ctx context.Context) ([]entities.Client, error) {
	return listClients(ctx, r.db)
}

func listClients(ctx context.Context, q queryer) ([]entities.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY seq ASC`
	return queryAll(ctx, q, scanClient, "clients", query)
}

// ListCases lists the cases of a client in creation order.
func (r *Repository) ListCases(ctx context.Context, clientID string) ([]entities.Case, error) {
	query, args, err := builder.Select(caseColumns).
		From("cases").
		Where(sq.Eq{"client_id": clientID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building cases query: %w", err)
	}
	return queryAll(ctx, r.db, scanCase, "cases", query, args...)
}

// ListDocuments lists the documents of a case in creation order.
func (r *Repository) ListDocuments(ctx context.Context, caseID string) ([]entities.Document, error) {
	query, args, err := builder.Select(documentColumns).
		From("documents").
		Where(sq.Eq{"case_id": caseID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building documents query: %w", err)
	}
	return queryAll(ctx, r.db, scanDocument, "documents", query, args...)
}

// Stats returns record counts.
func (r *Repository) Stats(ctx context.Context) (ports.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM clients),
			(SELECT COUNT(*) FROM cases),
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM audit_log)
	`
	var s ports.Stats
	if err := r.db.QueryRowContext(ctx, query).Scan(&s.Clients, &s.Cases, &s.Documents, &s.Events); err != nil {
		return ports.Stats{}, fmt.Errorf("counting records: %w", err)
	}
	return s, nil
}

// EventsAfter returns at most limit events with Seq greater than cursor.
// A limit <= 0 returns all remaining events.
func (r *Repository) EventsAfter(ctx context.Context, cursor int64, limit int) ([]entities.Event, error) {
	q := builder.Select(eventColumns).
		From("audit_log").
		Where(sq.Gt{"seq": cursor}).
		OrderBy("seq ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building audit query: %w", err)
	}
	return queryAll(ctx, r.db, scanEvent, "audit log", query, args...)
}

// LastSeq returns the Seq of the newest event.
func (r *Repository) LastSeq(ctx context.Context) (int64, error) {
	var last int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM audit_log`).Scan(&last); err != nil {
		return 0, fmt.Errorf("reading last audit seq: %w", err)
	}
	return last, nil
}

// sqlTx implements ports.StoreTx over a database transaction.
type sqlTx struct {
	tx *sql.Tx

	lastEventNanos int64
	clockLoaded    bool
}

func (t *sqlTx) FindClientByEmail(ctx context.Context, email string) (*entities.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = ?`
	return findOne(ctx, t.tx, scanClient, "client", query, email)
}

func (t *sqlTx) ListClients(ctx context.Context) ([]entities.Client, error) {
	return listClients(ctx, t.tx)
}

func (t *sqlTx) CreateClient(ctx context.Context, email, firstName, lastName string) (*entities.Client, error) {
	c := &entities.Client{
		ID:             generateUUID(),
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		NormalizedName: entities.NormalizeName(firstName, lastName),
		CreatedAt:      timeNow(),
	}

	var emailArg sql.NullString
	if email != "" {
		emailArg = sql.NullString{String: email, Valid: true}
	}

	query := `
		INSERT INTO clients (id, email, first_name, last_name, normalized_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING seq
	`
	err := t.tx.QueryRowContext(ctx, query,
		c.ID,
		emailArg,
		c.FirstName,
		c.LastName,
		c.NormalizedName,
		c.CreatedAt,
	).Scan(&c.Seq)
	if err != nil {
		return nil, fmt.Errorf("inserting client: %w", err)
	}
	return c, nil
}

func (t *sqlTx) FindCase(ctx context.Context, clientID, normalizedTitle string) (*entities.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE client_id = ? AND normalized_title = ?`
	return findOne(ctx, t.tx, scanCase, "case", query, clientID, normalizedTitle)
}

func (t *sqlTx) CreateCase(ctx context.Context, clientID, title string) (*entities.Case, error) {
	k := &entities.Case{
		ID:              generateUUID(),
		ClientID:        clientID,
		Title:           title,
		NormalizedTitle: entities.NormalizeTitle(title),
		CreatedAt:       timeNow(),
	}

	query := `
		INSERT INTO cases (id, client_id, title, normalized_title, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING seq
	`
	err := t.tx.QueryRowContext(ctx, query,
		k.ID,
		k.ClientID,
		k.Title,
		k.NormalizedTitle,
		k.CreatedAt,
	).Scan(&k.Seq)
	if err != nil {
		return nil, fmt.Errorf("inserting case: %w", err)
	}
	return k, nil
}

func (t *sqlTx) FindDocument(ctx context.Context, caseID, contentHash string) (*entities.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE case_id = ? AND content_hash = ?`
	return findOne(ctx, t.tx, scanDocument, "document", query, caseID, contentHash)
}

func (t *sqlTx) CreateDocument(ctx context.Context, caseID, name, contentHash string, size int64) (*entities.Document, error) {
	d := &entities.Document{
		ID:          generateUUID(),
		CaseID:      caseID,
		Name:        name,
		ContentHash: contentHash,
		Size:        size,
		CreatedAt:   timeNow(),
	}

	query := `
		INSERT INTO documents (id, case_id, name, content_hash, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING seq
	`
	err := t.tx.QueryRowContext(ctx, query,
		d.ID,
		d.CaseID,
		d.Name,
		d.ContentHash,
		d.Size,
		d.CreatedAt,
	).Scan(&d.Seq)
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}
	return d, nil
}

// AppendEvent inserts an audit row. Timestamps are clamped so they never
// precede the newest event already in the log.
func (t *sqlTx) AppendEvent(ctx context.Context, action entities.Action, entityID, details string) error {
	if !t.clockLoaded {
		err := t.tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(created_at), 0) FROM audit_log`).Scan(&t.lastEventNanos)
		if err != nil {
			return fmt.Errorf("reading audit clock: %w", err)
		}
		t.clockLoaded = true
	}

	nanos := max(timeNow().UnixNano(), t.lastEventNanos)

	var entityArg, detailsArg sql.NullString
	if entityID != "" {
		entityArg = sql.NullString{String: entityID, Valid: true}
	}
	if details != "" {
		detailsArg = sql.NullString{String: details, Valid: true}
	}

	query := `INSERT INTO audit_log (action, entity_id, details, created_at) VALUES (?, ?, ?, ?)`
	if _, err := t.tx.ExecContext(ctx, query, string(action), entityArg, detailsArg, nanos); err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	t.lastEventNanos = nanos
	return nil
}
