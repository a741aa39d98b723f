// Package store provides the embedded document datastore backing every entity
// controller. Documents are JSON bodies kept in a single SQLite table and
// addressed by "table:key" record ids.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/pomodoro/pkg/core"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS records (
    ns   TEXT NOT NULL,
    db   TEXT NOT NULL,
    tb   TEXT NOT NULL,
    id   TEXT NOT NULL,
    body TEXT NOT NULL CHECK (json_valid(body)),
    PRIMARY KEY (ns, db, tb, id)
);

CREATE INDEX IF NOT EXISTS idx_records_table ON records(ns, db, tb);
`

// Session scopes every query to one namespace and database inside the engine.
type Session struct {
	Namespace string
	Database  string
}

// DefaultSession is used when no session is configured.
var DefaultSession = Session{Namespace: "app", Database: "pomodoro"}

// Config holds the configuration for opening a Store.
type Config struct {
	DSN        string // file path, "file:" URI or MemoryDSN
	Session    Session
	Logger     *slog.Logger
	Registerer prometheus.Registerer // nil disables metric registration
}

// Store owns one engine handle and one session.
// It is safe for concurrent use; conflicting writes are serialized by the engine.
type Store struct {
	db      *sql.DB
	ses     Session
	dsn     string
	logger  *slog.Logger
	metrics *metrics
}

// Open opens (or creates) the datastore and ensures the schema exists.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = MemoryDSN
	}
	if cfg.Session == (Session{}) {
		cfg.Session = DefaultSession
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps in-memory databases alive across calls and lets
	// the engine serialize every query.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("store opened", "dsn", cfg.DSN, "namespace", cfg.Session.Namespace, "database", cfg.Session.Database)

	return &Store{
		db:      db,
		ses:     cfg.Session,
		dsn:     cfg.DSN,
		logger:  logger,
		metrics: newMetrics(cfg.Registerer),
	}, nil
}

// Close releases the engine handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Session returns the session every query runs against.
func (s *Store) Session() Session {
	return s.ses
}

// Create inserts a new record of the given entity and returns the stored
// document, including its assigned "id".
func (s *Store) Create(ctx context.Context, entity string, data Creatable) (obj core.Object, err error) {
	defer s.metrics.observe("create", entity, time.Now(), &err)

	doc := data.CreateDocument()
	delete(doc, "id")
	body, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}

	key := newKey()
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO records (ns, db, tb, id, body)
		VALUES (?, ?, ?, ?, json(?))
		RETURNING tb, id, body
	`, s.ses.Namespace, s.ses.Database, entity, key, body)

	obj, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &core.StoreFailToCreateError{Cause: fmt.Sprintf("can't create %s, nothing returned.", entity)}
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", entity, err)
	}

	s.logger.Debug("record created", "id", obj["id"])
	return obj, nil
}

// Get fetches a single record by its fully-qualified id.
func (s *Store) Get(ctx context.Context, id string) (obj core.Object, err error) {
	defer s.metrics.observe("get", tableOf(id), time.Now(), &err)

	ref, err := core.ParseRecordRef(id)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT tb, id, body FROM records
		WHERE ns = ? AND db = ? AND tb = ? AND id = ?
	`, s.ses.Namespace, s.ses.Database, ref.Table, ref.Key)

	obj, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return obj, nil
}

// Select returns every record of the entity in insertion order.
func (s *Store) Select(ctx context.Context, entity string) (objs []core.Object, err error) {
	defer s.metrics.observe("select", entity, time.Now(), &err)

	rows, err := s.db.QueryContext(ctx, `
		SELECT tb, id, body FROM records
		WHERE ns = ? AND db = ? AND tb = ?
		ORDER BY rowid
	`, s.ses.Namespace, s.ses.Database, entity)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", entity, err)
	}

	objs, err = scanRecords(rows)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", entity, err)
	}
	return objs, nil
}

// Merge patches the present fields of data into an existing record and returns
// the full post-merge document.
func (s *Store) Merge(ctx context.Context, id string, data Patchable) (obj core.Object, err error) {
	defer s.metrics.observe("merge", tableOf(id), time.Now(), &err)

	ref, err := core.ParseRecordRef(id)
	if err != nil {
		return nil, err
	}

	patch := data.PatchDocument()
	delete(patch, "id")
	body, err := encodeDocument(patch)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE records SET body = json_patch(body, json(?))
		WHERE ns = ? AND db = ? AND tb = ? AND id = ?
		RETURNING tb, id, body
	`, body, s.ses.Namespace, s.ses.Database, ref.Table, ref.Key)

	obj, err = scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("merge %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", id, err)
	}
	return obj, nil
}

// Delete removes a record and returns the reference that was deleted.
func (s *Store) Delete(ctx context.Context, id string) (ref core.RecordRef, err error) {
	defer s.metrics.observe("delete", tableOf(id), time.Now(), &err)

	ref, err = core.ParseRecordRef(id)
	if err != nil {
		return core.RecordRef{}, err
	}

	var deleted core.RecordRef
	err = s.db.QueryRowContext(ctx, `
		DELETE FROM records
		WHERE ns = ? AND db = ? AND tb = ? AND id = ?
		RETURNING tb, id
	`, s.ses.Namespace, s.ses.Database, ref.Table, ref.Key).Scan(&deleted.Table, &deleted.Key)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecordRef{}, fmt.Errorf("delete %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.RecordRef{}, fmt.Errorf("delete %s: %w", id, err)
	}

	s.logger.Debug("record deleted", "id", deleted.String())
	return deleted, nil
}

// tableOf is the metrics label for id; malformed ids have none.
func tableOf(id string) string {
	table, _, ok := strings.Cut(id, ":")
	if !ok {
		return ""
	}
	return table
}

// newKey returns a fresh local record key.
func newKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func scanRecord(row *sql.Row) (core.Object, error) {
	var tb, id, body string
	if err := row.Scan(&tb, &id, &body); err != nil {
		return nil, err
	}
	return toDocument(tb, id, body)
}

func scanRecords(rows *sql.Rows) ([]core.Object, error) {
	defer rows.Close()

	objs := make([]core.Object, 0)
	for rows.Next() {
		var tb, id, body string
		if err := rows.Scan(&tb, &id, &body); err != nil {
			return nil, err
		}
		obj, err := toDocument(tb, id, body)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, rows.Err()
}

func toDocument(tb, id, body string) (core.Object, error) {
	obj, err := decodeDocument(body)
	if err != nil {
		return nil, err
	}
	obj["id"] = core.RecordRef{Table: tb, Key: id}
	return obj, nil
}
