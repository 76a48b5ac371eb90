package db

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/soaringjerry/Candor/internal/form"
)

// AuditEntry is one line of the local audit trail.
type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target,omitempty"`
	Note   string    `json:"note,omitempty"`
}

// SubmissionRef ties a responded request to the exact form version it was
// answered against.
type SubmissionRef struct {
	RequestID   string
	FormID      string
	Digest      string
	Anonymous   bool
	SubmittedAt time.Time
	Form        form.Definition
}

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// Digest identifies a form version by its title and field list.
func Digest(def form.Definition) (string, []byte, error) {
	fields, err := json.Marshal(def.Fields)
	if err != nil {
		return "", nil, err
	}
	sum := sha256.New()
	sum.Write([]byte(def.ID))
	sum.Write([]byte{0})
	sum.Write([]byte(def.Title))
	sum.Write([]byte{0})
	sum.Write(fields)
	return hex.EncodeToString(sum.Sum(nil)), fields, nil
}

// SaveSnapshot stores the form version (once per digest) and records that
// requestID was answered against it.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, requestID string, def form.Definition, anonymous bool, at time.Time) error {
	digest, fields, err := Digest(def)
	if err != nil {
		return fmt.Errorf("digest form: %w", err)
	}
	if at.IsZero() {
		at = s.now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO form_snapshot (digest, form_id, title, fields_json, taken_at) VALUES (?, ?, ?, ?, ?)`,
		digest, def.ID, def.Title, string(fields), at.UTC()); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO submission_ref (request_id, form_id, digest, anonymous, submitted_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(request_id) DO UPDATE SET form_id = excluded.form_id, digest = excluded.digest,
		 anonymous = excluded.anonymous, submitted_at = excluded.submitted_at`,
		requestID, def.ID, digest, boolToInt64(anonymous), at.UTC()); err != nil {
		return fmt.Errorf("insert submission ref: %w", err)
	}
	return tx.Commit()
}

// SnapshotForRequest returns the form version a request was answered
// against. found is false when the request was never submitted through here.
func (s *SQLiteStore) SnapshotForRequest(ctx context.Context, requestID string) (ref SubmissionRef, found bool, err error) {
	var (
		anon   int64
		fields string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT r.request_id, r.form_id, r.digest, r.anonymous, r.submitted_at, f.title, f.fields_json
		FROM submission_ref r JOIN form_snapshot f ON f.digest = r.digest
		WHERE r.request_id = ?`, requestID)
	err = row.Scan(&ref.RequestID, &ref.FormID, &ref.Digest, &anon, &ref.SubmittedAt, &ref.Form.Title, &fields)
	if errors.Is(err, sql.ErrNoRows) {
		return SubmissionRef{}, false, nil
	}
	if err != nil {
		return SubmissionRef{}, false, err
	}
	ref.Anonymous = anon != 0
	ref.Form.ID = ref.FormID
	if err := json.Unmarshal([]byte(fields), &ref.Form.Fields); err != nil {
		return SubmissionRef{}, false, fmt.Errorf("decode snapshot fields: %w", err)
	}
	return ref, true, nil
}

// --- Audit log ---

func (s *SQLiteStore) AddAudit(ctx context.Context, e AuditEntry) error {
	ts := e.Time
	if ts.IsZero() {
		ts = s.now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit (ts, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		ts.UTC(), e.Actor, e.Action, toNullString(e.Target), toNullString(e.Note))
	return err
}

// ListAudit returns the newest entries first.
func (s *SQLiteStore) ListAudit(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT ts, actor, action, target, note FROM audit ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AuditEntry
	for rows.Next() {
		var (
			e            AuditEntry
			target, note sql.NullString
		)
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &target, &note); err != nil {
			return nil, err
		}
		e.Target, e.Note = target.String, note.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
