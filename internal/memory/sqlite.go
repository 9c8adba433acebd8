// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/style-engine/pkg/types"
)

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps profiles and artifacts in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// fts is false when the driver was built without FTS5 (build tag
	// sqlite_fts5); search then falls back to LIKE matching.
	fts bool
}

// NewSQLiteStore opens or creates the database at path and its schema.
// Writers take an immediate transaction so a profile replacement and an
// artifact insert never interleave.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS style_profiles (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			scope TEXT NOT NULL,
			tone TEXT NOT NULL,
			voice TEXT NOT NULL,
			structure TEXT NOT NULL,
			source_excerpt TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_style_profiles_scope ON style_profiles(scope)`,
		`CREATE TABLE IF NOT EXISTS active_profiles (
			scope TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL REFERENCES style_profiles(id),
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS artifacts (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			scope TEXT NOT NULL,
			topic TEXT NOT NULL,
			content TEXT NOT NULL,
			profile_id TEXT NOT NULL REFERENCES style_profiles(id),
			profile_created_at TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_artifacts_scope_created ON artifacts(scope, created_at)`,
		`CREATE TRIGGER IF NOT EXISTS artifacts_no_update BEFORE UPDATE ON artifacts BEGIN
			SELECT RAISE(ABORT, 'artifacts are append-only');
		END`,
		`CREATE TRIGGER IF NOT EXISTS artifacts_no_delete BEFORE DELETE ON artifacts BEGIN
			SELECT RAISE(ABORT, 'artifacts are append-only');
		END`,
		`CREATE TRIGGER IF NOT EXISTS style_profiles_no_update BEFORE UPDATE ON style_profiles BEGIN
			SELECT RAISE(ABORT, 'style profiles are immutable');
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 index over artifact content, kept in sync by an insert trigger.
	// Artifacts are append-only, so no update or delete triggers are needed.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='artifacts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE artifacts_fts USING fts5(topic, content, content=artifacts, content_rowid=seq)`,
			`CREATE TRIGGER artifacts_ai AFTER INSERT ON artifacts BEGIN
				INSERT INTO artifacts_fts(rowid, topic, content) VALUES (new.seq, new.topic, new.content);
			END`,
		}
		if _, err := s.db.Exec(ftsStatements[0]); err != nil {
			if strings.Contains(err.Error(), "no such module") {
				return nil
			}
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
		if _, err := s.db.Exec(ftsStatements[1]); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}

	s.fts = true
	return nil
}

// WriteStyleProfile appends profile and moves the scope's active pointer
// to it in one transaction. Rewriting an existing profile ID in the same
// scope only moves the pointer.
func (s *SQLiteStore) WriteStyleProfile(ctx context.Context, scope types.Scope, p types.StyleProfile) error {
	if err := checkProfile(scope, p); err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var owner string
	err = tx.QueryRowContext(ctx, `SELECT scope FROM style_profiles WHERE id = ?`, p.ID).Scan(&owner)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO style_profiles (id, scope, tone, voice, structure, source_excerpt, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, string(scope), p.Tone, p.Voice, p.Structure, p.SourceExcerpt, formatTime(p.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("inserting style profile: %w", err)
		}
	case err != nil:
		return fmt.Errorf("looking up style profile: %w", err)
	case owner != string(scope):
		return fmt.Errorf("style profile %s belongs to another scope", p.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO active_profiles (scope, profile_id, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(scope) DO UPDATE SET profile_id=excluded.profile_id, updated_at=excluded.updated_at`,
		string(scope), p.ID, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return fmt.Errorf("updating active profile: %w", err)
	}

	return tx.Commit()
}

// ReadActiveStyleProfile returns the scope's active profile.
func (s *SQLiteStore) ReadActiveStyleProfile(ctx context.Context, scope types.Scope) (types.StyleProfile, bool, error) {
	if err := scope.Validate(); err != nil {
		return types.StyleProfile{}, false, err
	}

	var (
		p       types.StyleProfile
		created string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT p.id, p.scope, p.tone, p.voice, p.structure, p.source_excerpt, p.created_at
		 FROM active_profiles a
		 JOIN style_profiles p ON p.id = a.profile_id
		 WHERE a.scope = ?`, string(scope),
	).Scan(&p.ID, &p.Scope, &p.Tone, &p.Voice, &p.Structure, &p.SourceExcerpt, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return types.StyleProfile{}, false, nil
	}
	if err != nil {
		return types.StyleProfile{}, false, fmt.Errorf("reading active profile: %w", err)
	}

	if p.CreatedAt, err = parseTime(created); err != nil {
		return types.StyleProfile{}, false, fmt.Errorf("parsing profile timestamp: %w", err)
	}
	return p, true, nil
}

// WriteArtifact appends artifact after checking, inside the same
// transaction, that the scope has an active profile and that the
// referenced profile is stored in the scope.
func (s *SQLiteStore) WriteArtifact(ctx context.Context, scope types.Scope, a types.GeneratedArtifact) error {
	if err := checkArtifact(scope, a); err != nil {
		return err
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var activeID string
	err = tx.QueryRowContext(ctx, `SELECT profile_id FROM active_profiles WHERE scope = ?`, string(scope)).Scan(&activeID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: scope %q has no active profile", types.ErrDanglingReference, scope)
	}
	if err != nil {
		return fmt.Errorf("reading active profile: %w", err)
	}

	var profileCreated string
	err = tx.QueryRowContext(ctx,
		`SELECT created_at FROM style_profiles WHERE id = ? AND scope = ?`, a.StyleProfileRef.ID, string(scope),
	).Scan(&profileCreated)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: profile %s not stored in scope %q", types.ErrDanglingReference, a.StyleProfileRef.ID, scope)
	}
	if err != nil {
		return fmt.Errorf("checking style profile reference: %w", err)
	}
	if profileCreated != formatTime(a.StyleProfileRef.CreatedAt) {
		return fmt.Errorf("%w: profile %s was created at %s, not %s", types.ErrDanglingReference,
			a.StyleProfileRef.ID, profileCreated, formatTime(a.StyleProfileRef.CreatedAt))
	}

	var n int

	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM artifacts WHERE id = ?`, a.ID).Scan(&n); err != nil {
		return fmt.Errorf("checking artifact id: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %s", types.ErrArtifactExists, a.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO artifacts (id, scope, topic, content, profile_id, profile_created_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(scope), a.Topic, a.Content, a.StyleProfileRef.ID,
		formatTime(a.StyleProfileRef.CreatedAt), formatTime(a.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting artifact: %w", err)
	}

	return tx.Commit()
}

// ListArtifacts returns the scope's artifacts, oldest first.
func (s *SQLiteStore) ListArtifacts(ctx context.Context, scope types.Scope, opts ListOptions) ([]types.GeneratedArtifact, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}

	var (
		qb   strings.Builder
		args = []any{string(scope)}
	)
	qb.WriteString(`SELECT id, scope, topic, content, profile_id, profile_created_at, created_at
		FROM artifacts WHERE scope = ?`)
	if opts.Topic != "" {
		qb.WriteString(` AND topic = ? COLLATE NOCASE`)
		args = append(args, opts.Topic)
	}
	qb.WriteString(` ORDER BY created_at, seq`)

	arts, err := s.queryArtifacts(ctx, qb.String(), args...)
	if err != nil {
		return nil, err
	}
	return applyLimit(arts, opts.Limit), nil
}

// SearchArtifacts runs an FTS5 query over artifact topics and content,
// best matches first. Without FTS5 it matches query as a substring.
func (s *SQLiteStore) SearchArtifacts(ctx context.Context, scope types.Scope, query string, limit int) ([]types.GeneratedArtifact, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	if limit <= 0 {
		limit = 20
	}

	if !s.fts {
		pattern := "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
		return s.queryArtifacts(ctx,
			`SELECT id, scope, topic, content, profile_id, profile_created_at, created_at
			 FROM artifacts
			 WHERE scope = ? AND (topic LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\')
			 ORDER BY created_at, seq
			 LIMIT ?`,
			string(scope), pattern, pattern, limit,
		)
	}

	return s.queryArtifacts(ctx,
		`SELECT a.id, a.scope, a.topic, a.content, a.profile_id, a.profile_created_at, a.created_at
		 FROM artifacts_fts
		 JOIN artifacts a ON a.seq = artifacts_fts.rowid
		 WHERE artifacts_fts MATCH ? AND a.scope = ?
		 ORDER BY artifacts_fts.rank
		 LIMIT ?`,
		ftsQuery(query), string(scope), limit,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ftsQuery turns free text into an FTS5 query that matches every
// whitespace-separated term. Each term is a quoted string so punctuation
// such as hyphens and apostrophes is tokenized rather than parsed as query syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, term := range terms {
		terms[i] = `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

func (s *SQLiteStore) queryArtifacts(ctx context.Context, query string, args ...any) ([]types.GeneratedArtifact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying artifacts: %w", err)
	}
	defer rows.Close()

	var arts []types.GeneratedArtifact
	for rows.Next() {
		var (
			a                       types.GeneratedArtifact
			profileCreated, created string
		)
		if err := rows.Scan(&a.ID, &a.Scope, &a.Topic, &a.Content,
			&a.StyleProfileRef.ID, &profileCreated, &created); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if a.StyleProfileRef.CreatedAt, err = parseTime(profileCreated); err != nil {
			return nil, fmt.Errorf("parsing profile timestamp: %w", err)
		}
		if a.CreatedAt, err = parseTime(created); err != nil {
			return nil, fmt.Errorf("parsing artifact timestamp: %w", err)
		}
		arts = append(arts, a)
	}
	return arts, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
