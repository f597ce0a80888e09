package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Star2578/bap-test/runner"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt *sql.Stmt
	getRunStmt    *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
// ":memory:" gives an ephemeral store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each sqlite connection gets its own in-memory database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			corpus_version TEXT NOT NULL,
			bias REAL NOT NULL,
			accuracy REAL NOT NULL,
			politeness REAL NOT NULL,
			pei REAL NOT NULL,
			details BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_provider ON runs(provider)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil db")
	}

	var err error
	s.insertRunStmt, err = s.db.Prepare(`INSERT INTO runs
		(id, created_at, provider, model, corpus_version, bias, accuracy, politeness, pei, details)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}

	s.getRunStmt, err = s.db.Prepare(`SELECT
		id, created_at, provider, model, corpus_version, bias, accuracy, politeness, pei, details
		FROM runs WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("store: prepare get: %w", err)
	}

	return nil
}

// SaveRun persists a completed run record.
func (s *SQLiteStore) SaveRun(ctx context.Context, rec *RunRecord) error {
	if s == nil || s.insertRunStmt == nil {
		return errors.New("store: not initialized")
	}
	if rec == nil {
		return errors.New("store: nil run record")
	}
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("store: run record missing id")
	}

	details, err := json.Marshal(rec.Details)
	if err != nil {
		return fmt.Errorf("store: marshal details: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.insertRunStmt.ExecContext(ctx,
		rec.ID,
		createdAt.Unix(),
		rec.Provider,
		rec.Model,
		rec.CorpusVersion,
		rec.Result.Bias,
		rec.Result.Accuracy,
		rec.Result.Politeness,
		rec.Result.PEI,
		details,
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	return nil
}

// GetRun loads one run by id. Returns sql.ErrNoRows when absent.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil || s.getRunStmt == nil {
		return nil, errors.New("store: not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	return scanRun(s.getRunStmt.QueryRowContext(ctx, id))
}

// ListRuns returns runs newest-first, honoring the filter.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter Filter) ([]*RunRecord, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store: not initialized")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, created_at, provider, model, corpus_version,
		bias, accuracy, politeness, pei, details FROM runs`
	var where []string
	var args []any
	if p := strings.TrimSpace(filter.Provider); p != "" {
		where = append(where, "provider = ?")
		args = append(args, p)
	}
	if !filter.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, filter.Since.Unix())
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// Close releases prepared statements and the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	if s.insertRunStmt != nil {
		_ = s.insertRunStmt.Close()
	}
	if s.getRunStmt != nil {
		_ = s.getRunStmt.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var createdAt int64
	var details []byte

	err := row.Scan(
		&rec.ID,
		&createdAt,
		&rec.Provider,
		&rec.Model,
		&rec.CorpusVersion,
		&rec.Result.Bias,
		&rec.Result.Accuracy,
		&rec.Result.Politeness,
		&rec.Result.PEI,
		&details,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: scan run: %w", err)
	}

	rec.CreatedAt = time.Unix(createdAt, 0).UTC()
	if len(details) > 0 {
		var d []runner.PromptDetail
		if err := json.Unmarshal(details, &d); err != nil {
			return nil, fmt.Errorf("store: unmarshal details: %w", err)
		}
		rec.Details = d
	}
	return &rec, nil
}
