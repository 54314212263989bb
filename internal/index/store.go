// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index records the snippets of the most recent run in a SQLite
// database for inspection tooling. See docs/ARCHITECTURE § Snippet Index.
//
// The index is advisory: extraction correctness never depends on it, and
// the pipeline treats index failures as warnings.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/isasnips/pkg/types"
)

const dbFile = "snippets.db"

// Store manages the snippet index database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index database under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snippets (
			key TEXT PRIMARY KEY,
			theory TEXT,
			command TEXT NOT NULL,
			name TEXT NOT NULL,
			line INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_theory ON snippets(theory)`,
		`CREATE INDEX IF NOT EXISTS idx_snippets_group ON snippets(theory, command, name)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Replace overwrites the index with the snippets of a completed run.
func (s *Store) Replace(ctx context.Context, snippets []types.Snippet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snippets`); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO snippets (key, theory, command, name, line, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer stmt.Close()

	for _, sn := range snippets {
		if _, err := stmt.ExecContext(ctx,
			sn.Key, sn.Theory, sn.Command, sn.Name, sn.Line, sn.Content, now); err != nil {
			return fmt.Errorf("indexing snippet %s: %w", sn.Key, err)
		}
	}

	return tx.Commit()
}

// GroupInfo summarizes one snippet group in the index.
type GroupInfo struct {
	Theory  string `json:"theory,omitempty" yaml:"theory,omitempty"`
	Command string `json:"command" yaml:"command"`
	Name    string `json:"name" yaml:"name"`
	Lines   int    `json:"lines" yaml:"lines"`
}

// Key is the group identifier as used in the consuming document.
func (g GroupInfo) Key() string {
	if g.Theory != "" {
		return fmt.Sprintf("%s:%s:%s", g.Theory, g.Command, g.Name)
	}
	return fmt.Sprintf("%s:%s", g.Command, g.Name)
}

// Groups lists the recorded snippet groups, optionally filtered by
// theory, in stable order.
func (s *Store) Groups(ctx context.Context, theory string) ([]GroupInfo, error) {
	query := `SELECT theory, command, name, COUNT(*) FROM snippets`
	var args []any
	if theory != "" {
		query += ` WHERE theory = ?`
		args = append(args, theory)
	}
	query += ` GROUP BY theory, command, name ORDER BY theory, command, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var groups []GroupInfo
	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.Theory, &g.Command, &g.Name, &g.Lines); err != nil {
			return nil, fmt.Errorf("scanning index row: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}
