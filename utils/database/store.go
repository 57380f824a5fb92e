// Package database is the relational record store backing the bot. All access is
// single-statement; there are no multi-statement transactions.
package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"werkstatt-bot/utils/clock"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the SQLite handle.
type Store struct {
	db    *sqlx.DB
	clock clock.Clock
}

// Open connects to the SQLite file at path, creating its directory, and runs
// the schema step.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if path == ":memory:" {
		// every connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := New(db, clock.Real())
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle. The clock stamps created-at columns.
func New(db *sqlx.DB, clk clock.Clock) *Store {
	if clk == nil {
		clk = clock.Real()
	}
	return &Store{db: db, clock: clk}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sqlx.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) now() time.Time { return s.clock.Now().UTC() }

var schema = []string{
	`CREATE TABLE IF NOT EXISTS abmeldungen (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		grund TEXT NOT NULL,
		von DATE NOT NULL,
		bis DATE NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP,
		aktiv INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS sanktionen (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		username TEXT NOT NULL,
		typ TEXT NOT NULL,
		grund TEXT NOT NULL,
		geldstrafe INTEGER DEFAULT 0,
		ausgestellt_von TEXT NOT NULL,
		ausgestellt_von_name TEXT NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP,
		ablauf_datum DATETIME,
		aktiv INTEGER DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS panel_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		channel_id TEXT NOT NULL,
		message_id TEXT NOT NULL,
		typ TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tuningchip (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		kennzeichen TEXT NOT NULL,
		beschreibung TEXT NOT NULL,
		bild_url TEXT,
		erstellt_von TEXT NOT NULL,
		erstellt_von_name TEXT NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS stance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		kennzeichen TEXT NOT NULL,
		bild_url TEXT,
		erstellt_von TEXT NOT NULL,
		erstellt_von_name TEXT NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS xenon (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		kennzeichen TEXT NOT NULL,
		farbe TEXT NOT NULL,
		bild_url TEXT,
		erstellt_von TEXT NOT NULL,
		erstellt_von_name TEXT NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS eigentuning (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		erstellt_von TEXT NOT NULL,
		erstellt_von_name TEXT NOT NULL,
		rechnungssteller TEXT NOT NULL,
		einkaufspreis INTEGER NOT NULL,
		rechnungshoehe INTEGER NOT NULL,
		erstellt_am DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Columns added after the first release. Re-running the statement on a
// current database fails with "duplicate column name", which is ignored.
var alterStatements = []string{
	`ALTER TABLE sanktionen ADD COLUMN geldstrafe INTEGER DEFAULT 0`,
}

// Migrate creates missing tables and adds missing columns. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, stmt := range alterStatements {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column name") {
			return fmt.Errorf("failed to execute ALTER statement %s: %w", stmt, err)
		}
	}
	return nil
}

func rowsAffected(res interface{ RowsAffected() (int64, error) }) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n, nil
}
