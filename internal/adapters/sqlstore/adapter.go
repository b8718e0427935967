// Package sqlstore provides a SQL-backed implementation of the resolution
// repository port. SQLite serves local use; MySQL serves shared deployments.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously

	"github.com/ewilliams-labs/lyricslink/internal/core/domain"
	"github.com/ewilliams-labs/lyricslink/internal/core/ports"
)

const (
	DriverSQLite = "sqlite3"
	DriverMySQL  = "mysql"
)

// Adapter implements the repository port over sqlx.
type Adapter struct {
	db *sqlx.DB
}

var _ ports.ResolutionRepository = (*Adapter)(nil)

// NewAdapter opens a connection, verifies it and runs the schema migration.
func NewAdapter(ctx context.Context, driver, dsn string) (*Adapter, error) {
	switch driver {
	case DriverSQLite:
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		dsn = cfg.FormatDSN()
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s db: %w", driver, err)
	}

	if driver == DriverSQLite {
		// Each connection to ":memory:" is its own database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(15)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s db: %w", driver, err)
	}

	adapter := NewWithDB(db)
	if err := adapter.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return adapter, nil
}

// NewWithDB wraps an open pool. The schema is not migrated.
func NewWithDB(db *sqlx.DB) *Adapter {
	return &Adapter{db: db}
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Migrate creates the schema when missing.
func (a *Adapter) Migrate(ctx context.Context) error {
	stmts := sqliteSchema
	if a.db.DriverName() == DriverMySQL {
		stmts = mysqlSchema
	}
	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS resolutions (
		id TEXT PRIMARY KEY,
		track_key TEXT NOT NULL,
		title TEXT NOT NULL,
		artists TEXT NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		url TEXT NOT NULL DEFAULT '',
		resolved INTEGER NOT NULL DEFAULT 0,
		page_title TEXT NOT NULL DEFAULT '',
		probes INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resolutions_track ON resolutions (track_key, created_at)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS resolutions (
		id CHAR(36) PRIMARY KEY,
		track_key VARCHAR(512) NOT NULL,
		title TEXT NOT NULL,
		artists TEXT NOT NULL,
		duration_ms INT NOT NULL DEFAULT 0,
		url TEXT NOT NULL,
		resolved TINYINT(1) NOT NULL DEFAULT 0,
		page_title TEXT NOT NULL,
		probes INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		INDEX idx_resolutions_track (track_key(191), created_at)
	)`,
}

// resolutionRow is the storage shape of domain.Resolution. Artists are kept
// as a JSON array.
type resolutionRow struct {
	ID         string    `db:"id"`
	TrackKey   string    `db:"track_key"`
	Title      string    `db:"title"`
	Artists    string    `db:"artists"`
	DurationMs int       `db:"duration_ms"`
	URL        string    `db:"url"`
	Resolved   bool      `db:"resolved"`
	PageTitle  string    `db:"page_title"`
	Probes     int       `db:"probes"`
	CreatedAt  time.Time `db:"created_at"`
}

const selectColumns = `SELECT id, track_key, title, artists, duration_ms, url, resolved, page_title, probes, created_at FROM resolutions`

func toRow(r domain.Resolution) (resolutionRow, error) {
	artists := r.Artists
	if artists == nil {
		artists = []string{}
	}
	b, err := json.Marshal(artists)
	if err != nil {
		return resolutionRow{}, err
	}
	return resolutionRow{
		ID:         r.ID,
		TrackKey:   r.TrackKey,
		Title:      r.Title,
		Artists:    string(b),
		DurationMs: r.DurationMs,
		URL:        r.URL,
		Resolved:   r.Resolved,
		PageTitle:  r.PageTitle,
		Probes:     r.Probes,
		CreatedAt:  r.CreatedAt.UTC(),
	}, nil
}

func (row resolutionRow) toDomain() (domain.Resolution, error) {
	var artists []string
	if err := json.Unmarshal([]byte(row.Artists), &artists); err != nil {
		return domain.Resolution{}, fmt.Errorf("failed to decode artists of %s: %w", row.ID, err)
	}
	return domain.Resolution{
		ID:         row.ID,
		TrackKey:   row.TrackKey,
		Title:      row.Title,
		Artists:    artists,
		DurationMs: row.DurationMs,
		URL:        row.URL,
		Resolved:   row.Resolved,
		PageTitle:  row.PageTitle,
		Probes:     row.Probes,
		CreatedAt:  row.CreatedAt.UTC(),
	}, nil
}

// Save inserts a resolution.
func (a *Adapter) Save(ctx context.Context, r domain.Resolution) error {
	row, err := toRow(r)
	if err != nil {
		return fmt.Errorf("failed to encode resolution: %w", err)
	}
	_, err = a.db.NamedExecContext(ctx, `
		INSERT INTO resolutions (id, track_key, title, artists, duration_ms, url, resolved, page_title, probes, created_at)
		VALUES (:id, :track_key, :title, :artists, :duration_ms, :url, :resolved, :page_title, :probes, :created_at)
	`, row)
	if err != nil {
		return fmt.Errorf("failed to save resolution: %w", err)
	}
	return nil
}

// Latest returns the newest resolution recorded for trackKey.
func (a *Adapter) Latest(ctx context.Context, trackKey string) (domain.Resolution, error) {
	var row resolutionRow
	query := a.db.Rebind(selectColumns + ` WHERE track_key = ? ORDER BY created_at DESC, id DESC LIMIT 1`)
	if err := a.db.GetContext(ctx, &row, query, trackKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Resolution{}, domain.ErrNotFound
		}
		return domain.Resolution{}, fmt.Errorf("failed to load resolution: %w", err)
	}
	return row.toDomain()
}

// Recent returns up to limit resolutions, newest first.
func (a *Adapter) Recent(ctx context.Context, limit int) ([]domain.Resolution, error) {
	var rows []resolutionRow
	query := a.db.Rebind(selectColumns + ` ORDER BY created_at DESC, id DESC LIMIT ?`)
	if err := a.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	out := make([]domain.Resolution, 0, len(rows))
	for _, row := range rows {
		r, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
