// Package postgres provides the persistent storage backend. It mirrors the
// in-memory store's contract with asynchronous, fallible semantics: every
// operation takes a context and surfaces connection or query errors to the
// caller, which reports them rather than retrying.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"netwatch/internal/model"
)

// Store persists telemetry in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Init creates the schema if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS network_logs (
			id BIGSERIAL PRIMARY KEY,
			client_id TEXT,
			session_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			request_id TEXT NOT NULL,
			url TEXT NOT NULL,
			method TEXT NOT NULL,
			request_type TEXT NOT NULL,
			blocked BOOLEAN NOT NULL DEFAULT false,
			block_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS extension_events (
			id BIGSERIAL PRIMARY KEY,
			client_id TEXT,
			session_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			user_agent TEXT NOT NULL,
			event_type TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS blocklist_patterns (
			pattern TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// AddLog inserts one row per network log, denormalized with the batch
// metadata.
func (s *Store) AddLog(ctx context.Context, entry model.LogEntry) error {
	if len(entry.Logs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, nl := range entry.Logs {
		batch.Queue(`
			INSERT INTO network_logs (
				client_id, session_id, timestamp, user_agent,
				request_id, url, method, request_type, blocked, block_reason
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			textOrNull(entry.ClientID),
			entry.SessionID,
			entry.Timestamp,
			entry.UserAgent,
			nl.RequestID,
			nl.URL,
			nl.Method,
			nl.RequestType,
			nl.Blocked,
			textOrNull(nl.BlockReason),
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entry.Logs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// GetBlocklist assembles the active patterns by kind.
func (s *Store) GetBlocklist(ctx context.Context) (model.Blocklist, error) {
	urlPatterns, err := s.activePatterns(ctx, "url")
	if err != nil {
		return model.Blocklist{}, err
	}
	youtubeChannels, err := s.activePatterns(ctx, "youtube")
	if err != nil {
		return model.Blocklist{}, err
	}
	return model.Blocklist{
		URLPatterns:     urlPatterns,
		YouTubeChannels: youtubeChannels,
	}, nil
}

func (s *Store) activePatterns(ctx context.Context, kind string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT pattern FROM blocklist_patterns WHERE type = $1 AND active = true`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	patterns := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, rows.Err()
}

// UpdateBlocklist deactivates every stored pattern, then upserts the new
// set as active. The live blocklist is exactly the posted one; nothing is
// merged.
func (s *Store) UpdateBlocklist(ctx context.Context, bl model.Blocklist) error {
	batch := &pgx.Batch{}
	batch.Queue(`UPDATE blocklist_patterns SET active = false`)
	for _, pattern := range bl.URLPatterns {
		batch.Queue(`
			INSERT INTO blocklist_patterns (pattern, type) VALUES ($1, 'url')
			ON CONFLICT (pattern) DO UPDATE SET active = true
		`, pattern)
	}
	for _, channel := range bl.YouTubeChannels {
		batch.Queue(`
			INSERT INTO blocklist_patterns (pattern, type) VALUES ($1, 'youtube')
			ON CONFLICT (pattern) DO UPDATE SET active = true
		`, channel)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// AddExtensionEvent stores an enriched event with its payload as JSONB.
func (s *Store) AddExtensionEvent(ctx context.Context, ev model.ExtensionEvent) error {
	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("encode event data: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO extension_events (
			client_id, session_id, timestamp, user_agent, event_type, data
		) VALUES ($1, $2, $3, $4, $5, $6)
	`,
		textOrNull(ev.ClientID),
		ev.SessionID,
		ev.Timestamp,
		ev.UserAgent,
		ev.EventType,
		string(data),
	)
	return err
}

func textOrNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
