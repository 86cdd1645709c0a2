package syncer

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/nudgelabs/nudge-core/internal/constants"
)

// PostgresRemote is a RemoteStore backed by a shared Postgres instance. Each
// record is stored as its JSON envelope; the server never interprets
// payloads, it only answers "updated after T" queries.
type PostgresRemote struct {
	connStr string
	db      *sql.DB
}

func NewPostgresRemote(connStr string) *PostgresRemote {
	r := &PostgresRemote{connStr: connStr}
	r.ensureSSLMode()
	return r
}

// ensureSSLMode appends sslmode=require unless the caller already chose one.
func (r *PostgresRemote) ensureSSLMode() {
	if strings.HasPrefix(r.connStr, "postgres://") || strings.HasPrefix(r.connStr, "postgresql://") {
		u, err := url.Parse(r.connStr)
		if err != nil {
			return
		}
		q := u.Query()
		if q.Get("sslmode") == "" {
			q.Set("sslmode", "require")
			u.RawQuery = q.Encode()
			r.connStr = u.String()
		}
		return
	}
	if !strings.Contains(strings.ToLower(r.connStr), "sslmode=") {
		r.connStr = strings.TrimSpace(r.connStr) + " sslmode=require"
	}
}

// Open connects and ensures the records table exists.
func (r *PostgresRemote) Open(ctx context.Context) error {
	db, err := sql.Open("postgres", r.connStr)
	if err != nil {
		return fmt.Errorf("failed to open remote connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to reach remote store: %w", err)
	}
	r.db = db

	_, err = r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+constants.AppName+`_records (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			payload JSONB NOT NULL,
			PRIMARY KEY (collection, id)
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure records table: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_`+constants.AppName+`_records_updated
		ON `+constants.AppName+`_records (collection, updated_at)`)
	if err != nil {
		return fmt.Errorf("failed to ensure records index: %w", err)
	}
	return nil
}

func (r *PostgresRemote) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *PostgresRemote) ListSince(ctx context.Context, collection string, since time.Time) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, updated_at, payload
		FROM `+constants.AppName+`_records
		WHERE collection = $1 AND updated_at > $2`,
		collection, since.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list remote records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UpdatedAt, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan remote record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate remote records: %w", err)
	}
	return records, nil
}

func (r *PostgresRemote) Upsert(ctx context.Context, collection string, records []Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin remote transaction: %w", err)
	}

	for _, rec := range records {
		// The guard in the WHERE clause keeps the remote row a LWW register:
		// an older client can never roll a record backwards.
		_, err := tx.ExecContext(ctx, `
			INSERT INTO `+constants.AppName+`_records (collection, id, updated_at, payload)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (collection, id) DO UPDATE
			SET updated_at = EXCLUDED.updated_at, payload = EXCLUDED.payload
			WHERE `+constants.AppName+`_records.updated_at < EXCLUDED.updated_at`,
			collection, rec.ID, rec.UpdatedAt.UTC(), rec.Payload)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert remote record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit remote upsert: %w", err)
	}
	return nil
}
