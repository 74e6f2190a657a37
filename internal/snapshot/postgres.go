package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres stores the document as a single upserted row. The table is a
// key-value slot, not a relational model: every save overwrites the whole
// document for the slot.
type Postgres struct {
	db   *sql.DB
	slot string
}

func NewPostgres(ctx context.Context, databaseURL string, slot string) (*Postgres, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(2)
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			slot       TEXT PRIMARY KEY,
			doc        JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Postgres{db: db, slot: slot}, nil
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := p.db.QueryRowContext(ctx, `SELECT doc FROM snapshots WHERE slot = $1`, p.slot).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}
	if len(doc) == 0 {
		return nil, ErrEmpty
	}
	return doc, nil
}

func (p *Postgres) Save(ctx context.Context, doc []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO snapshots (slot, doc, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (slot) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
	`, p.slot, doc)
	return err
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
