package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hireline.app/engine/core/config"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS engine_snapshots (
	id         INT PRIMARY KEY CHECK (id = 1),
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresSnapshotter stores the engine snapshot as a single JSONB row.
type PostgresSnapshotter struct {
	pool *pgxpool.Pool
}

func NewPostgresSnapshotter(ctx context.Context, cfg config.PersistConfig) (*PostgresSnapshotter, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := pool.Exec(ctx, snapshotSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating snapshot table: %w", err)
	}

	return &PostgresSnapshotter{pool: pool}, nil
}

func (p *PostgresSnapshotter) Save(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: encoding snapshot: %v", ErrSnapshot, err)
	}

	_, err = p.pool.Exec(ctx, `
		INSERT INTO engine_snapshots (id, data, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		data,
	)
	if err != nil {
		return fmt.Errorf("%w: writing snapshot: %v", ErrSnapshot, err)
	}
	return nil
}

func (p *PostgresSnapshotter) Load(ctx context.Context) (*Snapshot, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM engine_snapshots WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: reading snapshot: %v", ErrSnapshot, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: decoding snapshot: %v", ErrSnapshot, err)
	}
	return &snapshot, nil
}

func (p *PostgresSnapshotter) Close() {
	p.pool.Close()
}
