package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates that the requested snapshot or wallet was not found.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot represents one stored wallet portfolio snapshot.
type Snapshot struct {
	ID           int             `json:"id"`
	WalletID     int             `json:"walletId"`
	SnapshotDate time.Time       `json:"snapshotDate"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Repository defines persistent storage for wallet snapshots.
type Repository interface {
	Save(ctx context.Context, walletID int, date time.Time, data json.RawMessage) error
	GetLatest(ctx context.Context, wallet string) (*Snapshot, error)
	GetByDate(ctx context.Context, wallet string, date time.Time) (*Snapshot, error)
	List(ctx context.Context, wallet string, limit int) ([]Snapshot, error)
	GetWalletID(ctx context.Context, wallet string) (int, error)
	EnsureWallet(ctx context.Context, wallet, label string) (int, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL snapshot repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Save(ctx context.Context, walletID int, date time.Time, data json.RawMessage) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wallet_snapshots (wallet_id, snapshot_date, data)
		 VALUES ($1, $2, $3::jsonb)
		 ON CONFLICT (wallet_id, snapshot_date)
		 DO UPDATE SET data = $3::jsonb`,
		walletID, date, data)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *PgRepository) GetLatest(ctx context.Context, wallet string) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx,
		`SELECT ws.id, ws.wallet_id, ws.snapshot_date, ws.data, ws.created_at
		 FROM wallet_snapshots ws
		 JOIN wallets w ON w.id = ws.wallet_id
		 WHERE w.address = $1
		 ORDER BY ws.snapshot_date DESC
		 LIMIT 1`, wallet).Scan(&s.ID, &s.WalletID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting latest snapshot: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) GetByDate(ctx context.Context, wallet string, date time.Time) (*Snapshot, error) {
	var s Snapshot
	err := r.pool.QueryRow(ctx,
		`SELECT ws.id, ws.wallet_id, ws.snapshot_date, ws.data, ws.created_at
		 FROM wallet_snapshots ws
		 JOIN wallets w ON w.id = ws.wallet_id
		 WHERE w.address = $1 AND ws.snapshot_date = $2`, wallet, date).
		Scan(&s.ID, &s.WalletID, &s.SnapshotDate, &s.Data, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting snapshot by date: %w", err)
	}
	return &s, nil
}

func (r *PgRepository) List(ctx context.Context, wallet string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.pool.Query(ctx,
		`SELECT ws.id, ws.wallet_id, ws.snapshot_date, ws.data, ws.created_at
		 FROM wallet_snapshots ws
		 JOIN wallets w ON w.id = ws.wallet_id
		 WHERE w.address = $1
		 ORDER BY ws.snapshot_date DESC
		 LIMIT $2`, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.WalletID, &s.SnapshotDate, &s.Data, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}
	return snapshots, nil
}

func (r *PgRepository) GetWalletID(ctx context.Context, wallet string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM wallets WHERE address = $1`, wallet).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("getting wallet ID for %s: %w", wallet, err)
	}
	return id, nil
}

func (r *PgRepository) EnsureWallet(ctx context.Context, wallet, label string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO wallets (address, label)
		 VALUES ($1, $2)
		 ON CONFLICT (address) DO UPDATE SET label = $2
		 RETURNING id`,
		wallet, label).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ensuring wallet %s: %w", wallet, err)
	}
	return id, nil
}
