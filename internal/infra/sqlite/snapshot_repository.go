package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fardannozami/dailyreport/internal/domain"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetSnapshot(ctx context.Context, key string) (*domain.Snapshot, error) {
	query := `SELECT key, version, data, updated_at FROM snapshots WHERE key = ?`
	row := r.db.QueryRowContext(ctx, query, key)

	var snapshot domain.Snapshot
	var updatedAt string
	err := row.Scan(&snapshot.Key, &snapshot.Version, &snapshot.Data, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snapshot.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}

func (r *SnapshotRepository) PutSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	if snapshot.UpdatedAt.IsZero() {
		snapshot.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO snapshots (key, version, data, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			version = excluded.version,
			data = excluded.data,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query, snapshot.Key, snapshot.Version, snapshot.Data, snapshot.UpdatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Keys lists stored snapshot keys in alphabetical order.
func (r *SnapshotRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM snapshots ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *SnapshotRepository) InitTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			data BLOB,
			updated_at TEXT
		);
	`
	_, err := r.db.ExecContext(ctx, query)
	return err
}
