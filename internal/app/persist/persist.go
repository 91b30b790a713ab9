// Package persist encodes store state into versioned snapshots.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fardannozami/dailyreport/internal/domain"
)

// Load decodes the snapshot stored under key into v. found is false when nothing
// is stored yet. A snapshot newer than maxVersion is rejected; older ones decode as-is.
func Load(ctx context.Context, repo domain.SnapshotRepository, key string, maxVersion int, v any) (found bool, err error) {
	snapshot, err := repo.GetSnapshot(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if snapshot == nil {
		return false, nil
	}
	if snapshot.Version > maxVersion {
		return false, fmt.Errorf("load %s: version %d: %w", key, snapshot.Version, domain.ErrUnsupportedVersion)
	}
	if err := json.Unmarshal(snapshot.Data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func Save(ctx context.Context, repo domain.SnapshotRepository, key string, version int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	snapshot := &domain.Snapshot{
		Key:       key,
		Version:   version,
		Data:      data,
		UpdatedAt: time.Now(),
	}
	if err := repo.PutSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
