package domain

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupportedVersion is returned when a stored snapshot is newer than the reader understands.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// Snapshot is one versioned, independently keyed blob of store state.
type Snapshot struct {
	Key       string    `json:"key" db:"key"`
	Version   int       `json:"version" db:"version"`
	Data      []byte    `json:"data" db:"data"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SnapshotRepository loads and saves snapshots. GetSnapshot returns nil, nil for an unknown key.
type SnapshotRepository interface {
	GetSnapshot(ctx context.Context, key string) (*Snapshot, error)
	PutSnapshot(ctx context.Context, snapshot *Snapshot) error
}
