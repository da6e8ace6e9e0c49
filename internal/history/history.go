// Package history records generated models so they can be replayed later.
package history

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Faultbox/voxelforge/pkg/voxel"
)

// ErrNotFound is returned when an entry id is unknown.
var ErrNotFound = errors.New("history entry not found")

const (
	// DefaultMaxEntries caps the log when no limit is configured.
	DefaultMaxEntries = 12

	// MemoryPath selects the in-memory log instead of a database file.
	MemoryPath = ":memory:"
)

// Entry is one generated model.
type Entry struct {
	ID        string             `json:"id"`
	Prompt    string             `json:"prompt"`
	Name      string             `json:"name"`
	Voxels    []voxel.Descriptor `json:"voxels"`
	CreatedAt time.Time          `json:"created_at"`
}

// Set decodes the entry's voxels.
func (e Entry) Set() (voxel.Set, error) {
	return voxel.FromDescriptors(e.Voxels)
}

// Log is an append-only, size-capped list of entries, newest first.
type Log interface {
	// Append stores e, assigning an id and timestamp when missing, and
	// evicts the oldest entries beyond the cap.
	Append(ctx context.Context, e Entry) (Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Close() error
}

func prepare(e Entry, now time.Time) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.Name == "" {
		e.Name = e.Prompt
	}
	return e
}
