package ports

import (
	"context"

	"github.com/studiofoto/intake/internal/core/draft"
)

// DraftStore persists the in-progress session snapshot in a single slot with
// last-write-wins semantics. One slot exists per device; the store is
// constructed bound to its slot key. Load returns (nil, nil) when the slot is
// empty.
type DraftStore interface {
	Save(ctx context.Context, snap *draft.Snapshot) error
	Load(ctx context.Context) (*draft.Snapshot, error)
	Clear(ctx context.Context) error
}
