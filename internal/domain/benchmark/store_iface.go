package benchmark

import "context"

type StoreAPI interface {
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error
	// LatestSnapshot returns nil without error when nothing was calculated yet.
	LatestSnapshot(ctx context.Context, scope string, scopeID *int64) (*Snapshot, error)
	ListSnapshots(ctx context.Context, scope string, scopeID *int64, limit int) ([]Snapshot, error)
}
