package redis

import "context"

// DemandLedgerInterface defines the demand counter operations used by the
// pricing and lifecycle paths.
type DemandLedgerInterface interface {
	Increment(ctx context.Context, c Counter) error
	Decrement(ctx context.Context, c Counter) error
	Snapshot(ctx context.Context) (DemandSnapshot, error)
}

// LocationStoreInterface defines the fast-path location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID, name string, lat, lng float64) error
	RemoveLocation(ctx context.Context, driverID string) error
	IsKnown(ctx context.Context, driverID string) (bool, error)
	MarkKnown(ctx context.Context, driverID string) error
	ForgetKnown(ctx context.Context, driverID string) error
}

// BroadcasterInterface defines the best-effort event publisher.
type BroadcasterInterface interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Ensure concrete types implement interfaces.
var (
	_ DemandLedgerInterface  = (*DemandLedger)(nil)
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ BroadcasterInterface   = (*Broadcaster)(nil)
)
