package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// Counter names a demand ledger counter.
type Counter string

const (
	// CounterPendingRides counts rides waiting for a driver.
	CounterPendingRides Counter = "pending_rides_count"

	// CounterAvailableDrivers counts drivers free to accept a ride.
	CounterAvailableDrivers Counter = "available_drivers_count"
)

// defaultAvailableDrivers is assumed when the counter has never been set,
// so a cold ledger never manufactures surge.
const defaultAvailableDrivers = 10

// DemandSnapshot is a point-in-time read of both counters.
type DemandSnapshot struct {
	PendingRides     int64
	AvailableDrivers int64
}

// decrFloored decrements only while the value is positive, atomically on the
// server side. The naive read-check-decrement round trip would race.
var decrFloored = redis.NewScript(`
local v = tonumber(redis.call('GET', KEYS[1]) or '0')
if v > 0 then
	return redis.call('DECR', KEYS[1])
end
return 0
`)

// DemandLedger keeps the process-wide supply/demand counters in Redis.
// It is an ephemeral soft signal: no persistence guarantee across restarts,
// and callers treat every failure as non-fatal.
type DemandLedger struct {
	client *redis.Client
}

// NewDemandLedger creates a new DemandLedger.
func NewDemandLedger(client *redis.Client) *DemandLedger {
	return &DemandLedger{client: client}
}

// Increment atomically increments a counter.
func (l *DemandLedger) Increment(ctx context.Context, c Counter) error {
	return l.client.Incr(ctx, string(c)).Err()
}

// Decrement atomically decrements a counter, flooring at zero. A decrement
// of a zero or absent counter is a no-op.
func (l *DemandLedger) Decrement(ctx context.Context, c Counter) error {
	return decrFloored.Run(ctx, l.client, []string{string(c)}).Err()
}

// Snapshot reads both counters. An absent pending counter reads as 0; an
// absent driver counter reads as the cold-start default.
func (l *DemandLedger) Snapshot(ctx context.Context) (DemandSnapshot, error) {
	snap := DemandSnapshot{AvailableDrivers: defaultAvailableDrivers}

	pending, err := l.client.Get(ctx, string(CounterPendingRides)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return snap, err
	}
	snap.PendingRides = pending

	drivers, err := l.client.Get(ctx, string(CounterAvailableDrivers)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return snap, nil
		}
		return snap, err
	}
	snap.AvailableDrivers = drivers

	return snap, nil
}
