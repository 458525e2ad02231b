package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	driverLocationKey = "drivers:locations"
	driverHashPrefix  = "driver:"
	knownPrefix       = "driver:known:"

	// driverHashTTL bounds how long a stale position survives in the cache.
	driverHashTTL = time.Hour

	// knownTTL is the staleness window of the durable driver row: while the
	// marker lives, location updates skip the store of record entirely.
	knownTTL = 24 * time.Hour
)

// DriverLocation represents a driver's position.
type DriverLocation struct {
	DriverID string
	Lat      float64
	Lng      float64
}

// LocationStore is the fast path for driver location updates: a geo index
// plus a short-TTL per-driver hash, and the "known" marker that gates the
// durable write.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation writes the driver's position to the geo index and refreshes
// the per-driver hash with a one hour TTL.
func (s *LocationStore) UpdateLocation(ctx context.Context, driverID, name string, lat, lng float64) error {
	if err := s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err(); err != nil {
		return err
	}

	key := driverHashPrefix + driverID
	if err := s.client.HSet(ctx, key,
		"name", name,
		"status", "online",
		"lat", strconv.FormatFloat(lat, 'f', -1, 64),
		"lng", strconv.FormatFloat(lng, 'f', -1, 64),
	).Err(); err != nil {
		return err
	}

	return s.client.Expire(ctx, key, driverHashTTL).Err()
}

// RemoveLocation removes a driver's position and cached hash.
func (s *LocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	if err := s.client.ZRem(ctx, driverLocationKey, driverID).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, driverHashPrefix+driverID).Err()
}

// IsKnown reports whether the driver's durable row was written within the
// staleness window.
func (s *LocationStore) IsKnown(ctx context.Context, driverID string) (bool, error) {
	err := s.client.Get(ctx, knownPrefix+driverID).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MarkKnown records that the durable row is fresh for the marker window.
func (s *LocationStore) MarkKnown(ctx context.Context, driverID string) error {
	return s.client.Set(ctx, knownPrefix+driverID, "true", knownTTL).Err()
}

// ForgetKnown drops the marker so the next location update hits the store.
func (s *LocationStore) ForgetKnown(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, knownPrefix+driverID).Err()
}
