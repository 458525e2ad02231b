package service

import (
	"context"
	"log"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
)

// RideEvent is the payload broadcast on ride topics. The OTP is deliberately
// omitted: it is delivered to the rider by the API response, never on a
// shared channel.
type RideEvent struct {
	RideID      string  `json:"ride_id"`
	RiderID     string  `json:"rider_id"`
	DriverID    string  `json:"driver_id,omitempty"`
	Status      string  `json:"status"`
	Tier        string  `json:"tier"`
	DistanceKm  float64 `json:"distance_km"`
	Price       float64 `json:"price"`
	SurgeFactor float64 `json:"surge_factor"`
}

// DriverEvent is the payload broadcast on driver topics.
type DriverEvent struct {
	DriverID string  `json:"driver_id"`
	Name     string  `json:"name"`
	Status   string  `json:"status"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

func newRideEvent(ride *domain.Ride) RideEvent {
	return RideEvent{
		RideID:      ride.ID,
		RiderID:     ride.RiderID,
		DriverID:    ride.DriverID,
		Status:      string(ride.Status),
		Tier:        string(ride.Tier),
		DistanceKm:  ride.DistanceKm,
		Price:       ride.Price,
		SurgeFactor: ride.SurgeFactor,
	}
}

// broadcastRide publishes a ride event, logging and swallowing failures:
// notification loss never fails the operation that triggered it.
func broadcastRide(ctx context.Context, b redis.BroadcasterInterface, topic string, ride *domain.Ride) {
	if b == nil {
		return
	}
	if err := b.Publish(ctx, topic, newRideEvent(ride)); err != nil {
		log.Printf("broadcast %s failed for ride %s: %v", topic, ride.ID, err)
	}
}

func broadcastDriver(ctx context.Context, b redis.BroadcasterInterface, driver *domain.Driver) {
	if b == nil {
		return
	}
	event := DriverEvent{
		DriverID: driver.ID,
		Name:     driver.Name,
		Status:   string(driver.Status),
		Lat:      driver.Lat,
		Lng:      driver.Lng,
	}
	if err := b.Publish(ctx, redis.TopicDriverLocationUpdated, event); err != nil {
		log.Printf("broadcast %s failed for driver %s: %v", redis.TopicDriverLocationUpdated, driver.ID, err)
	}
}
