package service

import (
	"context"
	"log"
	"math"

	"github.com/Siddharthbgp/ride-hailing-app/internal/domain"
	"github.com/Siddharthbgp/ride-hailing-app/internal/redis"
)

// TierConfig holds the fare table entry for one service tier.
type TierConfig struct {
	BaseFare  float64
	CostPerKm float64
	MinSurge  float64
	MaxSurge  float64
}

var tierTable = map[domain.Tier]TierConfig{
	domain.TierEconomy: {BaseFare: 50, CostPerKm: 12, MinSurge: 1.0, MaxSurge: 3.0},
	domain.TierPremium: {BaseFare: 100, CostPerKm: 20, MinSurge: 1.0, MaxSurge: 3.5},
	domain.TierLuxury:  {BaseFare: 200, CostPerKm: 35, MinSurge: 1.0, MaxSurge: 4.0},
}

// TierFor returns the fare table entry for a tier; unknown tiers fall back
// to economy.
func TierFor(tier domain.Tier) TierConfig {
	if cfg, ok := tierTable[tier]; ok {
		return cfg
	}
	return tierTable[domain.TierEconomy]
}

// PricingService computes surge factors from the demand ledger and fares
// from the tier table. All arithmetic here is non-blocking; only the ledger
// snapshot touches I/O.
type PricingService struct {
	demand redis.DemandLedgerInterface
}

// NewPricingService creates a new PricingService.
func NewPricingService(demand redis.DemandLedgerInterface) *PricingService {
	return &PricingService{demand: demand}
}

// CalculateSurgeFactor maps the pending-ride/available-driver ratio to a
// surge multiplier clamped to the tier bounds. Pickup coordinates are
// accepted for a future geo-segmented demand model; they do not affect the
// ratio yet. Any ledger failure yields 1.0 — pricing never blocks ride
// creation on a metrics outage.
func (s *PricingService) CalculateSurgeFactor(ctx context.Context, pickupLat, pickupLng float64, tier domain.Tier) float64 {
	if s.demand == nil {
		return 1.0
	}

	snap, err := s.demand.Snapshot(ctx)
	if err != nil {
		log.Printf("demand snapshot failed, defaulting surge to 1.0: %v", err)
		return 1.0
	}

	ratio := 1.0
	if snap.AvailableDrivers > 0 {
		ratio = float64(snap.PendingRides) / float64(snap.AvailableDrivers)
	}

	surge := 1.0
	switch {
	case ratio > 2.0:
		surge = 3.0
	case ratio > 1.0:
		surge = 2.0
	case ratio > 0.5:
		surge = 1.5
	}

	cfg := TierFor(tier)
	return math.Max(cfg.MinSurge, math.Min(surge, cfg.MaxSurge))
}

// CalculateFare prices a ride from distance, tier and surge factor.
// BaseFare is the unrounded table constant; the derived fares are rounded
// half-up to the cent and the surge factor passes through unrounded.
func (s *PricingService) CalculateFare(distanceKm float64, tier domain.Tier, surgeFactor float64) domain.FareBreakdown {
	cfg := TierFor(tier)

	distanceFare := distanceKm * cfg.CostPerKm
	surgeFare := (cfg.BaseFare + distanceFare) * (surgeFactor - 1.0)
	totalFare := cfg.BaseFare + distanceFare + surgeFare

	return domain.FareBreakdown{
		BaseFare:     cfg.BaseFare,
		DistanceFare: round2(distanceFare),
		SurgeFare:    round2(surgeFare),
		TotalFare:    round2(totalFare),
		SurgeFactor:  surgeFactor,
	}
}

// round2 rounds half-up to two decimals.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
