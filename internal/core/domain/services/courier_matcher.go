package services

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoLocatedCouriers is returned when not a single available courier has a
// known position, so no distance comparison is possible at all.
var ErrNoLocatedCouriers = errors.New("no located couriers")

// ErrNoCourierWithinRadius is returned when couriers exist but the nearest
// one is outside the configured radius. Match wraps it in a
// NoCourierWithinRadiusError carrying the best distance found.
var ErrNoCourierWithinRadius = errors.New("no courier within radius")

// NoCourierWithinRadiusError reports the nearest courier's distance so
// callers can log how far off the best candidate was.
type NoCourierWithinRadiusError struct {
	BestDistanceKm float64
	MaxDistanceKm  float64
}

func (e *NoCourierWithinRadiusError) Error() string {
	return fmt.Sprintf("no courier within radius: nearest is %.2f km away, limit is %.2f km",
		e.BestDistanceKm, e.MaxDistanceKm)
}

func (e *NoCourierWithinRadiusError) Unwrap() error {
	return ErrNoCourierWithinRadius
}

// CourierMatcher is a domain service that selects the nearest available
// courier to a target point.
//
// Selection rules:
//   - unavailable couriers and couriers without a known position are skipped
//   - distance is great-circle distance to the target
//   - the first courier at the minimum distance wins, so the outcome is
//     deterministic for a given input order
//   - a maxDistanceKm of zero or less disables the radius check
type CourierMatcher struct{}

// NewCourierMatcher creates a new CourierMatcher instance.
func NewCourierMatcher() CourierMatcher {
	return CourierMatcher{}
}

// Match returns the nearest available courier to target and its distance in
// kilometers.
//
// Returns ErrNoLocatedCouriers when no available courier has a position, and
// a NoCourierWithinRadiusError when the nearest one is farther than
// maxDistanceKm.
func (m CourierMatcher) Match(
	target kernel.GeoPoint,
	couriers []*courier.Courier,
	maxDistanceKm float64,
) (*courier.Courier, float64, error) {
	if err := target.Validate(); err != nil {
		return nil, 0, err
	}

	var (
		best         *courier.Courier
		bestDistance = math.MaxFloat64
	)

	for _, c := range couriers {
		if err := c.Validate(); err != nil {
			return nil, 0, err
		}

		if !c.IsAvailable() || !c.IsLocated() {
			continue
		}

		distance, err := c.Location().DistanceKm(target)
		if err != nil {
			return nil, 0, err
		}

		if distance < bestDistance {
			bestDistance = distance
			best = c
		}
	}

	if best == nil {
		return nil, 0, ErrNoLocatedCouriers
	}

	if maxDistanceKm > 0 && bestDistance > maxDistanceKm {
		return nil, 0, &NoCourierWithinRadiusError{
			BestDistanceKm: bestDistance,
			MaxDistanceKm:  maxDistanceKm,
		}
	}

	return best, bestDistance, nil
}
