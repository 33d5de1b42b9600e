package commands

import (
	"errors"
	"time"

	"dispatch/internal/pkg/errs"
)

// AssignmentSettings are the dispatch tuning knobs, loaded once from
// configuration and injected into handlers and the reassignment job.
// Immutable after construction.
type AssignmentSettings struct {
	// MaxRetries bounds how many assignment attempts a delivery gets
	// before it is escalated to an administrator.
	MaxRetries int

	// MaxCourierDistanceKm is the matcher radius and the leg-splitting
	// threshold. Zero disables both checks.
	MaxCourierDistanceKm float64

	// OfferExpiry is how long a courier has to respond to an offer.
	OfferExpiry time.Duration

	// CheckInterval is the reassignment scheduler's polling period.
	CheckInterval time.Duration

	// RetryDelay is the minimum pause between assignment attempts for the
	// same delivery.
	RetryDelay time.Duration

	// PricePerKm prices a leg when the caller does not set a price.
	PricePerKm float64

	// EnableReassignment turns the background scheduler on or off.
	EnableReassignment bool
}

// Validate checks the settings are usable for dispatch.
func (s AssignmentSettings) Validate() error {
	var err error
	if s.MaxRetries < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("maxRetries"))
	}
	if s.MaxCourierDistanceKm < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("maxCourierDistanceKm"))
	}
	if s.OfferExpiry <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("offerExpiry"))
	}
	if s.CheckInterval <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("checkInterval"))
	}
	if s.RetryDelay < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("retryDelay"))
	}
	if s.PricePerKm < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidError("pricePerKm"))
	}
	return err
}
