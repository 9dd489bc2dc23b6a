package reservation

import (
	"fmt"
	"math"
)

// PricingStrategy computes the price of a stay.
type PricingStrategy interface {
	// Calculate returns the total for the given parameters.
	Calculate(params PricingParams) (float64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	Nights        int
	PricePerNight float64
}

// StayPricing charges the nightly rate for every night. Seasonal rates and
// discounts are not modelled.
type StayPricing struct{}

// NewStayPricing creates a new StayPricing.
func NewStayPricing() *StayPricing {
	return &StayPricing{}
}

// Calculate returns nights × rate rounded to cents.
func (s *StayPricing) Calculate(params PricingParams) (float64, error) {
	if params.Nights < 0 {
		return 0, fmt.Errorf("nights cannot be negative")
	}
	if params.PricePerNight < 0 {
		return 0, fmt.Errorf("price per night cannot be negative")
	}
	return math.Round(float64(params.Nights)*params.PricePerNight*100) / 100, nil
}
