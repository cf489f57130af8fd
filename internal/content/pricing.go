package content

import (
	"fmt"
	"strings"
)

// Billing selects which price a plan is shown with.
type Billing string

const (
	Monthly Billing = "monthly"
	Annual  Billing = "annual"
)

// ParseBilling accepts "monthly" or "annual"; the empty string selects
// monthly.
func ParseBilling(s string) (Billing, error) {
	switch Billing(strings.ToLower(strings.TrimSpace(s))) {
	case "", Monthly:
		return Monthly, nil
	case Annual:
		return Annual, nil
	default:
		return Monthly, fmt.Errorf("%w: got %q", ErrInvalidBilling, s)
	}
}

// Other returns the opposite billing period.
func (b Billing) Other() Billing {
	if b == Annual {
		return Monthly
	}
	return Annual
}

// Plan is one pricing tier.
type Plan struct {
	Name        string        `yaml:"name"`
	Monthly     int           `yaml:"monthly"`
	Annual      int           `yaml:"annual"`
	Description string        `yaml:"description"`
	CTA         string        `yaml:"cta"`
	Popular     bool          `yaml:"popular"`
	Features    []PlanFeature `yaml:"features"`
}

type PlanFeature struct {
	Name        string `yaml:"name"`
	Included    bool   `yaml:"included"`
	Highlighted bool   `yaml:"highlighted"`
}

// Price returns the price shown for the billing period.
func (p Plan) Price(b Billing) int {
	if b == Annual {
		return p.Annual
	}
	return p.Monthly
}

// AnnualSavings is what a customer saves per year by paying annually.
func (p Plan) AnnualSavings() int {
	return p.Monthly*12 - p.Annual
}

// PriceSuffix is the unit printed after the price.
func (b Billing) PriceSuffix() string {
	if b == Annual {
		return "/year"
	}
	return "/month"
}
