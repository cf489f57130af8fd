package content

import "errors"

// Content loading errors
var (
	ErrContentRead  = errors.New("failed to read content")
	ErrContentParse = errors.New("failed to parse content")
)

// Content validation errors
var (
	ErrNoPlans        = errors.New("at least one pricing plan is required")
	ErrNoTestimonials = errors.New("at least one testimonial is required")
	ErrDuplicatePlan  = errors.New("duplicate pricing plan")
	ErrInvalidPrice   = errors.New("plan prices must not be negative")
	ErrInvalidBilling = errors.New("billing must be 'monthly' or 'annual'")
)
