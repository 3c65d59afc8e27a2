package pricing

import (
	"strings"

	"github.com/rickgao/pricing-board/internal/model"
)

// MsgRegistrationFailed is the message of every InvalidPricingError.
const MsgRegistrationFailed = "Pricing registration failed"

// InvalidPricingError reports a record rejected by validation.
type InvalidPricingError struct {
	Message string
	Reasons []string
}

func (e *InvalidPricingError) Error() string {
	return e.Message + ": " + e.Details()
}

// Details joins the reasons in validation order.
func (e *InvalidPricingError) Details() string {
	return strings.Join(e.Reasons, ", ")
}

// ValidationResult is either an accepted record or the reasons it was rejected.
type ValidationResult struct {
	Pricing model.Pricing
	Reasons []string
}

// Valid reports whether the record had no defects.
func (r ValidationResult) Valid() bool { return len(r.Reasons) == 0 }

// Err returns nil for an accepted record, else an *InvalidPricingError.
func (r ValidationResult) Err() error {
	if r.Valid() {
		return nil
	}
	return &InvalidPricingError{Message: MsgRegistrationFailed, Reasons: r.Reasons}
}
