package model

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Pricing
// -----------------------------------------------------------------------------

// Pricing is the latest price a vendor published for an instrument.
//
// Every field is optional until the record passes Validate; the store only
// ever holds records with zero defects.
type Pricing struct {
	ID             *PricingID       // Assigned by the enricher, nil before
	InstrumentID   *InstrumentID    // Instrument being priced
	VendorID       *VendorID        // Vendor that supplied the price
	Ticker         *string          // Free-text ticker (e.g., "AAA.A")
	Price          *decimal.Decimal // Must be strictly positive
	PriceTimestamp *time.Time       // Wall-clock time of the price
}

// Validate returns every defect of the record in field order:
// id, instrumentId, vendorId, ticker, price, priceTimestamp.
func (p Pricing) Validate() []string {
	var errs []string

	errs = append(errs, p.ID.Validate()...)
	errs = append(errs, p.InstrumentID.Validate()...)
	errs = append(errs, p.VendorID.Validate()...)
	errs = append(errs, validateText("ticker", p.Ticker)...)

	switch {
	case p.Price == nil:
		errs = append(errs, "price must be provided")
	case !p.Price.IsPositive():
		errs = append(errs, fmt.Sprintf("price must be a positive number while %s was provided", p.Price.String()))
	}

	if p.PriceTimestamp == nil {
		errs = append(errs, "priceTimestamp must be provided")
	}

	return errs
}

// WithID returns a copy of p carrying the given id.
func (p Pricing) WithID(id PricingID) Pricing {
	p.ID = &id
	return p
}

// WithVendor returns a copy of p attributed to the given vendor.
func (p Pricing) WithVendor(vendor VendorID) Pricing {
	p.VendorID = &vendor
	return p
}

// Date returns the calendar date of the price timestamp.
// Callers must only use it on validated records.
func (p Pricing) Date() Date {
	return DateOf(*p.PriceTimestamp)
}

// Equal reports whether p and other carry the same values in every field.
// Prices compare numerically, so 10 and 10.0 are equal.
func (p Pricing) Equal(other Pricing) bool {
	return equalPtr(p.ID, other.ID) &&
		equalPtr(p.InstrumentID, other.InstrumentID) &&
		equalPtr(p.VendorID, other.VendorID) &&
		equalPtr(p.Ticker, other.Ticker) &&
		equalDecimal(p.Price, other.Price) &&
		equalTime(p.PriceTimestamp, other.PriceTimestamp)
}

// LogValue renders the record for structured logs.
func (p Pricing) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("id", p.ID.String()),
		slog.String("instrument_id", p.InstrumentID.String()),
		slog.String("vendor_id", p.VendorID.String()),
		slog.String("ticker", textOf(p.Ticker)),
	}
	if p.Price != nil {
		attrs = append(attrs, slog.String("price", p.Price.String()))
	}
	if p.PriceTimestamp != nil {
		attrs = append(attrs, slog.Time("price_timestamp", *p.PriceTimestamp))
	}
	return slog.GroupValue(attrs...)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalDecimal(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
