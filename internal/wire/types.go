package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rickgao/pricing-board/internal/model"
)

var (
	// ErrMissingPayload is returned when a message or request has no body.
	ErrMissingPayload = errors.New("missing pricing payload")

	// ErrMalformedPayload is returned when a body is not a pricing object.
	ErrMalformedPayload = errors.New("malformed pricing payload")
)

// -----------------------------------------------------------------------------
// Inbound
// -----------------------------------------------------------------------------

// InboundPricing is a price update as sent by a vendor feed or API caller.
// Every field is optional; absent and null both decode to nil.
type InboundPricing struct {
	InstrumentID   *string          `json:"instrumentId"`
	VendorID       *string          `json:"vendorId"`
	Ticker         *string          `json:"ticker"`
	Price          *decimal.Decimal `json:"price"`
	PriceTimestamp *DateTime        `json:"priceTimestamp"`

	// PriceDateTime is the older name of PriceTimestamp, still sent by some
	// producers. PriceTimestamp wins when both are present.
	PriceDateTime *DateTime `json:"priceDateTime,omitempty"`
}

// DecodeInbound parses a JSON payload into an InboundPricing.
func DecodeInbound(data []byte) (InboundPricing, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return InboundPricing{}, ErrMissingPayload
	}

	var in InboundPricing
	if err := json.Unmarshal(trimmed, &in); err != nil {
		return InboundPricing{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return in, nil
}

// ForVendor returns a copy attributed to the given vendor.
func (in InboundPricing) ForVendor(vendor model.VendorID) InboundPricing {
	v := string(vendor)
	in.VendorID = &v
	return in
}

// ToPricing converts the payload into a domain record without an id.
func (in InboundPricing) ToPricing() model.Pricing {
	p := model.Pricing{Ticker: in.Ticker, Price: in.Price}
	if in.InstrumentID != nil {
		p.InstrumentID = model.NewInstrumentID(*in.InstrumentID)
	}
	if in.VendorID != nil {
		p.VendorID = model.NewVendorID(*in.VendorID)
	}
	if dt := in.timestamp(); dt != nil {
		ts := dt.Time()
		p.PriceTimestamp = &ts
	}
	return p
}

func (in InboundPricing) timestamp() *DateTime {
	if in.PriceTimestamp != nil {
		return in.PriceTimestamp
	}
	return in.PriceDateTime
}

// -----------------------------------------------------------------------------
// Outbound
// -----------------------------------------------------------------------------

// OutboundPricing is an accepted record as published downstream and
// returned from queries. The internal id is not exposed.
type OutboundPricing struct {
	InstrumentID   string          `json:"instrumentId"`
	VendorID       string          `json:"vendorId"`
	Ticker         string          `json:"ticker"`
	Price          decimal.Decimal `json:"price"`
	PriceTimestamp DateTime        `json:"priceTimestamp"`
}

// FromPricing projects a stored record. The record must be valid.
func FromPricing(p model.Pricing) OutboundPricing {
	out := OutboundPricing{
		InstrumentID: p.InstrumentID.String(),
		VendorID:     p.VendorID.String(),
	}
	if p.Ticker != nil {
		out.Ticker = *p.Ticker
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.PriceTimestamp != nil {
		out.PriceTimestamp = NewDateTime(*p.PriceTimestamp)
	}
	return out
}

// FromPricings projects a slice of stored records.
func FromPricings(ps []model.Pricing) []OutboundPricing {
	out := make([]OutboundPricing, 0, len(ps))
	for _, p := range ps {
		out = append(out, FromPricing(p))
	}
	return out
}

// Timestamp returns the price time as a time.Time.
func (o OutboundPricing) Timestamp() time.Time { return o.PriceTimestamp.Time() }

// -----------------------------------------------------------------------------
// Errors
// -----------------------------------------------------------------------------

// ErrorResult is the HTTP error body.
type ErrorResult struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
