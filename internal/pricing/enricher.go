package pricing

import (
	"github.com/google/uuid"

	"github.com/rickgao/pricing-board/internal/model"
)

// IDGenerator produces unique pricing ids.
type IDGenerator interface {
	Generate() model.PricingID
}

// IDGeneratorFunc is a function adapter for IDGenerator.
type IDGeneratorFunc func() model.PricingID

func (f IDGeneratorFunc) Generate() model.PricingID {
	return f()
}

// UUIDGenerator renders random (v4) UUIDs.
type UUIDGenerator struct{}

// Generate returns a new random UUID string.
func (UUIDGenerator) Generate() model.PricingID {
	return model.PricingID(uuid.NewString())
}

// Enricher assigns ids to records.
type Enricher struct {
	gen IDGenerator
}

// NewEnricher creates an Enricher. A nil generator uses UUIDGenerator.
func NewEnricher(gen IDGenerator) *Enricher {
	if gen == nil {
		gen = UUIDGenerator{}
	}
	return &Enricher{gen: gen}
}

// Enrich returns a copy of p carrying a fresh id. It does not validate.
func (e *Enricher) Enrich(p model.Pricing) model.Pricing {
	return p.WithID(e.gen.Generate())
}
