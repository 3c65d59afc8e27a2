package pricing

import (
	"context"
	"log/slog"

	"github.com/rickgao/pricing-board/internal/model"
)

//go:generate mockgen -package=pricing_test -destination=mock_repository_test.go -source=service.go Repository

// Repository holds the current price per (instrument, vendor) pair.
type Repository interface {
	Store(p model.Pricing)
	AllByInstrument(id model.InstrumentID) []model.Pricing
	AllByVendor(id model.VendorID) []model.Pricing
}

// Service validates, stores and serves price records.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a Service backed by repo.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Check validates p without side effects.
func (s *Service) Check(p model.Pricing) ValidationResult {
	return ValidationResult{Pricing: p, Reasons: p.Validate()}
}

// RegisterPricing stores p if it is valid. Otherwise it returns an
// *InvalidPricingError listing every defect and leaves the store untouched.
func (s *Service) RegisterPricing(ctx context.Context, p model.Pricing) error {
	res := s.Check(p)
	if err := res.Err(); err != nil {
		s.logger.DebugContext(ctx, "pricing rejected", "pricing", p, "reasons", res.Reasons)
		return err
	}

	s.repo.Store(p)
	s.logger.DebugContext(ctx, "pricing registered", "pricing", p)
	return nil
}

// AllByInstrument returns the current record of every vendor for an instrument.
func (s *Service) AllByInstrument(ctx context.Context, id model.InstrumentID) []model.Pricing {
	out := s.repo.AllByInstrument(id)
	s.logger.DebugContext(ctx, "instrument query", "instrument_id", string(id), "count", len(out))
	return out
}

// AllByVendor returns the current record of every instrument for a vendor.
func (s *Service) AllByVendor(ctx context.Context, id model.VendorID) []model.Pricing {
	out := s.repo.AllByVendor(id)
	s.logger.DebugContext(ctx, "vendor query", "vendor_id", string(id), "count", len(out))
	return out
}
