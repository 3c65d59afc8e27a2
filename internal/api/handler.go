package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rickgao/pricing-board/internal/model"
	"github.com/rickgao/pricing-board/internal/pricing"
	"github.com/rickgao/pricing-board/internal/wire"
)

//go:generate mockgen -package=api_test -destination=mock_handler_test.go -source=handler.go Processor,Querier

// Client-facing error messages.
const (
	MsgMissingPricing = "Missing pricing details"
	MsgInternal       = "Sorry, something is broken. We'll look into it."
)

// Processor runs an inbound record through enrichment, registration and
// publication.
type Processor interface {
	Process(ctx context.Context, in wire.InboundPricing) (model.Pricing, error)
}

// Querier reads current prices.
type Querier interface {
	AllByInstrument(ctx context.Context, id model.InstrumentID) []model.Pricing
	AllByVendor(ctx context.Context, id model.VendorID) []model.Pricing
}

// Handler serves the pricing routes.
type Handler struct {
	processor Processor
	querier   Querier
	logger    *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(processor Processor, querier Querier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{processor: processor, querier: querier, logger: logger}
}

// RegisterRoutes mounts the pricing routes on r.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/pricing")
	{
		g.POST("", h.Register)
		g.GET("/instrument/:instrumentId", h.ByInstrument)
		g.GET("/vendor/:vendorId", h.ByVendor)
	}
}

// Register accepts an InboundPricing body.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, wire.ErrorResult{Message: MsgMissingPricing})
		return
	}

	in, err := wire.DecodeInbound(body)
	if err != nil {
		h.logger.InfoContext(ctx, "unreadable pricing request", "error", err)
		c.JSON(http.StatusBadRequest, wire.ErrorResult{Message: MsgMissingPricing})
		return
	}

	rec, err := h.processor.Process(ctx, in)
	if err != nil {
		var invalid *pricing.InvalidPricingError
		if errors.As(err, &invalid) {
			h.logger.InfoContext(ctx, "pricing registration rejected", "reasons", invalid.Reasons)
			c.JSON(http.StatusBadRequest, wire.ErrorResult{Message: invalid.Message, Details: invalid.Details()})
			return
		}
		h.logger.ErrorContext(ctx, "pricing registration failed", "error", err, "pricing", rec)
		c.JSON(http.StatusInternalServerError, wire.ErrorResult{Message: MsgInternal})
		return
	}

	h.logger.InfoContext(ctx, "pricing registered", "pricing", rec)
	c.Status(http.StatusOK)
}

// ByInstrument lists current prices for an instrument.
func (h *Handler) ByInstrument(c *gin.Context) {
	id := model.InstrumentID(c.Param("instrumentId"))
	c.JSON(http.StatusOK, wire.FromPricings(h.querier.AllByInstrument(c.Request.Context(), id)))
}

// ByVendor lists current prices from a vendor.
func (h *Handler) ByVendor(c *gin.Context) {
	id := model.VendorID(c.Param("vendorId"))
	c.JSON(http.StatusOK, wire.FromPricings(h.querier.AllByVendor(c.Request.Context(), id)))
}
