package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/rickgao/pricing-board/internal/api"
	"github.com/rickgao/pricing-board/internal/broker"
	"github.com/rickgao/pricing-board/internal/metrics"
	"github.com/rickgao/pricing-board/internal/model"
	"github.com/rickgao/pricing-board/internal/pipeline"
	"github.com/rickgao/pricing-board/internal/pricing"
	"github.com/rickgao/pricing-board/internal/store"
	"github.com/rickgao/pricing-board/internal/wire"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const base = "/marketplace/board"

func newRouter(p api.Processor, q api.Querier) *gin.Engine {
	return api.NewRouter(api.RouterConfig{BasePath: base}, api.Deps{Handler: api.NewHandler(p, q, nil)}, nil)
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) wire.ErrorResult {
	t.Helper()
	var res wire.ErrorResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func storedPricing() model.Pricing {
	price := decimal.RequireFromString("10.5")
	ts := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	ticker := "AAA.A"
	return model.Pricing{
		ID:             model.NewPricingID("p-1"),
		InstrumentID:   model.NewInstrumentID("AAA"),
		VendorID:       model.NewVendorID("VendorX"),
		Ticker:         &ticker,
		Price:          &price,
		PriceTimestamp: &ts,
	}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	processor := NewMockProcessor(ctrl)
	r := newRouter(processor, NewMockQuerier(ctrl))

	processor.EXPECT().
		Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in wire.InboundPricing) (model.Pricing, error) {
			require.Equal(t, "AAA", *in.InstrumentID)
			require.Equal(t, "VendorX", *in.VendorID)
			return storedPricing(), nil
		}).
		Times(1)

	// Act
	rec := do(r, http.MethodPost, base+"/pricing", `{
		"instrumentId": "AAA", "vendorId": "VendorX", "ticker": "AAA.A",
		"price": 10.5, "priceTimestamp": "2024-03-01T09:30:00"
	}`)

	// Assert
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(api.HeaderRequestID))
}

func TestRegister_MissingBody(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	r := newRouter(NewMockProcessor(ctrl), NewMockQuerier(ctrl))

	for _, body := range []string{"", "null", "{not json"} {
		rec := do(r, http.MethodPost, base+"/pricing", body)

		require.Equalf(t, http.StatusBadRequest, rec.Code, "body %q", body)
		res := decodeError(t, rec)
		require.Equal(t, api.MsgMissingPricing, res.Message)
		require.Empty(t, res.Details)
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	processor := NewMockProcessor(ctrl)
	r := newRouter(processor, NewMockQuerier(ctrl))

	processor.EXPECT().
		Process(gomock.Any(), gomock.Any()).
		Return(model.Pricing{}, &pricing.InvalidPricingError{
			Message: pricing.MsgRegistrationFailed,
			Reasons: []string{"instrumentId must be provided", "ticker must not be blank"},
		})

	rec := do(r, http.MethodPost, base+"/pricing", `{"ticker": ""}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decodeError(t, rec)
	require.Equal(t, "Pricing registration failed", res.Message)
	require.Equal(t, "instrumentId must be provided, ticker must not be blank", res.Details)
}

func TestRegister_InternalError(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	processor := NewMockProcessor(ctrl)
	r := newRouter(processor, NewMockQuerier(ctrl))

	processor.EXPECT().
		Process(gomock.Any(), gomock.Any()).
		Return(storedPricing(), errors.New("publish pricing p-1: broker down"))

	rec := do(r, http.MethodPost, base+"/pricing", `{"instrumentId": "AAA"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	res := decodeError(t, rec)
	require.Equal(t, api.MsgInternal, res.Message)
	require.NotContains(t, rec.Body.String(), "broker down")
}

func TestRegister_Panic(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	processor := NewMockProcessor(ctrl)
	r := newRouter(processor, NewMockQuerier(ctrl))

	processor.EXPECT().
		Process(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, wire.InboundPricing) (model.Pricing, error) {
			panic("nil map")
		})

	rec := do(r, http.MethodPost, base+"/pricing", `{"instrumentId": "AAA"}`)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, api.MsgInternal, decodeError(t, rec).Message)
}

func TestQueries(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	querier := NewMockQuerier(ctrl)
	r := newRouter(NewMockProcessor(ctrl), querier)

	querier.EXPECT().AllByInstrument(gomock.Any(), model.InstrumentID("AAA")).Return([]model.Pricing{storedPricing()})
	querier.EXPECT().AllByVendor(gomock.Any(), model.VendorID("Nobody")).Return([]model.Pricing{})

	// Act
	byInstrument := do(r, http.MethodGet, base+"/pricing/instrument/AAA", "")
	byVendor := do(r, http.MethodGet, base+"/pricing/vendor/Nobody", "")

	// Assert
	require.Equal(t, http.StatusOK, byInstrument.Code)
	var out []wire.OutboundPricing
	require.NoError(t, json.Unmarshal(byInstrument.Body.Bytes(), &out))
	require.Len(t, out, 1)
	require.Equal(t, "VendorX", out[0].VendorID)
	require.Equal(t, "2024-03-01T09:30:00", out[0].PriceTimestamp.String())

	require.Equal(t, http.StatusOK, byVendor.Code)
	require.JSONEq(t, `[]`, byVendor.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := metrics.New()
	r := api.NewRouter(
		api.RouterConfig{BasePath: base, MetricsPath: "/metrics"},
		api.Deps{
			Handler: api.NewHandler(NewMockProcessor(ctrl), NewMockQuerier(ctrl), nil),
			Health:  func() gin.H { return gin.H{"instance": "board-1"} },
			Metrics: m,
		},
		nil,
	)

	health := do(r, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, health.Code)
	require.JSONEq(t, `{"status":"ok","instance":"board-1"}`, health.Body.String())

	scrape := do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, scrape.Code)
	require.Contains(t, scrape.Body.String(), `pricing_board_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

// TestRegister_EndToEnd drives the real pipeline: a registration missing its
// instrument is rejected and nothing is stored or published.
func TestRegister_EndToEnd(t *testing.T) {
	t.Parallel()

	// Arrange
	repo := store.NewInMemoryRepository(store.DefaultConfig(), nil)
	svc := pricing.NewService(repo, nil)
	mem := broker.NewMemory(4)
	p := pipeline.New(pipeline.DefaultConfig(), nil, svc, mem, mem, nil)
	r := newRouter(p, svc)

	// Act
	rejected := do(r, http.MethodPost, base+"/pricing", `{
		"vendorId": "VendorX", "ticker": "AAA.A",
		"price": 10.5, "priceTimestamp": "2024-03-01T09:30:00"
	}`)
	accepted := do(r, http.MethodPost, base+"/pricing", `{
		"instrumentId": "BBB", "vendorId": "VendorX", "ticker": "BBB.B",
		"price": 20, "priceTimestamp": "2024-03-01T09:30:00"
	}`)

	// Assert
	require.Equal(t, http.StatusBadRequest, rejected.Code)
	res := decodeError(t, rejected)
	require.Equal(t, "Pricing registration failed", res.Message)
	require.Contains(t, res.Details, "instrumentId must be provided")

	require.Equal(t, http.StatusOK, accepted.Code)
	require.Equal(t, 1, repo.Stats().Records)
	require.Len(t, repo.AllByVendor("VendorX"), 1)
	require.Equal(t, int64(1), mem.TopicStats("Outbound").Enqueued)

	listed := do(r, http.MethodGet, base+"/pricing/vendor/VendorX", "")
	require.Equal(t, http.StatusOK, listed.Code)
	require.Contains(t, listed.Body.String(), `"instrumentId":"BBB"`)
}
