package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradejournal/config"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/metrics"
	"github.com/rustyeddy/tradejournal/risk"
)

var fixedNow = time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Store = config.StoreConfig{Type: "memory"}
	cfg.Server.RateLimit = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config, repo journal.Repository) (*Server, http.Handler) {
	t.Helper()

	s, err := New(cfg, repo, zap.NewNop())
	require.NoError(t, err)
	s.now = func() time.Time { return fixedNow }
	return s, s.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func closed(id, date, symbol string, ac journal.AssetClass, pnl float64) journal.Trade {
	return journal.Trade{
		ID: id, UserID: "u1", Date: date, EntryDate: date, ExitDate: journal.String(date),
		Symbol: symbol, AssetClass: ac, Qty: 1, PnL: pnl,
		EntryPrice: journal.Float(100), ExitPrice: journal.Float(100 + pnl),
	}
}

func seeded(t *testing.T) *journal.MemoryStore {
	t.Helper()

	m := journal.NewMemoryStore()
	for _, tr := range []journal.Trade{
		closed("1", "2023-01-01", "AAPL", journal.Stock, 100),
		closed("2", "2023-01-01", "BTC", journal.Crypto, -50),
		closed("3", "2023-01-02", "AAPL", journal.Stock, 200),
		closed("4", "2023-01-02", "ETH", journal.Crypto, 150),
		closed("5", "2023-01-03", "TSLA", journal.Stock, -75),
		closed("6", "2023-01-03", "BTC", journal.Crypto, 300),
		closed("7", "2023-01-04", "AAPL", journal.Stock, 1000),
		closed("8", "2023-01-04", "ETH", journal.Crypto, -20),
	} {
		require.NoError(t, m.Create(context.Background(), tr))
	}
	return m
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), journal.NewMemoryStore())
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestTradeLifecycle(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), journal.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/users/u1/trades", map[string]any{
		"userId":     "someone-else",
		"date":       "2023-01-05",
		"symbol":     "NVDA",
		"assetClass": "stock",
		"qty":        2,
		"pnl":        42.5,
		"entryPrice": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[journal.Trade](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.True(t, created.IsPending())

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[journal.Trade](t, rec))

	// Another user cannot see it.
	rec = do(t, h, http.MethodGet, "/api/users/u2/trades/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	update := created
	update.ExitDate = journal.String("2023-01-06")
	update.ExitPrice = journal.Float(121.25)
	rec = do(t, h, http.MethodPut, "/api/users/u1/trades/"+created.ID, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decode[journal.Trade](t, rec).IsPending())

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?status=closed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[tradesResponse](t, rec).Count)

	rec = do(t, h, http.MethodDelete, "/api/users/u1/trades/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/users/u1/trades/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "NOT_FOUND", apiErr.ErrorCode)
}

func TestCreateTradeDuplicateID(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), journal.NewMemoryStore())
	body := closed("dup", "2023-01-05", "AAPL", journal.Stock, 10)

	rec := do(t, h, http.MethodPost, "/api/users/u1/trades", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Same id under another user, then the same user again.
	for _, user := range []string{"u2", "u1"} {
		rec = do(t, h, http.MethodPost, "/api/users/"+user+"/trades", body)
		require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
		assert.Equal(t, "CONFLICT", decode[APIError](t, rec).ErrorCode)
	}

	rec = do(t, h, http.MethodGet, "/api/users/u2/trades", nil)
	assert.Equal(t, 0, decode[tradesResponse](t, rec).Count)
}

func TestCreateTradeValidation(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), journal.NewMemoryStore())

	rec := do(t, h, http.MethodPost, "/api/users/u1/trades", map[string]any{
		"date": "2023-01-05", "symbol": "EURUSD", "assetClass": "forex", "qty": 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)
	assert.Contains(t, apiErr.Details, "assetClass")

	req := httptest.NewRequest(http.MethodPost, "/api/users/u1/trades", strings.NewReader("{not json"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decode[APIError](t, rec).ErrorCode)
}

func TestListTradesFilters(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), seeded(t))

	rec := do(t, h, http.MethodGet, "/api/users/u1/trades", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, decode[tradesResponse](t, rec).Count)

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?category=crypto", nil)
	assert.Equal(t, 4, decode[tradesResponse](t, rec).Count)

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?start=2023-01-02&end=2023-01-03&category=stock", nil)
	resp := decode[tradesResponse](t, rec)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "3", resp.Trades[0].ID)
	assert.Equal(t, "5", resp.Trades[1].ID)

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?category=bonds", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?status=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/u1/trades?start=2023-02-01&end=2023-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), seeded(t))

	rec := do(t, h, http.MethodGet, "/api/users/u1/stats?start=2023-01-01&end=2023-01-04", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rep := decode[metrics.Report](t, rec)
	assert.Equal(t, 8, rep.Summary.Trades)
	assert.InDelta(t, 62.5, rep.Summary.WinRate, 1e-9)
	assert.InDelta(t, 1605, rep.Summary.TotalPL, 1e-9)
	require.Len(t, rep.Series, 4)
	assert.Equal(t, []float64{50, 350, 225, 980},
		[]float64{rep.Series[0].PnL, rep.Series[1].PnL, rep.Series[2].PnL, rep.Series[3].PnL})
	assert.Equal(t, "AAPL", rep.TopSymbols[0].Label)
	assert.Equal(t, 7, rep.Query.Top)

	// Default window is the 30 days ending on fixedNow.
	rec = do(t, h, http.MethodGet, "/api/users/u1/stats?category=crypto&top=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rep = decode[metrics.Report](t, rec)
	assert.Equal(t, 4, rep.Summary.Trades)
	assert.Len(t, rep.TopSymbols, 1)

	rec = do(t, h, http.MethodGet, "/api/users/u1/stats?start=2023-01-01&end=2023-01-04&smooth=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[metrics.Report](t, rec).Smoothed, 3)

	for _, q := range []string{"top=0", "top=x", "pending=maybe", "start=yesterday", "category=fx", "smooth=-1"} {
		rec = do(t, h, http.MethodGet, "/api/users/u1/stats?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestStatsCacheInvalidatedOnWrite(t *testing.T) {
	t.Parallel()

	s, h := newTestServer(t, testConfig(), seeded(t))
	require.NotNil(t, s.cache)

	path := "/api/users/u1/stats?start=2023-01-01&end=2023-01-31"
	first := decode[metrics.Report](t, do(t, h, http.MethodGet, path, nil))
	second := decode[metrics.Report](t, do(t, h, http.MethodGet, path, nil))
	assert.Equal(t, first, second)

	rec := do(t, h, http.MethodPost, "/api/users/u1/trades", closed("9", "2023-01-05", "SOL", journal.Crypto, 5))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	third := decode[metrics.Report](t, do(t, h, http.MethodGet, path, nil))
	assert.Equal(t, 9, third.Summary.Trades)
}

func TestStatsWithoutCache(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.CacheTTL = 0
	s, h := newTestServer(t, cfg, seeded(t))
	assert.Nil(t, s.cache)

	rec := do(t, h, http.MethodGet, "/api/users/u1/stats?start=2023-01-01&end=2023-01-04", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 8, decode[metrics.Report](t, rec).Summary.Trades)
}

func TestStatsDefaultWindowIsUTC(t *testing.T) {
	t.Parallel()

	m := journal.NewMemoryStore()
	for _, tr := range []journal.Trade{
		closed("1", "2023-01-01", "AAPL", journal.Stock, 10),
		closed("2", "2023-01-02", "AAPL", journal.Stock, 20),
		closed("3", "2023-01-31", "AAPL", journal.Stock, 40),
	} {
		require.NoError(t, m.Create(context.Background(), tr))
	}
	s, h := newTestServer(t, testConfig(), m)
	// Jan 30 20:00 in UTC-8 is already Jan 31 in UTC.
	s.now = func() time.Time { return time.Date(2023, 1, 30, 20, 0, 0, 0, time.FixedZone("PST", -8*3600)) }

	rec := do(t, h, http.MethodGet, "/api/users/u1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rep := decode[metrics.Report](t, rec)
	assert.Equal(t, 2, rep.Summary.Trades)
	assert.InDelta(t, 60, rep.Summary.TotalPL, 1e-9)
}

func TestStatsSmoothKind(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), seeded(t))
	base := "/api/users/u1/stats?start=2023-01-01&end=2023-01-04&smooth=2"

	sma := decode[metrics.Report](t, do(t, h, http.MethodGet, base, nil))
	rec := do(t, h, http.MethodGet, base+"&smooth_kind=ema", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ema := decode[metrics.Report](t, rec)

	require.Len(t, sma.Smoothed, 3)
	require.Len(t, ema.Smoothed, 3)
	assert.Equal(t, metrics.SmoothEMA, ema.Query.SmoothKind)
	assert.InDelta(t, 200, ema.Smoothed[0].PnL, 1e-9)
	assert.InDelta(t, 287.5, sma.Smoothed[1].PnL, 1e-9)
	assert.InDelta(t, 650.0/3, ema.Smoothed[1].PnL, 1e-9)

	rec = do(t, h, http.MethodGet, base+"&smooth_kind=wma", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendar(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), seeded(t))

	rec := do(t, h, http.MethodGet, "/api/users/u1/calendar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cal := decode[calendarResponse](t, rec)
	assert.Equal(t, 2023, cal.Year)
	assert.Equal(t, 1, cal.Month)
	assert.Len(t, cal.Days, 4)
	assert.InDelta(t, 1605, cal.TotalPL, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/users/u1/calendar?year=2023&month=2", nil)
	assert.Empty(t, decode[calendarResponse](t, rec).Days)

	rec = do(t, h, http.MethodGet, "/api/users/u1/calendar?month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRiskAlerts(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), journal.NewMemoryStore())

	body := []risk.Metrics{
		{StudentID: "s1", StudentName: "Ada", EquityDrop7d: 25, WinRate: 90, TotalTrades: 10, Exposure: 10},
		{StudentID: "s2", StudentName: "Bo", WinRate: 30, TotalTrades: 60, Exposure: 70},
		{StudentID: "s3", StudentName: "Cy", WinRate: 30, TotalTrades: 10},
	}

	rec := do(t, h, http.MethodPost, "/api/admin/risk-alerts", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[alertsResponse](t, rec)
	assert.Equal(t, risk.AlertCounts{Total: 3, Red: 1, Amber: 2}, resp.Counts)
	require.Len(t, resp.Alerts, 3)
	assert.Equal(t, risk.EquityDrop, resp.Alerts[0].Type)
	assert.True(t, resp.Alerts[0].Timestamp.Equal(fixedNow))

	rec = do(t, h, http.MethodPost, "/api/admin/risk-alerts?severity=amber", body)
	resp = decode[alertsResponse](t, rec)
	assert.Len(t, resp.Alerts, 2)
	assert.Equal(t, 3, resp.Counts.Total)

	rec = do(t, h, http.MethodPost, "/api/admin/risk-alerts?severity=green", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStudentRiskAlerts(t *testing.T) {
	t.Parallel()

	store := journal.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, closed("a", "2023-01-06", "AAPL", journal.Stock, -3000)))
	require.NoError(t, store.Create(ctx, journal.Trade{
		ID: "open", UserID: "u1", Date: "2023-01-09", Symbol: "MSFT", AssetClass: journal.Stock,
		Qty: 100, EntryPrice: journal.Float(80),
	}))

	_, h := newTestServer(t, testConfig(), store)
	rec := do(t, h, http.MethodPost, "/api/admin/students/risk-alerts", []risk.Student{
		{ID: "u1", Name: "Ada", Balance: 10000},
		{ID: "u2", Name: "Bo", Balance: 5000},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[alertsResponse](t, rec)
	require.Len(t, resp.Metrics, 2)
	assert.InDelta(t, 80, resp.Metrics[0].Exposure, 1e-9)
	assert.InDelta(t, 3000.0/13000.0*100, resp.Metrics[0].EquityDrop7d, 1e-9)
	assert.Equal(t, risk.AlertCounts{Total: 2, Red: 1, Amber: 1}, resp.Counts)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Server.RateLimit = 0.001
	cfg.Server.RateBurst = 1
	_, h := newTestServer(t, cfg, journal.NewMemoryStore())

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/users/u1/trades", nil).Code)
	rec := do(t, h, http.MethodGet, "/api/users/u1/trades", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Health and metrics are not limited.
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	_, h := newTestServer(t, testConfig(), seeded(t))
	do(t, h, http.MethodGet, "/api/users/u1/trades", nil)
	do(t, h, http.MethodPost, "/api/admin/risk-alerts", []risk.Metrics{{EquityDrop7d: 50, WinRate: 50}})

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `tradejournal_http_requests_total{method="GET",route="/api/users/{userID}/trades",status="200"} 1`)
	assert.Contains(t, body, `tradejournal_risk_alerts_total{severity="red",type="equityDrop"} 1`)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, t journal.Trade) error { return m.Called(t).Error(0) }

func (m *mockRepo) Get(ctx context.Context, id string) (journal.Trade, error) {
	args := m.Called(id)
	return args.Get(0).(journal.Trade), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, t journal.Trade) error { return m.Called(t).Error(0) }

func (m *mockRepo) Delete(ctx context.Context, id string) error { return m.Called(id).Error(0) }

func (m *mockRepo) ListByUser(ctx context.Context, userID string) ([]journal.Trade, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]journal.Trade), args.Error(1)
}

func (m *mockRepo) Close() error { return nil }

func TestRepositoryFailure(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{}
	repo.On("ListByUser", "u1").Return(nil, errors.New("disk on fire"))

	_, h := newTestServer(t, testConfig(), repo)

	rec := do(t, h, http.MethodGet, "/api/users/u1/stats", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	apiErr := decode[APIError](t, rec)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", apiErr.ErrorCode)
	assert.NotContains(t, rec.Body.String(), "disk on fire")

	repo.AssertExpectations(t)
}
