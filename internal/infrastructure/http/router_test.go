package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"

	"github.com/stretchr/testify/require"
)

var testDefaults = Defaults{
	From:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	To:     time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
	Window: 5,
}

func bitcoinPoints(prices ...float64) []domain.PricePoint {
	pts := make([]domain.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = domain.PricePoint{
			CoinID: "bitcoin",
			Ts:     testDefaults.From.AddDate(0, 0, i),
			Price:  p,
		}
	}
	return pts
}

func setup(points ...domain.PricePoint) (http.Handler, *fakePriceRepo, *fakeProvider) {
	srv, repo, provider := NewInMemoryServer(testDefaults, points...)
	return NewRouter(srv), repo, provider
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	h, _, _ := setup()
	rec := do(t, h, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestReadyz_PingFails(t *testing.T) {
	srv, _, _ := NewInMemoryServer(testDefaults)
	failing := NewServer(srv.analysis, srv.collector, testDefaults,
		WithPing(func(context.Context) error { return errors.New("down") }))
	rec := do(t, NewRouter(failing), http.MethodGet, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetCoins(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10, 11, 12)...)
	rec := do(t, h, http.MethodGet, "/api/coins")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Coins []coinJSON `json:"coins"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Coins, 1)
	require.Equal(t, "bitcoin", resp.Coins[0].CoinID)
	require.Equal(t, 3, resp.Coins[0].Points)
}

func TestGetSeries(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10, 12, 11, 13, 14, 16)...)
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/series")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp seriesJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bitcoin", resp.CoinID)
	require.Equal(t, 5, resp.Window)
	require.Len(t, resp.Points, 6)
	require.Len(t, resp.MovingAvg, 2)
	require.InDelta(t, 12.0, resp.MovingAvg[0].Avg, 1e-9)
	require.InDelta(t, 13.2, resp.MovingAvg[1].Avg, 1e-9)
}

func TestGetSeries_WindowOverride(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10, 12, 11, 13, 14, 16)...)
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/series?window=2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp seriesJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Window)
	require.Len(t, resp.MovingAvg, 5)
}

func TestGetSeries_BadWindow(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10, 12)...)
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/series?window=zero")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSeries_UnknownCoin(t *testing.T) {
	h, _, _ := setup()
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/series")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummary(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10, 20, 30)...)
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.InDelta(t, 20.0, resp.Mean, 1e-9)
	require.InDelta(t, 200.0, resp.PctChange, 1e-9)
	require.Equal(t, 3, resp.Points)
}

func TestGetSummary_EmptySeries(t *testing.T) {
	h, _, _ := setup()
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/summary")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp["error"], "insufficient data")
}

func TestGetSummary_BadRange(t *testing.T) {
	h, _, _ := setup(bitcoinPoints(10)...)
	rec := do(t, h, http.MethodGet, "/api/coins/bitcoin/summary?from=2025-03-01&to=2025-01-01")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompare(t *testing.T) {
	pts := append(bitcoinPoints(100, 110),
		domain.PricePoint{CoinID: "ethereum", Ts: testDefaults.From, Price: 100},
		domain.PricePoint{CoinID: "ethereum", Ts: testDefaults.From.AddDate(0, 0, 1), Price: 90},
	)
	h, _, _ := setup(pts...)
	rec := do(t, h, http.MethodGet, "/api/compare?coins=bitcoin,ethereum")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp compareJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summaries, 2)
	require.Equal(t, "bitcoin", resp.Best)
	require.Equal(t, "ethereum", resp.Worst)
}

func TestCompare_NoCoins(t *testing.T) {
	h, _, _ := setup()
	rec := do(t, h, http.MethodGet, "/api/compare")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh(t *testing.T) {
	h, repo, provider := setup()
	provider.pts = bitcoinPoints(10, 11, 12)
	rec := do(t, h, http.MethodPost, "/api/coins/bitcoin/refresh")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CoinID  string `json:"coin_id"`
		Written int    `json:"written"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Written)
	require.Len(t, repo.store["bitcoin"], 3)
}

func TestRefresh_ProviderDown(t *testing.T) {
	h, _, provider := setup()
	provider.err = application.ErrTransientFetch
	rec := do(t, h, http.MethodPost, "/api/coins/bitcoin/refresh")
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDashboardPage(t *testing.T) {
	h, _, _ := setup()
	rec := do(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "Cryptocurrency Price Analysis")
}
