package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"

	"github.com/go-chi/chi/v5"
)

// Defaults are applied when a request omits range or window parameters.
type Defaults struct {
	From   time.Time
	To     time.Time
	Window int
}

type Server struct {
	analysis  *application.AnalysisService
	collector *application.CollectorService
	defaults  Defaults
	ping      func(ctx context.Context) error
}

type ServerOption func(*Server)

// WithPing wires the readiness probe to a backend health check.
func WithPing(fn func(ctx context.Context) error) ServerOption {
	return func(s *Server) { s.ping = fn }
}

func NewServer(analysis *application.AnalysisService, collector *application.CollectorService, defaults Defaults, opts ...ServerOption) *Server {
	s := &Server{analysis: analysis, collector: collector, defaults: defaults}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type coinJSON struct {
	CoinID string    `json:"coin_id"`
	Points int       `json:"points"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

type pointJSON struct {
	Ts        time.Time `json:"ts"`
	Price     float64   `json:"price"`
	MarketCap float64   `json:"market_cap,omitempty"`
	Volume    float64   `json:"volume,omitempty"`
}

type avgJSON struct {
	Ts  time.Time `json:"ts"`
	Avg float64   `json:"avg"`
}

type seriesJSON struct {
	CoinID    string      `json:"coin_id"`
	Window    int         `json:"window"`
	Points    []pointJSON `json:"points"`
	MovingAvg []avgJSON   `json:"moving_average"`
}

type summaryJSON struct {
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	PctChange float64 `json:"pct_change"`
	Points    int     `json:"points"`
}

type compareJSON struct {
	Summaries map[string]summaryJSON `json:"summaries"`
	Best      string                 `json:"best"`
	Worst     string                 `json:"worst"`
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	coins, err := s.analysis.Coins(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]coinJSON, 0, len(coins))
	for _, c := range coins {
		out = append(out, coinJSON{CoinID: c.CoinID, Points: c.Points, From: c.From, To: c.To})
	}
	writeJSON(w, http.StatusOK, map[string]any{"coins": out})
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	window := s.defaults.Window
	if raw := r.URL.Query().Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
	}

	series, err := s.analysis.Series(r.Context(), coinID, from, to, window)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := seriesJSON{
		CoinID:    series.CoinID,
		Window:    series.Window,
		Points:    make([]pointJSON, 0, len(series.Points)),
		MovingAvg: make([]avgJSON, 0, len(series.MovingAvg)),
	}
	for _, p := range series.Points {
		resp.Points = append(resp.Points, pointJSON{Ts: p.Ts, Price: p.Price, MarketCap: p.MarketCap, Volume: p.Volume})
	}
	for _, a := range series.MovingAvg {
		resp.MovingAvg = append(resp.MovingAvg, avgJSON{Ts: a.Ts, Avg: a.Avg})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	coinID := chi.URLParam(r, "coinID")
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sum, err := s.analysis.Summary(r.Context(), coinID, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryJSON(sum))
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	coins := splitCSV(r.URL.Query().Get("coins"))
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cmp, err := s.analysis.Compare(r.Context(), coins, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := compareJSON{Summaries: make(map[string]summaryJSON, len(cmp.Summaries)), Best: cmp.Best, Worst: cmp.Worst}
	for id, sum := range cmp.Summaries {
		resp.Summaries[id] = toSummaryJSON(sum)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeError(w, http.StatusNotImplemented, "collection is not enabled on this server")
		return
	}
	coinID := chi.URLParam(r, "coinID")
	from, to, err := s.parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	n, err := s.collector.CollectCoin(r.Context(), coinID, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coin_id": coinID, "written": n})
}

func (s *Server) parseRange(r *http.Request) (time.Time, time.Time, error) {
	from, err := parseTimeParam(r.URL.Query().Get("from"), s.defaults.From)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from parameter")
	}
	to, err := parseTimeParam(r.URL.Query().Get("to"), s.defaults.To)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to parameter")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to is before from")
	}
	return from, to, nil
}

func parseTimeParam(raw string, def time.Time) (time.Time, error) {
	if raw == "" {
		return def, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toSummaryJSON(s domain.Summary) summaryJSON {
	return summaryJSON{
		Mean:      s.Mean,
		StdDev:    s.StdDev,
		Min:       s.Min,
		Max:       s.Max,
		PctChange: s.PctChange,
		Points:    s.Points,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, application.ErrTransientFetch):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
