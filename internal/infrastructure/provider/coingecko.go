package provider

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"cryptoprices-service/internal/application"
	"cryptoprices-service/internal/domain"
	"cryptoprices-service/internal/infrastructure/httpx"
)

const (
	marketChartRangePath = "/coins/%s/market_chart/range"
	coinsListPath        = "/coins/list"

	// Demo-tier key header, per CoinGecko docs.
	apiKeyHeader = "x-cg-demo-api-key"
)

type CoinGeckoProvider struct {
	BaseURL    string
	VsCurrency string
	Client     *httpx.Client

	// MinRequestInterval spaces out calls to stay inside the provider's
	// request budget. Zero disables the gate.
	MinRequestInterval time.Duration

	mu   sync.Mutex
	last time.Time

	coinsMu sync.Mutex
	coins   map[string]string // lowercase name -> id
}

var _ application.PriceProvider = (*CoinGeckoProvider)(nil)

// market_chart/range returns parallel [ms-timestamp, value] arrays.
type cgRangeResp struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

type cgCoin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func (p *CoinGeckoProvider) FetchRange(ctx context.Context, coinID string, from, to time.Time) ([]domain.PricePoint, error) {
	if p.BaseURL == "" {
		return nil, fmt.Errorf("%w: coingecko: missing base url", application.ErrInvalidRequest)
	}
	if !domain.ValidateCoinID(coinID) {
		return nil, fmt.Errorf("%w: coingecko: bad coin id %q", application.ErrInvalidRequest, coinID)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: coingecko: range end before start", application.ErrInvalidRequest)
	}

	u, err := p.endpoint(fmt.Sprintf(marketChartRangePath, url.PathEscape(coinID)))
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("vs_currency", p.vsCurrency())
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))
	u.RawQuery = q.Encode()

	if err := p.waitTurn(ctx); err != nil {
		return nil, err
	}
	var body cgRangeResp
	if err := p.client().GetJSON(ctx, u.String(), &body); err != nil {
		return nil, fmt.Errorf("coingecko: %s: %w", coinID, err)
	}

	return mapRange(coinID, body)
}

// ResolveCoinID maps a human coin name ("Bitcoin") to its CoinGecko id
// ("bitcoin"). Only a successful coin list is memoized; a failed fetch
// is retried on the next call.
func (p *CoinGeckoProvider) ResolveCoinID(ctx context.Context, name string) (string, error) {
	coins, err := p.coinList(ctx)
	if err != nil {
		return "", err
	}
	id, ok := coins[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("%w: unknown coin %q", application.ErrInvalidRequest, name)
	}
	return id, nil
}

func (p *CoinGeckoProvider) coinList(ctx context.Context) (map[string]string, error) {
	p.coinsMu.Lock()
	defer p.coinsMu.Unlock()
	if p.coins != nil {
		return p.coins, nil
	}

	u, err := p.endpoint(coinsListPath)
	if err != nil {
		return nil, err
	}
	if err := p.waitTurn(ctx); err != nil {
		return nil, err
	}
	var list []cgCoin
	if err := p.client().GetJSON(ctx, u.String(), &list); err != nil {
		return nil, fmt.Errorf("coingecko: coins list: %w", err)
	}
	coins := make(map[string]string, len(list))
	for _, c := range list {
		coins[strings.ToLower(c.Name)] = c.ID
	}
	p.coins = coins
	return coins, nil
}

func (p *CoinGeckoProvider) endpoint(path string) (*url.URL, error) {
	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: coingecko: invalid base url: %v", application.ErrInvalidRequest, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u, nil
}

func (p *CoinGeckoProvider) client() *httpx.Client {
	if p.Client != nil {
		return p.Client
	}
	return &httpx.Client{}
}

func (p *CoinGeckoProvider) vsCurrency() string {
	if p.VsCurrency != "" {
		return p.VsCurrency
	}
	return "usd"
}

// waitTurn blocks until the request budget allows another call.
func (p *CoinGeckoProvider) waitTurn(ctx context.Context) error {
	if p.MinRequestInterval <= 0 {
		return nil
	}
	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.MinRequestInterval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", application.ErrTransientFetch, ctx.Err())
	case <-t.C:
		return nil
	}
}

func mapRange(coinID string, body cgRangeResp) ([]domain.PricePoint, error) {
	n := len(body.Prices)
	if (len(body.MarketCaps) != 0 && len(body.MarketCaps) != n) ||
		(len(body.TotalVolumes) != 0 && len(body.TotalVolumes) != n) {
		return nil, fmt.Errorf("%w: coingecko: mismatched series lengths", application.ErrParse)
	}

	pts := make([]domain.PricePoint, 0, n)
	for i, pv := range body.Prices {
		price := pv[1]
		if price < 0 {
			return nil, fmt.Errorf("%w: coingecko: negative price at index %d", application.ErrParse, i)
		}
		pt := domain.PricePoint{
			CoinID: coinID,
			Ts:     time.UnixMilli(int64(pv[0])).UTC(),
			Price:  price,
		}
		if len(body.MarketCaps) == n {
			pt.MarketCap = body.MarketCaps[i][1]
		}
		if len(body.TotalVolumes) == n {
			pt.Volume = body.TotalVolumes[i][1]
		}
		pts = append(pts, pt)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].Ts.Before(pts[j].Ts) })
	return pts, nil
}
