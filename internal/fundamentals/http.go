package fundamentals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"StockScout/internal/model"
)

// companyPayload is the JSON shape served by the fundamentals API. Ratios the
// source could not compute arrive as null and leave the record incomplete.
type companyPayload struct {
	Symbol         string   `json:"symbol"`
	Sector         string   `json:"sector"`
	MarketCap      *float64 `json:"market_cap"`
	DebtToEquity   *float64 `json:"debt_to_equity"`
	ROCE           *float64 `json:"roce"`
	SalesGrowth5Y  *float64 `json:"sales_growth_5y"`
	ProfitGrowth5Y *float64 `json:"profit_growth_5y"`
}

// HTTPProvider fetches fundamentals from a company-data REST API. Requests
// are paced by a token bucket, and a circuit breaker stops hammering the
// source once it starts failing consistently.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// NewHTTPProvider creates a fundamentals client with optional proxy support.
// requestsPerSec bounds the call rate; non-positive values fall back to 4.
func NewHTTPProvider(baseURL, apiKey, proxyURL string, requestsPerSec float64, log zerolog.Logger) *HTTPProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 4
	}

	componentLog := log.With().Str("component", "fundamentals").Logger()
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "fundamentals",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     120 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			componentLog.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Fundamentals circuit state changed")
		},
	})

	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		breaker: breaker,
		log:     componentLog,
	}
}

func (p *HTTPProvider) Name() string { return "http" }

// Fetch retrieves one company's record. Transport and API errors are
// returned so the caller can drop the symbol; missing ratios only mark the
// record incomplete.
func (p *HTTPProvider) Fetch(ctx context.Context, symbol string) (model.FundamentalsRecord, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return model.FundamentalsRecord{}, fmt.Errorf("limiter wait: %w", err)
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetchCompany(ctx, symbol)
	})
	if err != nil {
		return model.FundamentalsRecord{}, err
	}
	return toRecord(symbol, result.(*companyPayload)), nil
}

func (p *HTTPProvider) fetchCompany(ctx context.Context, symbol string) (*companyPayload, error) {
	endpoint := fmt.Sprintf("%s/api/company/%s", p.BaseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fundamentals: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch fundamentals: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload companyPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode fundamentals: %w", err)
	}
	return &payload, nil
}

func toRecord(symbol string, p *companyPayload) model.FundamentalsRecord {
	rec := model.FundamentalsRecord{
		Symbol: symbol,
		Sector: p.Sector,
		Complete: p.MarketCap != nil && p.DebtToEquity != nil && p.ROCE != nil &&
			p.SalesGrowth5Y != nil && p.ProfitGrowth5Y != nil,
	}
	if p.MarketCap != nil {
		rec.MarketCap = *p.MarketCap
	}
	if p.DebtToEquity != nil {
		rec.DebtToEquity = *p.DebtToEquity
	}
	if p.ROCE != nil {
		rec.ROCE = *p.ROCE
	}
	if p.SalesGrowth5Y != nil {
		rec.SalesGrowth5Y = *p.SalesGrowth5Y
	}
	if p.ProfitGrowth5Y != nil {
		rec.ProfitGrowth5Y = *p.ProfitGrowth5Y
	}
	return rec
}
