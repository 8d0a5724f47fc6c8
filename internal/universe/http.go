package universe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// HTTPProvider fetches the symbol catalog from a JSON endpoint. The response
// is expected to be an array of objects each carrying a "symbol" field.
type HTTPProvider struct {
	URL    string
	Client *http.Client
	log    zerolog.Logger
}

// NewHTTPProvider creates a catalog client with optional proxy support.
func NewHTTPProvider(rawURL, proxyURL string, log zerolog.Logger) *HTTPProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPProvider{
		URL: rawURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		log: log.With().Str("component", "universe").Logger(),
	}
}

func (p *HTTPProvider) Name() string { return "http" }

func (p *HTTPProvider) Symbols(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch universe: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows []struct {
		Symbol string `json:"symbol"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode universe: %w", err)
	}

	symbols := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Symbol != "" {
			symbols = append(symbols, r.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, errors.New("universe endpoint returned no symbols")
	}
	p.log.Info().Int("count", len(symbols)).Msg("Universe fetched")
	return symbols, nil
}
