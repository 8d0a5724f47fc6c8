package universe

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Provider returns the ordered list of candidate symbols for a run.
type Provider interface {
	Symbols(ctx context.Context) ([]string, error)
	Name() string
}

// StaticProvider serves a fixed symbol list pinned in configuration.
type StaticProvider struct {
	symbols []string
}

// NewStaticProvider creates a provider over the given list.
func NewStaticProvider(symbols []string) *StaticProvider {
	return &StaticProvider{symbols: symbols}
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Symbols(_ context.Context) ([]string, error) {
	if len(p.symbols) == 0 {
		return nil, errors.New("static universe is empty")
	}
	out := make([]string, len(p.symbols))
	copy(out, p.symbols)
	return out, nil
}

// ChainProvider tries each source in order and returns the first success.
// The run only aborts when every source fails.
type ChainProvider struct {
	providers []Provider
	log       zerolog.Logger
}

// NewChainProvider creates a chain over the given sources.
func NewChainProvider(log zerolog.Logger, providers ...Provider) *ChainProvider {
	return &ChainProvider{
		providers: providers,
		log:       log.With().Str("component", "universe").Logger(),
	}
}

func (p *ChainProvider) Name() string { return "chain" }

func (p *ChainProvider) Symbols(ctx context.Context) ([]string, error) {
	var errs []error
	for _, prov := range p.providers {
		symbols, err := prov.Symbols(ctx)
		if err != nil {
			p.log.Warn().Err(err).Str("provider", prov.Name()).
				Msg("Universe source failed, trying next")
			errs = append(errs, fmt.Errorf("%s: %w", prov.Name(), err))
			continue
		}
		return symbols, nil
	}
	return nil, fmt.Errorf("all universe sources failed: %w", errors.Join(errs...))
}
