package fundamentals

import (
	"context"
	"fmt"

	"StockScout/internal/model"
)

// Provider returns screening ratios and a sector label for one symbol.
// "Unavailable" is an error; a reachable source with missing ratios instead
// returns a record marked incomplete.
type Provider interface {
	Fetch(ctx context.Context, symbol string) (model.FundamentalsRecord, error)
	Name() string
}

// StaticProvider serves records from a fixed map, for development runs
// without a fundamentals API.
type StaticProvider struct {
	Records map[string]model.FundamentalsRecord
}

// NewStaticProvider creates a provider over the given records.
func NewStaticProvider(records map[string]model.FundamentalsRecord) *StaticProvider {
	return &StaticProvider{Records: records}
}

func (p *StaticProvider) Name() string { return "static" }

func (p *StaticProvider) Fetch(_ context.Context, symbol string) (model.FundamentalsRecord, error) {
	rec, ok := p.Records[symbol]
	if !ok {
		return model.FundamentalsRecord{}, fmt.Errorf("no fundamentals for %s", symbol)
	}
	return rec, nil
}
