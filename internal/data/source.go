package data

import (
	"context"
	"time"

	"services/backtest-service/internal/model"
)

// BarSource supplies an ordered, date-ascending sequence of daily closing
// prices for a symbol. Fetching from an actual market-data provider lives
// behind this boundary and outside this service.
type BarSource interface {
	Bars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
}

// SliceSource serves bars already held in memory, filtered to the requested
// range. The backing slice must be sorted ascending by date.
type SliceSource struct {
	bars []model.PriceBar
}

// NewSliceSource wraps a pre-sorted bar slice.
func NewSliceSource(bars []model.PriceBar) *SliceSource {
	return &SliceSource{bars: bars}
}

// Bars returns the bars whose dates fall inside [start, end]. A zero start or
// end leaves that side of the range unbounded.
func (s *SliceSource) Bars(_ context.Context, _ string, start, end time.Time) ([]model.PriceBar, error) {
	var out []model.PriceBar
	for _, b := range s.bars {
		if !start.IsZero() && b.Date.Before(start) {
			continue
		}
		if !end.IsZero() && b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
