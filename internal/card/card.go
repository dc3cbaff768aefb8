// Package card builds the render-ready view model of a status card from a
// query result and the card's options. It is the single entry point a host
// calls per render cycle; drawing the card is left to the host.
package card

import (
	"fmt"
	"log/slog"

	"github.com/obsidianstack/statcard/internal/compute"
	"github.com/obsidianstack/statcard/internal/options"
	"github.com/obsidianstack/statcard/internal/selector"
	"github.com/obsidianstack/statcard/pkg/types"
)

// ViewModel is everything a renderer needs to draw one card.
type ViewModel struct {
	// Stats is nil when the result holds no usable numeric data.
	Stats    *compute.Stats   `json:"stats"`
	Analysis compute.Analysis `json:"analysis"`

	// AverageText is the average with two decimals, empty without data.
	AverageText string `json:"average_text,omitempty"`

	// SeriesCount is the number of series in the result, numeric or not.
	SeriesCount       int    `json:"series_count"`
	ShowSeriesCounter bool   `json:"show_series_counter"`
	DisplayText       string `json:"display_text"`
	HighlightColor    string `json:"highlight_color"`
	CompactMode       bool   `json:"compact_mode"`
}

// HasData reports whether the card carries statistics.
func (vm ViewModel) HasData() bool {
	return vm.Stats != nil
}

// SeriesCounterText is the counter line, or "" when the counter is hidden.
func (vm ViewModel) SeriesCounterText() string {
	if !vm.ShowSeriesCounter {
		return ""
	}
	return fmt.Sprintf("Number of series: %d", vm.SeriesCount)
}

// Build runs field selection, statistics and analysis over series and merges
// the result with opts. It never fails: missing data yields the NO_DATA card.
func Build(series []types.Series, opts options.Options) ViewModel {
	opts = opts.Normalized()
	vm := ViewModel{
		SeriesCount:       len(series),
		ShowSeriesCounter: opts.ShowSeriesCounter,
		DisplayText:       opts.DisplayText,
		HighlightColor:    opts.HighlightColor,
		CompactMode:       opts.CompactMode,
	}

	values, ok := selector.SelectNumericField(series)
	if !ok {
		slog.Debug("card: no numeric data", "series", len(series))
		vm.Analysis = compute.Analyze(nil, nil)
		return vm
	}

	st, ok := compute.ComputeStats(values)
	if !ok {
		vm.Analysis = compute.Analyze(nil, nil)
		return vm
	}

	vm.Stats = &st
	vm.Analysis = compute.Analyze(&st, values)
	vm.AverageText = fmt.Sprintf("%.2f", st.Average)
	return vm
}
