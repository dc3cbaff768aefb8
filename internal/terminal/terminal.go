// Package terminal renders a card view model as a text table, for previewing
// cards from the command line.
package terminal

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/obsidianstack/statcard/internal/card"
	"github.com/obsidianstack/statcard/internal/compute"
)

// numberFormat is the humanize pattern used for every statistic.
const numberFormat = "#,###.##"

// RenderOptions controls terminal output.
type RenderOptions struct {
	// NoColor disables ANSI colouring of the status line.
	NoColor bool
}

// Render writes vm to w as a table. Compact cards omit the trend, anomaly
// and text rows.
func Render(w io.Writer, vm card.ViewModel, opts RenderOptions) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle(statusLine(vm.Analysis, opts))

	if vm.HasData() {
		st := vm.Stats
		t.AppendRow(table.Row{"Average", formatNumber(st.Average)})
		t.AppendRow(table.Row{"Current", formatNumber(st.Current)})
		t.AppendRow(table.Row{"Min", formatNumber(st.Minimum)})
		t.AppendRow(table.Row{"Max", formatNumber(st.Maximum)})
		t.AppendRow(table.Row{"Samples", humanize.Comma(int64(st.Count))})
	}

	if !vm.CompactMode {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Trend", vm.Analysis.TrendText})
		t.AppendRow(table.Row{"Anomalies", vm.Analysis.AnomaliesText})
		if vm.ShowSeriesCounter {
			t.AppendRow(table.Row{"Series", vm.SeriesCount})
		}
		t.AppendRow(table.Row{"Text", vm.DisplayText})
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("terminal: write: %w", err)
	}
	return nil
}

// statusLine is the "LABEL · text" title, coloured by tone.
func statusLine(a compute.Analysis, opts RenderOptions) string {
	line := fmt.Sprintf("%s · %s", a.StatusLabel, a.StatusText)
	c := toneColor(a.StatusTone)
	if opts.NoColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.Sprint(line)
}

func toneColor(tone compute.Tone) *color.Color {
	switch tone {
	case compute.ToneLow:
		return color.New(color.FgCyan, color.Bold)
	case compute.ToneHigh:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func formatNumber(v float64) string {
	return humanize.FormatFloat(numberFormat, v)
}
