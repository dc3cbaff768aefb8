package compute

import "fmt"

// Label is the qualitative status of the card.
type Label string

// Status labels.
const (
	LabelNoData Label = "NO_DATA"
	LabelLow    Label = "LOW"
	LabelNormal Label = "NORMAL"
	LabelHigh   Label = "HIGH"
)

// Tone drives presentation styling independently of the label text.
type Tone string

// Status tones.
const (
	ToneNormal Tone = "normal"
	ToneLow    Tone = "low"
	ToneHigh   Tone = "high"
)

// Trend is the stability class derived from volatility.
type Trend string

// Trend classes.
const (
	TrendUnknown  Trend = "unknown"
	TrendStable   Trend = "stable"
	TrendModerate Trend = "moderate"
	TrendVolatile Trend = "volatile"
)

// Fixed policy constants.
const (
	LowThreshold       = 30.0
	HighThreshold      = 70.0
	ModerateVolatility = 20.0
	HighVolatility     = 40.0
	AnomalyOffset      = 25.0
)

// Fixed narrative strings.
const (
	StatusTextNoData = "No data"
	StatusTextLow    = "Average is below the normal range"
	StatusTextNormal = "Average is within the normal range"
	StatusTextHigh   = "Average is above the normal range"

	TrendTextUnknown  = "Trend: N/A"
	TrendTextStable   = "Trend: Stable"
	TrendTextModerate = "Trend: Moderate fluctuations"
	TrendTextVolatile = "Trend: Highly volatile"

	AnomaliesTextUnknown = "Anomalies: N/A"
	AnomaliesTextNone    = "Anomalies: none detected"
)

// Analysis is the qualitative classification of one Stats value.
type Analysis struct {
	StatusLabel   Label  `json:"status_label"`
	StatusTone    Tone   `json:"status_tone"`
	StatusText    string `json:"status_text"`
	Trend         Trend  `json:"trend"`
	TrendText     string `json:"trend_text"`
	AnomaliesText string `json:"anomalies_text"`
	AnomalyCount  int    `json:"anomaly_count"`

	// AnomalyThreshold is average + AnomalyOffset; zero on NO_DATA.
	AnomalyThreshold float64 `json:"anomaly_threshold"`
}

// op is a strict comparison against a band bound.
type op int

const (
	opBelow op = iota // v < bound
	opAbove           // v > bound
)

func (o op) holds(v, bound float64) bool {
	switch o {
	case opBelow:
		return v < bound
	case opAbove:
		return v > bound
	default:
		return false
	}
}

type statusBand struct {
	op    op
	bound float64
	label Label
	tone  Tone
	text  string
}

// statusBands are evaluated in order; NORMAL applies when none matches.
var statusBands = []statusBand{
	{op: opBelow, bound: LowThreshold, label: LabelLow, tone: ToneLow, text: StatusTextLow},
	{op: opAbove, bound: HighThreshold, label: LabelHigh, tone: ToneHigh, text: StatusTextHigh},
}

var statusDefault = statusBand{label: LabelNormal, tone: ToneNormal, text: StatusTextNormal}

type trendBand struct {
	op    op
	bound float64
	trend Trend
	text  string
}

// trendBands are evaluated in order; stable applies when none matches.
var trendBands = []trendBand{
	{op: opAbove, bound: HighVolatility, trend: TrendVolatile, text: TrendTextVolatile},
	{op: opAbove, bound: ModerateVolatility, trend: TrendModerate, text: TrendTextModerate},
}

var trendDefault = trendBand{trend: TrendStable, text: TrendTextStable}

// NoData is the Analysis for a card without usable data.
func NoData() Analysis {
	return Analysis{
		StatusLabel:   LabelNoData,
		StatusTone:    ToneNormal,
		StatusText:    StatusTextNoData,
		Trend:         TrendUnknown,
		TrendText:     TrendTextUnknown,
		AnomaliesText: AnomaliesTextUnknown,
	}
}

// Analyze classifies st and counts anomalies in values. A nil st yields
// NoData. The status, trend and anomaly results are independent of each other.
func Analyze(st *Stats, values []float64) Analysis {
	if st == nil {
		return NoData()
	}

	status := classifyStatus(st.Average)
	trend := classifyTrend(st.Volatility())
	threshold := st.Average + AnomalyOffset
	count := countAbove(values, threshold)

	return Analysis{
		StatusLabel:      status.label,
		StatusTone:       status.tone,
		StatusText:       status.text,
		Trend:            trend.trend,
		TrendText:        trend.text,
		AnomaliesText:    anomaliesText(count, threshold),
		AnomalyCount:     count,
		AnomalyThreshold: threshold,
	}
}

func classifyStatus(avg float64) statusBand {
	for _, b := range statusBands {
		if b.op.holds(avg, b.bound) {
			return b
		}
	}
	return statusDefault
}

func classifyTrend(volatility float64) trendBand {
	for _, b := range trendBands {
		if b.op.holds(volatility, b.bound) {
			return b
		}
	}
	return trendDefault
}

// countAbove counts values strictly greater than threshold.
func countAbove(values []float64, threshold float64) int {
	var n int
	for _, v := range values {
		if v > threshold {
			n++
		}
	}
	return n
}

func anomaliesText(count int, threshold float64) string {
	switch count {
	case 0:
		return AnomaliesTextNone
	case 1:
		return fmt.Sprintf("Anomalies: 1 value above %.2f", threshold)
	default:
		return fmt.Sprintf("Anomalies: %d values above %.2f", count, threshold)
	}
}
