package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/obsidianstack/statcard/internal/compute"
	"github.com/obsidianstack/statcard/internal/options"
)

// Colours of the notification accent, by card tone.
const (
	colorHigh     = "#EF4444"
	colorLow      = "#F59E0B"
	colorResolved = "#22C55E"
)

// sender posts one alert to one webhook URL.
type sender func(e *Engine, url string, a *Alert) error

var senders = map[string]sender{
	"slack": (*Engine).sendSlack,
	"teams": (*Engine).sendTeams,
	"http":  (*Engine).sendHTTP,
}

// deliver posts a to every configured webhook. Failures are logged only.
func (e *Engine) deliver(a *Alert) {
	for _, wh := range e.webhooks {
		url := wh.URL()
		if url == "" {
			continue
		}
		send, ok := senders[wh.Type]
		if !ok {
			slog.Warn("alerts: unknown webhook type, skipping", "type", wh.Type)
			continue
		}
		if err := send(e, url, a); err != nil {
			slog.Error("alerts: webhook delivery failed", "type", wh.Type, "rule", a.RuleName, "err", err)
			continue
		}
		slog.Debug("alerts: webhook delivered", "type", wh.Type, "rule", a.RuleName, "state", a.State)
	}
}

// sendSlack posts a legacy attachment: coloured bar, headline, card facts.
func (e *Engine) sendSlack(url string, a *Alert) error {
	fields := make([]map[string]any, 0, len(cardFacts(a)))
	for _, f := range cardFacts(a) {
		fields = append(fields, map[string]any{"title": f.name, "value": f.value, "short": true})
	}
	return e.postJSON(url, map[string]any{
		"attachments": []map[string]any{{
			"color":    accentColor(a),
			"fallback": headline(a),
			"title":    headline(a),
			"text":     a.Message,
			"fields":   fields,
		}},
	})
}

// sendTeams posts an Office 365 connector card with the card facts.
func (e *Engine) sendTeams(url string, a *Alert) error {
	facts := make([]map[string]string, 0, len(cardFacts(a)))
	for _, f := range cardFacts(a) {
		facts = append(facts, map[string]string{"name": f.name, "value": f.value})
	}
	return e.postJSON(url, map[string]any{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": accentColor(a)[1:],
		"summary":    headline(a),
		"title":      headline(a),
		"text":       a.Message,
		"sections":   []map[string]any{{"facts": facts}},
	})
}

// sendHTTP posts the alert as is.
func (e *Engine) sendHTTP(url string, a *Alert) error {
	return e.postJSON(url, map[string]any{"alert": a})
}

func (e *Engine) postJSON(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

type fact struct{ name, value string }

// cardFacts lists the card state shown in chat notifications.
func cardFacts(a *Alert) []fact {
	avg := "n/a"
	if a.Average != nil {
		avg = strconv.FormatFloat(*a.Average, 'f', 2, 64)
	}
	return []fact{
		{"Status", string(a.Status)},
		{"Average", avg},
		{"Anomalies", strconv.Itoa(a.AnomalyCount)},
		{"Severity", a.Severity},
	}
}

// headline reads like "[CRITICAL] FIRING hot on cpu".
func headline(a *Alert) string {
	state := "FIRING"
	if a.State == StateResolved {
		state = "RESOLVED"
	}
	return fmt.Sprintf("%s %s %s on %s", severityLabel(a.Severity), state, a.RuleName, a.PanelID)
}

// accentColor follows the card: red when high, amber when low, the card's
// highlight colour otherwise, green once resolved.
func accentColor(a *Alert) string {
	if a.State == StateResolved {
		return colorResolved
	}
	switch a.Tone {
	case compute.ToneHigh:
		return colorHigh
	case compute.ToneLow:
		return colorLow
	}
	if len(a.HighlightColor) == 7 && a.HighlightColor[0] == '#' {
		return a.HighlightColor
	}
	return options.ThemePrimary
}

func severityLabel(s string) string {
	switch s {
	case "critical":
		return "[CRITICAL]"
	case "warning":
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}
