package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/obsidianstack/statcard/internal/card"
	"github.com/obsidianstack/statcard/internal/compute"
	"github.com/obsidianstack/statcard/server/internal/config"
)

const (
	defaultCooldown   = 15 * time.Minute
	defaultSeverity   = "warning"
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert states.
const (
	StateFiring   = "firing"
	StateResolved = "resolved"
)

// Alert represents a single alert event produced by the rule engine,
// together with the card state that triggered it.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Condition  string     `json:"condition"`
	PanelID    string     `json:"panel_id"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"`

	Status         compute.Label `json:"status"`
	Tone           compute.Tone  `json:"tone"`
	Average        *float64      `json:"average,omitempty"`
	AnomalyCount   int           `json:"anomaly_count"`
	HighlightColor string        `json:"highlight_color"`
}

// alertKey identifies one rule on one panel.
type alertKey struct {
	rule  string
	panel string
}

// Engine evaluates alert rules against rendered cards and delivers webhook
// notifications when rules fire or resolve. A rule that fires again within
// its cooldown is still reported by Active, but not notified.
//
// Engine is safe for concurrent use. A nil *Engine has no rules.
type Engine struct {
	rules    []config.AlertRule
	webhooks []config.WebhookConfig

	mu       sync.Mutex
	active   map[alertKey]*Alert
	lastSent map[alertKey]time.Time // last notification per rule and panel
	history  []*Alert               // recently resolved alerts
	client   *http.Client
	now      func() time.Time
	notify   func(*Alert) // run on its own goroutine
}

// New creates an Engine from the alert configuration. It fails when a rule
// condition cannot be parsed. An Engine with no rules is valid and Evaluate
// becomes a no-op.
func New(cfg config.AlertsConfig) (*Engine, error) {
	for _, r := range cfg.Rules {
		if err := ValidateCondition(r.Condition); err != nil {
			return nil, fmt.Errorf("alerts: rule %q: %w", r.Name, err)
		}
	}
	e := &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[alertKey]*Alert),
		lastSent: make(map[alertKey]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
	e.notify = e.deliver
	return e, nil
}

// Evaluate tests all configured rules against the card of panelID.
// Rules whose condition holds are firing; firing alerts whose condition no
// longer holds are resolved. Notifications go out asynchronously.
func (e *Engine) Evaluate(panelID string, vm card.ViewModel) {
	if e == nil || len(e.rules) == 0 {
		return
	}

	for _, rule := range e.rules {
		var out *Alert
		if fires, value := evalCondition(rule.Condition, vm); fires {
			out = e.fire(rule, panelID, vm, value)
		} else {
			out = e.resolve(alertKey{rule: rule.Name, panel: panelID}, vm)
		}
		if out != nil {
			go e.notify(out)
		}
	}
}

// fire records rule as firing on panelID, or refreshes the alert already
// firing. It returns a copy to notify when the rule's cooldown has elapsed,
// otherwise nil.
func (e *Engine) fire(rule config.AlertRule, panelID string, vm card.ViewModel, value float64) *Alert {
	k := alertKey{rule: rule.Name, panel: panelID}
	now := e.now()

	e.mu.Lock()
	defer e.mu.Unlock()

	a, firing := e.active[k]
	if !firing {
		sev := rule.Severity
		if sev == "" {
			sev = defaultSeverity
		}
		a = &Alert{
			ID:        uuid.NewString(),
			RuleName:  rule.Name,
			Condition: rule.Condition,
			PanelID:   panelID,
			Severity:  sev,
			FiredAt:   now,
			State:     StateFiring,
		}
		e.active[k] = a
		slog.Warn("alert fired", "rule", rule.Name, "panel", panelID, "value", value, "severity", sev)
	}
	a.Value = value
	a.Message = fmt.Sprintf("%s on %s: %s (value %.2f)", rule.Name, panelID, rule.Condition, value)
	a.observe(vm)

	cooldown := rule.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	if last, ok := e.lastSent[k]; ok && now.Sub(last) <= cooldown {
		if !firing {
			slog.Debug("alerts: notification suppressed by cooldown", "rule", rule.Name, "panel", panelID)
		}
		return nil
	}
	e.lastSent[k] = now
	cp := *a
	return &cp
}

// resolve moves the firing alert under k to history. It returns a copy to
// notify, or nil when nothing was firing.
func (e *Engine) resolve(k alertKey, vm card.ViewModel) *Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.active[k]
	if !ok {
		return nil
	}
	resolved := e.now()
	a.State = StateResolved
	a.ResolvedAt = &resolved
	a.observe(vm)
	delete(e.active, k)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}

	slog.Info("alert resolved", "rule", a.RuleName, "panel", a.PanelID)
	cp := *a
	return &cp
}

// observe copies the card state into a.
func (a *Alert) observe(vm card.ViewModel) {
	a.Status = vm.Analysis.StatusLabel
	a.Tone = vm.Analysis.StatusTone
	a.AnomalyCount = vm.Analysis.AnomalyCount
	a.HighlightColor = vm.HighlightColor
	a.Average = nil
	if vm.HasData() {
		avg := vm.Stats.Average
		a.Average = &avg
	}
}

// Forget drops the firing alerts and cooldowns of panelID without
// notifying, for panels that expired from the store.
func (e *Engine) Forget(panelID string) {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for k := range e.active {
		if k.panel == panelID {
			delete(e.active, k)
		}
	}
	for k := range e.lastSent {
		if k.panel == panelID {
			delete(e.lastSent, k)
		}
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour, sorted newest first.
func (e *Engine) Active() []*Alert {
	if e == nil {
		return []*Alert{}
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out
}
