package options

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values applied when keys are absent from the options file.
const (
	DefaultDisplayText       = "Default value of text input option"
	DefaultShowSeriesCounter = true
	DefaultCompactMode       = false

	// ThemePrimary is the theme's primary accent colour, used when no
	// highlight colour is configured.
	ThemePrimary = "#3B82F6"
)

// Options is the user configuration of one status card.
type Options struct {
	// DisplayText is shown verbatim in the card footer.
	DisplayText string `yaml:"display_text" json:"display_text"`

	// ShowSeriesCounter toggles the "Number of series" line.
	ShowSeriesCounter bool `yaml:"show_series_counter" json:"show_series_counter"`

	// HighlightColor is the accent colour of the indicator circle.
	HighlightColor string `yaml:"highlight_color" json:"highlight_color"`

	// CompactMode selects the denser layout that hides detail rows.
	CompactMode bool `yaml:"compact_mode" json:"compact_mode"`
}

// Defaults returns Options with every documented default applied.
func Defaults() Options {
	return Options{
		DisplayText:       DefaultDisplayText,
		ShowSeriesCounter: DefaultShowSeriesCounter,
		HighlightColor:    ThemePrimary,
		CompactMode:       DefaultCompactMode,
	}
}

// Normalized returns o with an empty highlight colour replaced by the theme
// primary.
func (o Options) Normalized() Options {
	if o.HighlightColor == "" {
		o.HighlightColor = ThemePrimary
	}
	return o
}

// Parse decodes a YAML options document on top of Defaults.
// An empty document yields Defaults.
func Parse(data []byte) (Options, error) {
	opts := Defaults()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("options: parse yaml: %w", err)
	}
	return opts.Normalized(), nil
}

// Load reads and parses the YAML options file at path.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("options: read file: %w", err)
	}
	return Parse(data)
}
