// Package tables loads YAML overrides of the engine's constant tables.
package tables

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"tweet-score-service/internal/domain"
)

// Overlay is the YAML shape of a tables file. Lists replace the built-in
// list, maps are merged key by key, and absent fields keep their default.
type Overlay struct {
	ActionWeights      map[string]float64 `yaml:"action_weights"`
	SpamKeywords       []string           `yaml:"spam_keywords"`
	CTAPhrases         []string           `yaml:"cta_phrases"`
	ThreadMarkers      []string           `yaml:"thread_markers"`
	CommonWords        []string           `yaml:"common_words"`
	KeyboardPatterns   []string           `yaml:"keyboard_patterns"`
	PlatformDomains    []string           `yaml:"platform_domains"`
	HourMultipliers    []float64          `yaml:"hour_multipliers"`
	DayMultipliers     []float64          `yaml:"day_multipliers"` // Monday first
	ContentMultipliers map[string]float64 `yaml:"content_multipliers"`
	MarketMultipliers  map[string]float64 `yaml:"market_multipliers"`
	HighValueNiches    []string           `yaml:"high_value_niches"`
	MediumValueNiches  []string           `yaml:"medium_value_niches"`

	ProfessionalKeywords []string `yaml:"professional_keywords"`
	CasualKeywords       []string `yaml:"casual_keywords"`
	ProvocativeKeywords  []string `yaml:"provocative_keywords"`

	OptimizerCTAs   []string `yaml:"optimizer_ctas"`
	LinkPlaceholder string   `yaml:"link_placeholder"`
}

// Load returns the default tables with the overlay at path applied.
// An empty path returns the defaults.
func Load(path string) (*domain.Tables, error) {
	t := domain.DefaultTables()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tables file: %w", err)
	}

	overlay, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing tables file %s: %w", path, err)
	}

	if err := overlay.Apply(t); err != nil {
		return nil, fmt.Errorf("applying tables file %s: %w", path, err)
	}

	return t, nil
}

// Parse decodes an overlay, rejecting unknown keys.
func Parse(data []byte) (*Overlay, error) {
	var o Overlay

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return &o, nil
}

// Apply writes the overlay onto t. t is left untouched when the overlay is invalid.
func (o *Overlay) Apply(t *domain.Tables) error {
	if err := o.validate(); err != nil {
		return err
	}

	for name, w := range o.ActionWeights {
		t.ActionWeights[domain.Action(name)] = w
	}
	for name, m := range o.ContentMultipliers {
		t.ContentMultipliers[domain.ContentType(name)] = m
	}
	for market, m := range o.MarketMultipliers {
		t.MarketMultipliers[strings.ToUpper(market)] = m
	}
	if len(o.HourMultipliers) > 0 {
		copy(t.HourMultipliers[:], o.HourMultipliers)
	}
	if len(o.DayMultipliers) > 0 {
		copy(t.DayMultipliers[:], o.DayMultipliers)
	}
	if len(o.CommonWords) > 0 {
		t.CommonWords = make(map[string]struct{}, len(o.CommonWords))
		for _, w := range o.CommonWords {
			t.CommonWords[strings.ToLower(w)] = struct{}{}
		}
	}

	replace(&t.SpamKeywords, lower(o.SpamKeywords))
	replace(&t.CTAPhrases, lower(o.CTAPhrases))
	replace(&t.ThreadMarkers, lower(o.ThreadMarkers))
	replace(&t.KeyboardPatterns, lower(o.KeyboardPatterns))
	replace(&t.PlatformDomains, lower(o.PlatformDomains))
	replace(&t.HighValueNiches, lower(o.HighValueNiches))
	replace(&t.MediumValueNiches, lower(o.MediumValueNiches))
	replace(&t.ProfessionalKeywords, lower(o.ProfessionalKeywords))
	replace(&t.CasualKeywords, lower(o.CasualKeywords))
	replace(&t.ProvocativeKeywords, lower(o.ProvocativeKeywords))
	replace(&t.OptimizerCTAs, o.OptimizerCTAs)

	if o.LinkPlaceholder != "" {
		t.LinkPlaceholder = o.LinkPlaceholder
	}

	return nil
}

func (o *Overlay) validate() error {
	var errs []error

	known := slices.Concat(domain.PositiveActions, domain.NegativeActions)
	for name := range o.ActionWeights {
		if !slices.Contains(known, domain.Action(name)) {
			errs = append(errs, fmt.Errorf("unknown action %q", name))
		}
	}
	for name, m := range o.ContentMultipliers {
		if !slices.Contains(domain.ContentTypes(), domain.ContentType(name)) {
			errs = append(errs, fmt.Errorf("unknown content type %q", name))
		}
		if m <= 0 {
			errs = append(errs, fmt.Errorf("content multiplier %q must be positive", name))
		}
	}
	for market, m := range o.MarketMultipliers {
		if m <= 0 {
			errs = append(errs, fmt.Errorf("market multiplier %q must be positive", market))
		}
	}
	if n := len(o.HourMultipliers); n != 0 && n != 24 {
		errs = append(errs, fmt.Errorf("hour_multipliers needs 24 values, got %d", n))
	}
	if n := len(o.DayMultipliers); n != 0 && n != 7 {
		errs = append(errs, fmt.Errorf("day_multipliers needs 7 values, got %d", n))
	}
	for _, m := range slices.Concat(o.HourMultipliers, o.DayMultipliers) {
		if m < 0 {
			errs = append(errs, fmt.Errorf("timing multipliers must not be negative"))
			break
		}
	}

	return errors.Join(errs...)
}

func replace(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = src
	}
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}

	return out
}
