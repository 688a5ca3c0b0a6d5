package analytics

import (
	"strings"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
)

// Preset is a named range relative to the reference day.
type Preset string

const (
	PresetToday       Preset = "today"
	PresetYesterday   Preset = "yesterday"
	PresetThisWeek    Preset = "this-week"
	PresetLast7Days   Preset = "last-7-days"
	PresetThisMonth   Preset = "this-month"
	PresetLast3Months Preset = "last-3-months"
	PresetThisYear    Preset = "this-year"

	DefaultPreset = PresetLast7Days
)

// Presets lists the known keywords in the order the dashboard shows them.
var Presets = []Preset{
	PresetToday,
	PresetYesterday,
	PresetThisWeek,
	PresetLast7Days,
	PresetThisMonth,
	PresetLast3Months,
	PresetThisYear,
}

// presetAliases maps lower-cased inputs, including the camel-case keywords the
// dashboard used to send, onto canonical presets.
var presetAliases = map[string]Preset{
	"today":         PresetToday,
	"yesterday":     PresetYesterday,
	"this-week":     PresetThisWeek,
	"thisweek":      PresetThisWeek,
	"last-7-days":   PresetLast7Days,
	"last7days":     PresetLast7Days,
	"this-month":    PresetThisMonth,
	"thismonth":     PresetThisMonth,
	"last-3-months": PresetLast3Months,
	"last3months":   PresetLast3Months,
	"this-year":     PresetThisYear,
	"thisyear":      PresetThisYear,
}

// IsKnown reports whether p is one of the canonical presets.
func (p Preset) IsKnown() bool {
	for _, candidate := range Presets {
		if candidate == p {
			return true
		}
	}
	return false
}

// NormalizePreset maps aliases onto canonical keywords. Unknown input is
// returned unchanged so Resolve can apply its fallback.
func NormalizePreset(value string) Preset {
	key := strings.ToLower(strings.TrimSpace(value))
	if p, ok := presetAliases[key]; ok {
		return p
	}
	return Preset(strings.TrimSpace(value))
}

// RangeSelector is either a preset keyword or a custom range with optional
// bounds. The zero value selects DefaultPreset.
type RangeSelector struct {
	preset Preset
	custom bool
	start  *time.Time
	end    *time.Time
}

// PresetSelector selects a keyword; aliases are normalised here.
func PresetSelector(p Preset) RangeSelector {
	return RangeSelector{preset: NormalizePreset(string(p))}
}

// CustomSelector builds an explicit range; a nil end means a single day.
func CustomSelector(start, end *time.Time) RangeSelector {
	return RangeSelector{custom: true, start: copyTime(start), end: copyTime(end)}
}

func (s RangeSelector) IsCustom() bool {
	return s.custom
}

// PresetCustom labels selectors resolved from explicit bounds.
const PresetCustom Preset = "custom"

// Effective reports the keyword Resolve will apply, after fallbacks.
func (s RangeSelector) Effective() Preset {
	if s.custom && s.start != nil {
		return PresetCustom
	}
	if s.preset.IsKnown() {
		return s.preset
	}
	return DefaultPreset
}

// ParseSelector reads query parameters. from/to (YYYY-MM-DD) take precedence
// over preset; a malformed date is a validation error.
func ParseSelector(preset, from, to string) (RangeSelector, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return PresetSelector(Preset(preset)), nil
	}

	start, err := parseDay("from", from)
	if err != nil {
		return RangeSelector{}, err
	}
	end, err := parseDay("to", to)
	if err != nil {
		return RangeSelector{}, err
	}
	return CustomSelector(start, end), nil
}

func parseDay(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field+" date").
			WithDetails(map[string]string{"field": field, "expected": DateLayout})
	}
	return &t, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
