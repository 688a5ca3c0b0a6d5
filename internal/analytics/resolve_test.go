package analytics

import (
	"testing"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
)

var reference = time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC)

func assertRange(t *testing.T, got DateRange, start, end string) {
	t.Helper()
	if got.Start.Format(DateLayout) != start || got.End.Format(DateLayout) != end {
		t.Fatalf("expected %s..%s, got %s", start, end, got)
	}
}

func TestResolvePresets(t *testing.T) {
	cases := []struct {
		preset Preset
		start  string
		end    string
	}{
		{PresetToday, "2024-12-29", "2024-12-29"},
		{PresetYesterday, "2024-12-28", "2024-12-28"},
		{PresetThisWeek, "2024-12-29", "2024-12-29"},
		{PresetLast7Days, "2024-12-23", "2024-12-29"},
		{PresetThisMonth, "2024-12-01", "2024-12-29"},
		{PresetLast3Months, "2024-09-29", "2024-12-29"},
		{PresetThisYear, "2024-01-01", "2024-12-29"},
	}
	for _, tc := range cases {
		t.Run(string(tc.preset), func(t *testing.T) {
			assertRange(t, Resolve(PresetSelector(tc.preset), reference), tc.start, tc.end)
		})
	}
}

func TestResolveStartNeverAfterEnd(t *testing.T) {
	refs := []time.Time{
		reference,
		time.Date(2024, time.January, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2024, time.March, 31, 8, 0, 0, 0, time.UTC),
		time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC),
	}
	for _, ref := range refs {
		for _, p := range Presets {
			r := Resolve(PresetSelector(p), ref)
			if r.Start.After(r.End) {
				t.Fatalf("%s at %s resolved to inverted range %s", p, ref, r)
			}
		}
	}
}

func TestResolveLast7DaysSpansSixDays(t *testing.T) {
	r := Resolve(PresetSelector(PresetLast7Days), reference)
	if got := r.End.Sub(r.Start); got != 6*24*time.Hour {
		t.Fatalf("expected 6 day span, got %s", got)
	}
	if r.Days() != 7 {
		t.Fatalf("expected 7 inclusive days, got %d", r.Days())
	}
}

func TestResolveThisWeekMidweek(t *testing.T) {
	wednesday := time.Date(2024, time.December, 25, 15, 30, 0, 0, time.UTC)
	assertRange(t, Resolve(PresetSelector(PresetThisWeek), wednesday), "2024-12-22", "2024-12-25")
}

func TestResolveLast3MonthsOverflow(t *testing.T) {
	// Feb 31 rolls over to Mar 2 in a leap year.
	may31 := time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)
	assertRange(t, Resolve(PresetSelector(PresetLast3Months), may31), "2024-03-02", "2024-05-31")

	may31 = time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	assertRange(t, Resolve(PresetSelector(PresetLast3Months), may31), "2025-03-03", "2025-05-31")
}

func TestResolveTruncatesTimeOfDay(t *testing.T) {
	lateEvening := time.Date(2024, time.December, 29, 23, 45, 10, 0, time.UTC)
	r := Resolve(PresetSelector(PresetToday), lateEvening)
	if r.Start.Hour() != 0 || r.End.Minute() != 0 {
		t.Fatalf("expected midnight bounds, got %s", r)
	}
	assertRange(t, r, "2024-12-29", "2024-12-29")
}

func TestResolveUnknownFallsBackToLast7Days(t *testing.T) {
	for _, raw := range []Preset{"", "forever", "last-30-days"} {
		sel := PresetSelector(raw)
		assertRange(t, Resolve(sel, reference), "2024-12-23", "2024-12-29")
		if sel.Effective() != DefaultPreset {
			t.Fatalf("expected effective preset %s for %q, got %s", DefaultPreset, raw, sel.Effective())
		}
	}
	var zero RangeSelector
	assertRange(t, Resolve(zero, reference), "2024-12-23", "2024-12-29")
}

func TestResolveAliases(t *testing.T) {
	assertRange(t, Resolve(PresetSelector("thisWeek"), reference), "2024-12-29", "2024-12-29")
	assertRange(t, Resolve(PresetSelector("last3months"), reference), "2024-09-29", "2024-12-29")
	assertRange(t, Resolve(PresetSelector("THIS-YEAR"), reference), "2024-01-01", "2024-12-29")
}

func TestResolveCustom(t *testing.T) {
	start := time.Date(2024, time.December, 26, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 29, 18, 0, 0, 0, time.UTC)

	assertRange(t, Resolve(CustomSelector(&start, &end), reference), "2024-12-26", "2024-12-29")
	assertRange(t, Resolve(CustomSelector(&start, nil), reference), "2024-12-26", "2024-12-26")
	assertRange(t, Resolve(CustomSelector(&end, &start), reference), "2024-12-26", "2024-12-29")

	noStart := CustomSelector(nil, &end)
	assertRange(t, Resolve(noStart, reference), "2024-12-23", "2024-12-29")
	if noStart.Effective() != DefaultPreset {
		t.Fatalf("custom without start should report the default preset, got %s", noStart.Effective())
	}
	if sel := CustomSelector(&start, nil); sel.Effective() != PresetCustom || !sel.IsCustom() {
		t.Fatalf("expected custom selector, got %s", sel.Effective())
	}
}

func TestCustomSelectorCopiesBounds(t *testing.T) {
	start := time.Date(2024, time.December, 26, 0, 0, 0, 0, time.UTC)
	sel := CustomSelector(&start, nil)
	start = start.AddDate(0, 0, 1)
	assertRange(t, Resolve(sel, reference), "2024-12-26", "2024-12-26")
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("last7days", "", "")
	if err != nil || sel.Effective() != PresetLast7Days {
		t.Fatalf("expected alias to parse, got %s err=%v", sel.Effective(), err)
	}

	sel, err = ParseSelector("today", "2024-12-26", "2024-12-29")
	if err != nil {
		t.Fatalf("parse custom: %v", err)
	}
	assertRange(t, Resolve(sel, reference), "2024-12-26", "2024-12-29")

	sel, err = ParseSelector("", "", "2024-12-20")
	if err != nil {
		t.Fatalf("parse to-only: %v", err)
	}
	assertRange(t, Resolve(sel, reference), "2024-12-23", "2024-12-29")

	_, err = ParseSelector("", "26/12/2024", "")
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDateRangeContainsIgnoresTime(t *testing.T) {
	r := NewDateRange(time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 29, 0, 0, 0, 0, time.UTC))
	if !r.Contains(time.Date(2024, 12, 29, 23, 59, 59, 0, time.UTC)) {
		t.Fatal("last day should be included regardless of time")
	}
	if r.Contains(time.Date(2024, 12, 25, 23, 59, 59, 0, time.UTC)) || r.Contains(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatal("days outside the range must be excluded")
	}
	b, err := r.MarshalJSON()
	if err != nil || string(b) != `{"start":"2024-12-26","end":"2024-12-29","days":4}` {
		t.Fatalf("unexpected json %s err=%v", b, err)
	}
}
