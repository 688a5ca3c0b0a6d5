package analytics

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/google/uuid"
)

type failingProvider struct {
	FixtureProvider
}

func (failingProvider) DealPerformance(context.Context, uuid.UUID, DateRange) ([]DealPerformance, error) {
	return nil, errors.New("warehouse offline")
}

func newTestService(t *testing.T, provider Provider) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Provider: provider, ReferenceDay: reference})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func customQuery(start, end time.Time) Query {
	return Query{Selector: CustomSelector(&start, &end)}
}

func TestOverviewCustomRange(t *testing.T) {
	svc := newTestService(t, NewFixtureProvider())

	out, err := svc.Overview(context.Background(), uuid.New(), customQuery(day(2024, 12, 26), day(2024, 12, 29)))
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out.Series) != 4 || out.Series[0].Date != "2024-12-26" || out.Series[3].Label != "Dec 29" {
		t.Fatalf("unexpected series %+v", out.Series)
	}
	if out.Cards[0].Value != 183800 || out.Cards[0].Display != "LKR 183,800" {
		t.Fatalf("unexpected earnings card %+v", out.Cards[0])
	}
	if out.Cards[1].Value != 38+41+47+40 || out.Cards[2].Value != 53+58+63+55 {
		t.Fatalf("unexpected count cards %+v", out.Cards)
	}
	if out.Preset != PresetCustom {
		t.Fatalf("expected custom preset, got %s", out.Preset)
	}

	wantTop := []string{"Weekend Brunch Buffet", "Sunset seafood buffet", "Seafood Platter for Two"}
	if len(out.TopDeals) != len(wantTop) {
		t.Fatalf("expected %d top deals, got %d", len(wantTop), len(out.TopDeals))
	}
	for i, name := range wantTop {
		if out.TopDeals[i].Name != name {
			t.Fatalf("top deal %d: expected %q, got %q", i, name, out.TopDeals[i].Name)
		}
	}
}

func TestOverviewTodayUsesReferenceDay(t *testing.T) {
	svc := newTestService(t, NewFixtureProvider())
	out, err := svc.Overview(context.Background(), uuid.New(), Query{Selector: PresetSelector(PresetToday)})
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out.Series) != 1 || out.Cards[0].Value != 44000 {
		t.Fatalf("expected only Dec 29, got %+v", out.Series)
	}
}

func TestTopDealsFoldsRepeatedDeals(t *testing.T) {
	rows := topDeals(FixtureDealPerformance(), 1)
	if len(rows) != 1 || rows[0].Name != "Weekend Brunch Buffet" {
		t.Fatalf("unexpected top deal %+v", rows)
	}
	if rows[0].Earnings != 288000+314400 || rows[0].Date != "2024-12-28" {
		t.Fatalf("expected folded totals and latest date, got %+v", rows[0])
	}
}

func TestAnalyticsSearchAndLimit(t *testing.T) {
	svc := newTestService(t, NewFixtureProvider())
	q := Query{Selector: PresetSelector(PresetThisMonth), Search: "Seafood", Limit: 2}

	out, err := svc.Analytics(context.Background(), uuid.New(), q)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if out.MatchedDeals != 4 {
		t.Fatalf("expected 4 seafood rows this month, got %d", out.MatchedDeals)
	}
	if len(out.Deals) != 2 {
		t.Fatalf("expected limit to cap rows at 2, got %d", len(out.Deals))
	}
	wantEarnings := int64(206400 + 185600 + 254100 + 189600)
	if out.DealTotals[FieldEarnings] != wantEarnings {
		t.Fatalf("deal totals must cover every match, got %d want %d", out.DealTotals[FieldEarnings], wantEarnings)
	}
	if out.Deals[0].DateLabel != "Dec 02, 2024" || out.Deals[0].EarningsDisplay != "LKR 206,400" {
		t.Fatalf("unexpected first row %+v", out.Deals[0])
	}
	if len(out.Series) != 29 {
		t.Fatalf("expected 29 days this month, got %d", len(out.Series))
	}
	if out.SeriesTotals[FieldViews] == 0 {
		t.Fatal("expected views total")
	}
}

func TestAnalyticsIsIdempotent(t *testing.T) {
	svc := newTestService(t, NewFixtureProvider())
	merchant := uuid.New()
	q := Query{Selector: PresetSelector(PresetLast7Days), Search: "buffet"}

	first, err := svc.Analytics(context.Background(), merchant, q)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Analytics(context.Background(), merchant, q)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical input must give identical output")
	}
}

func TestAnalyticsProviderFailure(t *testing.T) {
	svc := newTestService(t, failingProvider{})
	_, err := svc.Analytics(context.Background(), uuid.New(), Query{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestAnalyticsCancelledContext(t *testing.T) {
	svc := newTestService(t, NewFixtureProvider())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Overview(ctx, uuid.New(), Query{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context cancellation, got %v", err)
	}
}

func TestNewServiceValidation(t *testing.T) {
	if _, err := NewService(ServiceParams{ReferenceDay: reference}); err == nil {
		t.Fatal("expected provider required")
	}
	if _, err := NewService(ServiceParams{Provider: NewFixtureProvider()}); err == nil {
		t.Fatal("expected reference day required")
	}
}
