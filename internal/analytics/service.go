package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/dealdesk/merchant-portal/pkg/errors"
	"github.com/dealdesk/merchant-portal/pkg/metrics"
	"github.com/dealdesk/merchant-portal/pkg/money"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultMaxTableRows = 200
	topDealsLimit       = 3
	chartLabelLayout    = "Jan 02"
)

// Service builds the Overview and Analytics screens from a Provider.
type Service interface {
	Overview(ctx context.Context, merchantID uuid.UUID, q Query) (*Overview, error)
	Analytics(ctx context.Context, merchantID uuid.UUID, q Query) (*Report, error)
}

// Query is the user's selection on a dashboard screen.
type Query struct {
	Selector RangeSelector
	Search   string
	Limit    int
}

type ServiceParams struct {
	Provider     Provider
	ReferenceDay time.Time
	MaxTableRows int
	Metrics      *metrics.Portal
}

type service struct {
	provider     Provider
	reference    time.Time
	maxTableRows int
	metrics      *metrics.Portal
}

func NewService(params ServiceParams) (Service, error) {
	if params.Provider == nil {
		return nil, fmt.Errorf("analytics provider required")
	}
	if params.ReferenceDay.IsZero() {
		return nil, fmt.Errorf("reference day required")
	}
	maxRows := params.MaxTableRows
	if maxRows <= 0 {
		maxRows = defaultMaxTableRows
	}
	return &service{
		provider:     params.Provider,
		reference:    truncateDay(params.ReferenceDay),
		maxTableRows: maxRows,
		metrics:      params.Metrics,
	}, nil
}

// StatCard is one headline number; Display is presentation only.
type StatCard struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Value   int64  `json:"value"`
	Display string `json:"display"`
}

type OverviewPoint struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Earnings  int64  `json:"earnings"`
	Redeemed  int64  `json:"redeemed"`
	Purchased int64  `json:"purchased"`
}

type Overview struct {
	Preset   Preset          `json:"preset"`
	Range    DateRange       `json:"range"`
	Cards    []StatCard      `json:"cards"`
	Series   []OverviewPoint `json:"series"`
	TopDeals []DealRow       `json:"top_deals"`
}

type AnalyticsPoint struct {
	Date      string `json:"date"`
	Label     string `json:"label"`
	Views     int64  `json:"views"`
	Purchased int64  `json:"purchased"`
	Redeemed  int64  `json:"redeemed"`
}

type DealRow struct {
	DealID          string `json:"deal_id"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	DateLabel       string `json:"date_label"`
	Views           int64  `json:"views"`
	Purchased       int64  `json:"purchased"`
	Redeemed        int64  `json:"redeemed"`
	Earnings        int64  `json:"earnings"`
	EarningsDisplay string `json:"earnings_display"`
}

type Report struct {
	Preset       Preset           `json:"preset"`
	Range        DateRange        `json:"range"`
	Search       string           `json:"search,omitempty"`
	Cards        []StatCard       `json:"cards"`
	Series       []AnalyticsPoint `json:"series"`
	SeriesTotals Totals           `json:"series_totals"`
	Deals        []DealRow        `json:"deals"`
	DealTotals   Totals           `json:"deal_totals"`
	MatchedDeals int              `json:"matched_deals"`
}

type fetched struct {
	daily []DailyMetric
	deals []DealPerformance
}

// fetch loads both series concurrently.
func (s *service) fetch(ctx context.Context, merchantID uuid.UUID, rng DateRange) (fetched, error) {
	var out fetched
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.provider.DailyMetrics(gctx, merchantID, rng)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily metrics")
		}
		out.daily = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.provider.DealPerformance(gctx, merchantID, rng)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deal performance")
		}
		out.deals = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return fetched{}, err
	}
	return out, nil
}

func (s *service) Overview(ctx context.Context, merchantID uuid.UUID, q Query) (*Overview, error) {
	started := time.Now()
	defer func() { s.metrics.ObservePipeline("overview", time.Since(started)) }()

	rng := Resolve(q.Selector, s.reference)
	data, err := s.fetch(ctx, merchantID, rng)
	if err != nil {
		return nil, err
	}

	daily := Filter(data.daily, rng)
	totals := Aggregate(daily, DailyEarnings, DailyRedeemed, DailyPurchased)

	series := make([]OverviewPoint, 0, len(daily))
	for _, m := range daily {
		series = append(series, OverviewPoint{
			Date:      m.Date.Format(DateLayout),
			Label:     m.Date.Format(chartLabelLayout),
			Earnings:  m.Earnings,
			Redeemed:  m.Redeemed,
			Purchased: m.Purchased,
		})
	}

	return &Overview{
		Preset: q.Selector.Effective(),
		Range:  rng,
		Cards: []StatCard{
			earningsCard(totals[FieldEarnings]),
			countCard(FieldRedeemed, "Total Redemptions", totals[FieldRedeemed]),
			countCard(FieldPurchased, "Coupons Sold", totals[FieldPurchased]),
		},
		Series:   series,
		TopDeals: topDeals(Filter(data.deals, rng), topDealsLimit),
	}, nil
}

func (s *service) Analytics(ctx context.Context, merchantID uuid.UUID, q Query) (*Report, error) {
	started := time.Now()
	defer func() { s.metrics.ObservePipeline("analytics", time.Since(started)) }()

	rng := Resolve(q.Selector, s.reference)
	data, err := s.fetch(ctx, merchantID, rng)
	if err != nil {
		return nil, err
	}

	daily := Filter(data.daily, rng)
	seriesTotals := Aggregate(daily, DailyViews, DailyPurchased, DailyRedeemed, DailyEarnings)

	series := make([]AnalyticsPoint, 0, len(daily))
	for _, m := range daily {
		series = append(series, AnalyticsPoint{
			Date:      m.Date.Format(DateLayout),
			Label:     m.Date.Format(chartLabelLayout),
			Views:     m.Views,
			Purchased: m.Purchased,
			Redeemed:  m.Redeemed,
		})
	}

	matched := FilterAndSearch(data.deals, rng, q.Search)
	dealTotals := Aggregate(matched, DealViews, DealPurchased, DealRedeemed, DealEarnings)

	limit := q.Limit
	if limit <= 0 || limit > s.maxTableRows {
		limit = s.maxTableRows
	}
	shown := matched
	if len(shown) > limit {
		shown = shown[:limit]
	}
	rows := make([]DealRow, 0, len(shown))
	for _, p := range shown {
		rows = append(rows, toDealRow(p))
	}

	return &Report{
		Preset: q.Selector.Effective(),
		Range:  rng,
		Search: q.Search,
		Cards: []StatCard{
			countCard(FieldViews, "Deal Views", seriesTotals[FieldViews]),
			countCard(FieldPurchased, "Coupons Sold", seriesTotals[FieldPurchased]),
			countCard(FieldRedeemed, "Redemptions", seriesTotals[FieldRedeemed]),
			earningsCard(seriesTotals[FieldEarnings]),
		},
		Series:       series,
		SeriesTotals: seriesTotals,
		Deals:        rows,
		DealTotals:   dealTotals,
		MatchedDeals: len(matched),
	}, nil
}

// topDeals folds rows by deal name and keeps the n highest earners.
func topDeals(rows []DealPerformance, n int) []DealRow {
	byName := map[string]*DealPerformance{}
	order := []string{}
	for _, p := range rows {
		acc, ok := byName[p.Name]
		if !ok {
			copied := p
			byName[p.Name] = &copied
			order = append(order, p.Name)
			continue
		}
		acc.Views += p.Views
		acc.Purchased += p.Purchased
		acc.Redeemed += p.Redeemed
		acc.Earnings += p.Earnings
		if p.Date.After(acc.Date) {
			acc.Date = p.Date
		}
	}

	folded := make([]DealPerformance, 0, len(order))
	for _, name := range order {
		folded = append(folded, *byName[name])
	}
	sort.SliceStable(folded, func(i, j int) bool {
		return folded[i].Earnings > folded[j].Earnings
	})
	if len(folded) > n {
		folded = folded[:n]
	}

	out := make([]DealRow, 0, len(folded))
	for _, p := range folded {
		out = append(out, toDealRow(p))
	}
	return out
}

func toDealRow(p DealPerformance) DealRow {
	return DealRow{
		DealID:          p.DealID,
		Name:            p.Name,
		Date:            p.Date.Format(DateLayout),
		DateLabel:       p.Date.Format(DisplayDateLayout),
		Views:           p.Views,
		Purchased:       p.Purchased,
		Redeemed:        p.Redeemed,
		Earnings:        p.Earnings,
		EarningsDisplay: money.FormatLKR(p.Earnings),
	}
}

func earningsCard(total int64) StatCard {
	return StatCard{Key: FieldEarnings, Label: "Total Earnings", Value: total, Display: money.FormatLKR(total)}
}

func countCard(key, label string, total int64) StatCard {
	return StatCard{Key: key, Label: label, Value: total, Display: money.FormatNumber(total)}
}
