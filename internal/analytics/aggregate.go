package analytics

// Standard aggregate names.
const (
	FieldEarnings  = "earnings"
	FieldRedeemed  = "redeemed"
	FieldPurchased = "purchased"
	FieldViews     = "views"
)

// Field selects one numeric column of T by name.
type Field[T any] struct {
	Name  string
	Value func(T) int64
}

// Totals maps field name to its sum.
type Totals map[string]int64

// Aggregate sums each field over series. Every requested field is present in
// the result, with 0 for an empty series.
func Aggregate[T any](series []T, fields ...Field[T]) Totals {
	totals := make(Totals, len(fields))
	for _, f := range fields {
		totals[f.Name] = 0
	}
	for _, rec := range series {
		for _, f := range fields {
			totals[f.Name] += f.Value(rec)
		}
	}
	return totals
}

var (
	DailyEarnings  = Field[DailyMetric]{Name: FieldEarnings, Value: func(m DailyMetric) int64 { return m.Earnings }}
	DailyRedeemed  = Field[DailyMetric]{Name: FieldRedeemed, Value: func(m DailyMetric) int64 { return m.Redeemed }}
	DailyPurchased = Field[DailyMetric]{Name: FieldPurchased, Value: func(m DailyMetric) int64 { return m.Purchased }}
	DailyViews     = Field[DailyMetric]{Name: FieldViews, Value: func(m DailyMetric) int64 { return m.Views }}

	DealEarnings  = Field[DealPerformance]{Name: FieldEarnings, Value: func(p DealPerformance) int64 { return p.Earnings }}
	DealRedeemed  = Field[DealPerformance]{Name: FieldRedeemed, Value: func(p DealPerformance) int64 { return p.Redeemed }}
	DealPurchased = Field[DealPerformance]{Name: FieldPurchased, Value: func(p DealPerformance) int64 { return p.Purchased }}
	DealViews     = Field[DealPerformance]{Name: FieldViews, Value: func(p DealPerformance) int64 { return p.Views }}
)
