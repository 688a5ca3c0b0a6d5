package analytics

import "time"

// FixtureEnd is the last day of the built-in dataset and the default reference day.
var FixtureEnd = time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC)

var fixtureStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// closing days of the dataset, as shown on the dashboard mock-ups
var fixtureTail = []DailyMetric{
	{Date: day(2024, 12, 26), Earnings: 42400, Purchased: 53, Redeemed: 38, Views: 640},
	{Date: day(2024, 12, 27), Earnings: 46600, Purchased: 58, Redeemed: 41, Views: 710},
	{Date: day(2024, 12, 28), Earnings: 50800, Purchased: 63, Redeemed: 47, Views: 760},
	{Date: day(2024, 12, 29), Earnings: 44000, Purchased: 55, Redeemed: 40, Views: 690},
}

var fixtureDeals = []DealPerformance{
	{DealID: "deal-seafood-platter", Name: "Seafood Platter for Two", Date: day(2024, 12, 2), Views: 1240, Purchased: 86, Redeemed: 61, Earnings: 206400},
	{DealID: "deal-spa-package", Name: "Full Body Spa Package", Date: day(2024, 12, 5), Views: 980, Purchased: 42, Redeemed: 30, Earnings: 147000},
	{DealID: "deal-brunch", Name: "Weekend Brunch Buffet", Date: day(2024, 12, 8), Views: 1530, Purchased: 120, Redeemed: 97, Earnings: 288000},
	{DealID: "deal-pizza-combo", Name: "Family Pizza Combo", Date: day(2024, 12, 11), Views: 870, Purchased: 95, Redeemed: 80, Earnings: 123500},
	{DealID: "deal-seafood-bbq", Name: "Beachside SEAFOOD BBQ Night", Date: day(2024, 12, 14), Views: 1105, Purchased: 64, Redeemed: 44, Earnings: 185600},
	{DealID: "deal-yoga", Name: "Sunrise Yoga Class Pack", Date: day(2024, 12, 17), Views: 430, Purchased: 22, Redeemed: 15, Earnings: 44000},
	{DealID: "deal-hair-spa", Name: "Hair Spa & Styling", Date: day(2024, 12, 20), Views: 610, Purchased: 37, Redeemed: 29, Earnings: 81400},
	{DealID: "deal-high-tea", Name: "Colonial High Tea for Two", Date: day(2024, 12, 23), Views: 720, Purchased: 48, Redeemed: 31, Earnings: 105600},
	{DealID: "deal-seafood-buffet", Name: "Sunset seafood buffet", Date: day(2024, 12, 26), Views: 1320, Purchased: 77, Redeemed: 52, Earnings: 254100},
	{DealID: "deal-kayak", Name: "Lagoon Kayak Tour", Date: day(2024, 12, 27), Views: 390, Purchased: 18, Redeemed: 12, Earnings: 63000},
	{DealID: "deal-brunch", Name: "Weekend Brunch Buffet", Date: day(2024, 12, 28), Views: 1610, Purchased: 131, Redeemed: 104, Earnings: 314400},
	{DealID: "deal-seafood-platter", Name: "Seafood Platter for Two", Date: day(2024, 12, 29), Views: 1180, Purchased: 79, Redeemed: 58, Earnings: 189600},
}

var fixtureDaily = buildDailyFixtures()

// buildDailyFixtures produces one deterministic row per day from fixtureStart
// through FixtureEnd, ending with fixtureTail.
func buildDailyFixtures() []DailyMetric {
	tailStart := fixtureTail[0].Date
	series := make([]DailyMetric, 0, 366)
	for d, i := fixtureStart, 0; d.Before(tailStart); d, i = d.AddDate(0, 0, 1), i+1 {
		earnings := int64(18000 + (i*37%23)*1000 + i*60)
		purchased := earnings / 800
		series = append(series, DailyMetric{
			Date:      d,
			Earnings:  earnings,
			Purchased: purchased,
			Redeemed:  purchased * 7 / 10,
			Views:     purchased*12 + int64(i%9)*5,
		})
	}
	return append(series, fixtureTail...)
}

// FixtureDailyMetrics returns a copy of the built-in daily series.
func FixtureDailyMetrics() []DailyMetric {
	return append([]DailyMetric(nil), fixtureDaily...)
}

// FixtureDealPerformance returns a copy of the built-in deal table.
func FixtureDealPerformance() []DealPerformance {
	return append([]DealPerformance(nil), fixtureDeals...)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
