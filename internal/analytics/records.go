package analytics

import (
	"strconv"
	"time"
)

// DisplayDateLayout matches the dates shown in the deal table.
const DisplayDateLayout = "Jan 02, 2006"

// DailyMetric is one day of merchant activity.
type DailyMetric struct {
	Date      time.Time
	Earnings  int64
	Redeemed  int64
	Purchased int64
	Views     int64
}

func (m DailyMetric) RecordDate() time.Time { return m.Date }

// DealPerformance is one row of the deal table.
type DealPerformance struct {
	DealID    string
	Name      string
	Date      time.Time
	Views     int64
	Purchased int64
	Redeemed  int64
	Earnings  int64
}

func (p DealPerformance) RecordDate() time.Time { return p.Date }

func (p DealPerformance) SearchFields() []string {
	return []string{
		p.Name,
		p.Date.Format(DisplayDateLayout),
		strconv.FormatInt(p.Views, 10),
		strconv.FormatInt(p.Purchased, 10),
		strconv.FormatInt(p.Redeemed, 10),
		strconv.FormatInt(p.Earnings, 10),
	}
}
