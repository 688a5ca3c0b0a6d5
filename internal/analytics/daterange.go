package analytics

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// DateRange is an inclusive span of calendar days, both ends at UTC midnight
// and Start never after End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange truncates both bounds to calendar days and orders them.
func NewDateRange(start, end time.Time) DateRange {
	s, e := truncateDay(start), truncateDay(end)
	if e.Before(s) {
		s, e = e, s
	}
	return DateRange{Start: s, End: e}
}

// Contains compares calendar dates only; time of day is ignored.
func (r DateRange) Contains(t time.Time) bool {
	d := truncateDay(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Days is the inclusive number of calendar days covered.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Start string `json:"start"`
		End   string `json:"end"`
		Days  int    `json:"days"`
	}{
		Start: r.Start.Format(DateLayout),
		End:   r.End.Format(DateLayout),
		Days:  r.Days(),
	})
}

// truncateDay keeps t's calendar date (in its own location) at UTC midnight.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
