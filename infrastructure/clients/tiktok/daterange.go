package tiktok

import (
	"fmt"
	"time"
)

// DateLayout is the 8-digit date format the research API expects.
const DateLayout = "20060102"

// maxWindowDays is the widest start/end span one query may cover.
const maxWindowDays = 30

// DateRange is one query window, both bounds inclusive.
type DateRange struct {
	Start string
	End   string
}

// SplitDateRange splits [start, end] into consecutive sub-ranges of at most
// 30 days each, covering the full span with no gaps or overlaps. Bounds are
// 8-digit date strings; start must not be after end.
func SplitDateRange(start, end string) ([]DateRange, error) {
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date %s after end date %s", start, end)
	}

	var ranges []DateRange
	for cur := startDate; !cur.After(endDate); {
		windowEnd := cur.AddDate(0, 0, maxWindowDays-1)
		if windowEnd.After(endDate) {
			windowEnd = endDate
		}
		ranges = append(ranges, DateRange{
			Start: cur.Format(DateLayout),
			End:   windowEnd.Format(DateLayout),
		})
		cur = windowEnd.AddDate(0, 0, 1)
	}
	return ranges, nil
}
