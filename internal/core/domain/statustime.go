package domain

import (
	"sort"
	"time"
)

// StatusInterval is one span of a ticket's vendor status history. End is nil
// while the status is still active.
type StatusInterval struct {
	Description string
	Start       time.Time
	End         *time.Time
}

// StatusTimes accumulates wall-clock and business seconds per status
// description, plus the lead time from ticket creation to the first status.
type StatusTimes struct {
	Wall                  map[string]float64 `json:"wall"`
	Business              map[string]float64 `json:"business"`
	ToFirstStatusWall     float64            `json:"toFirstStatusWall"`
	ToFirstStatusBusiness float64            `json:"toFirstStatusBusiness"`
}

// StatusAt returns the description of the status active at the given instant,
// or empty when none covers it.
func StatusAt(statuses []StatusInterval, at time.Time) string {
	for _, st := range statuses {
		if st.Start.IsZero() || at.Before(st.Start) {
			continue
		}
		if st.End == nil || !at.After(*st.End) {
			return st.Description
		}
	}
	return ""
}

// AccumulateStatusTimes totals the time spent in each status. Open-ended
// intervals close at finalInstant. Intervals with no start or description are
// skipped; one malformed entry does not poison the rest.
func AccumulateStatusTimes(createdAt, finalInstant time.Time, statuses []StatusInterval, cal *BusinessCalendar) StatusTimes {
	result := StatusTimes{
		Wall:     make(map[string]float64),
		Business: make(map[string]float64),
	}

	ordered := make([]StatusInterval, len(statuses))
	copy(ordered, statuses)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start.Before(ordered[j].Start)
	})

	for _, st := range ordered {
		if st.Start.IsZero() || st.Description == "" {
			continue
		}

		end := finalInstant
		if st.End != nil {
			end = *st.End
		}
		if !end.After(st.Start) {
			continue
		}

		result.Wall[st.Description] += end.Sub(st.Start).Seconds()
		result.Business[st.Description] += cal.BusinessSecondsBetween(st.Start, end)
	}

	if !createdAt.IsZero() {
		for _, st := range ordered {
			if st.Start.IsZero() {
				continue
			}
			result.ToFirstStatusWall = st.Start.Sub(createdAt).Seconds()
			result.ToFirstStatusBusiness = cal.BusinessSecondsBetween(createdAt, st.Start)
			break
		}
	}

	return result
}
