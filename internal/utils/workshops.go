package utils

import (
	"sort"
	"time"

	"yamlrg-backend/internal/domain"
)

// SplitWorkshops separates workshops dated today or later from past ones.
// Upcoming are soonest first, past are most recent first. Dates compare in UTC
// at day granularity; unreadable dates count as past.
func SplitWorkshops(workshops []domain.Workshop, now time.Time) (upcoming, past []domain.Workshop) {
	today := now.UTC().Truncate(24 * time.Hour)
	upcoming, past = []domain.Workshop{}, []domain.Workshop{}
	for _, w := range workshops {
		t, err := domain.ParseTimestamp(w.Date)
		if err == nil && !t.Before(today) {
			upcoming = append(upcoming, w)
		} else {
			past = append(past, w)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool { return workshopDate(upcoming[i]).Before(workshopDate(upcoming[j])) })
	sort.SliceStable(past, func(i, j int) bool { return workshopDate(past[i]).After(workshopDate(past[j])) })
	return upcoming, past
}

func workshopDate(w domain.Workshop) time.Time {
	t, err := domain.ParseTimestamp(w.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
