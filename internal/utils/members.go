package utils

import (
	"sort"
	"strings"
	"time"

	"yamlrg-backend/internal/domain"
)

// MemberFilter narrows a directory listing. Search matches display name or
// email case-insensitively; every listed status flag must be set.
type MemberFilter struct {
	Search string
	Flags  []string
}

// FilterMembers applies f and keeps the input order
func FilterMembers(members []domain.UserAccount, f MemberFilter) []domain.UserAccount {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.UserAccount, 0, len(members))
	for _, m := range members {
		if search != "" &&
			!strings.Contains(strings.ToLower(m.DisplayName), search) &&
			!strings.Contains(strings.ToLower(m.Email), search) {
			continue
		}
		matched := true
		for _, flag := range f.Flags {
			if !m.Status.Flag(flag) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, m)
		}
	}
	return out
}

// GrowthPoint is the cumulative member count at the end of a day
type GrowthPoint struct {
	Date    string `json:"date"`
	Members int    `json:"members"`
}

// GrowthSeries counts members by join day, falling back to the approval time.
// Members with neither timestamp are left out.
func GrowthSeries(members []domain.UserAccount) []GrowthPoint {
	days := make([]time.Time, 0, len(members))
	for _, m := range members {
		stamp := m.JoinedAt
		if stamp == "" && m.ApprovedAt != nil {
			stamp = *m.ApprovedAt
		}
		if stamp == "" {
			continue
		}
		t, err := domain.ParseTimestamp(stamp)
		if err != nil {
			continue
		}
		days = append(days, t.UTC())
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := []GrowthPoint{}
	for i, t := range days {
		date := t.Format("2006-01-02")
		if n := len(points); n > 0 && points[n-1].Date == date {
			points[n-1].Members = i + 1
			continue
		}
		points = append(points, GrowthPoint{Date: date, Members: i + 1})
	}
	return points
}

// UserSort selects the ordering of non-admin accounts in the admin user list
type UserSort string

const (
	SortByApproval UserSort = "approval"
	SortByName     UserSort = "name"
	SortByDate     UserSort = "date"
)

// SortUsers puts admins first ordered by name, then everyone else by sortBy.
// approval lists unapproved accounts first; date lists the most recently approved first.
func SortUsers(users []domain.UserAccount, isAdmin func(email string) bool, sortBy UserSort) []domain.UserAccount {
	var admins, others []domain.UserAccount
	for _, u := range users {
		if isAdmin(u.Email) {
			admins = append(admins, u)
		} else {
			others = append(others, u)
		}
	}

	byName := func(list []domain.UserAccount) func(i, j int) bool {
		return func(i, j int) bool {
			return strings.ToLower(list[i].DisplayName) < strings.ToLower(list[j].DisplayName)
		}
	}
	sort.SliceStable(admins, byName(admins))

	switch sortBy {
	case SortByName:
		sort.SliceStable(others, byName(others))
	case SortByDate:
		sort.SliceStable(others, func(i, j int) bool {
			a, b := others[i].ApprovedAt, others[j].ApprovedAt
			if a == nil || b == nil {
				return a != nil
			}
			return *a > *b
		})
	default:
		name := byName(others)
		sort.SliceStable(others, func(i, j int) bool {
			if others[i].IsApproved != others[j].IsApproved {
				return !others[i].IsApproved
			}
			return name(i, j)
		})
	}

	return append(admins, others...)
}
