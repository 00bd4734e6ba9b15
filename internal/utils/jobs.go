package utils

import (
	"sort"
	"time"

	"yamlrg-backend/internal/domain"
)

// JobPoster identifies the member who posted a listing
type JobPoster struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
	Email       string `json:"email"`
}

// JobPost is one listing in the jobs feed. Index is the listing's position in
// the poster's jobListings and addresses it for removal.
type JobPost struct {
	Job    domain.JobListing `json:"job"`
	Index  int               `json:"index"`
	Poster JobPoster         `json:"poster"`
}

// FlattenJobs collects every account's listings, newest postedAt first.
// Listings with an unreadable postedAt sort last.
func FlattenJobs(accounts []domain.UserAccount) []JobPost {
	posts := []JobPost{}
	for _, a := range accounts {
		poster := JobPoster{UID: a.UID, DisplayName: a.DisplayName, PhotoURL: a.PhotoURL, Email: a.Email}
		for i, job := range a.JobListings {
			posts = append(posts, JobPost{Job: job, Index: i, Poster: poster})
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return postedAt(posts[i]).After(postedAt(posts[j]))
	})
	return posts
}

func postedAt(p JobPost) time.Time {
	t, err := domain.ParseTimestamp(p.Job.PostedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
