package models

import "time"

// Stats is the cached snapshot of a user's engagement metrics.
type Stats struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	CurrentStreak int       `json:"currentStreak"`
	LongestStreak int       `json:"longestStreak"`
	Completion    int       `json:"completion"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type StatsSummary struct {
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
	Completion       int `json:"completion"`
	TotalDaysTracked int `json:"totalDaysTracked"`
}
