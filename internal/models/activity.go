package models

import "time"

// Activity is one ledger row: a single calendar day's completion tally for a
// user. Day is formatted as YYYY-MM-DD.
type Activity struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Day       string    `json:"day"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ActivityPatch struct {
	Day       *string `json:"day,omitempty"`
	Completed *int    `json:"completed,omitempty"`
	Total     *int    `json:"total,omitempty"`
}

func (p ActivityPatch) Apply(a *Activity) {
	if p.Day != nil {
		a.Day = *p.Day
	}
	if p.Completed != nil {
		a.Completed = *p.Completed
	}
	if p.Total != nil {
		a.Total = *p.Total
	}
}

// ActivityWindows is returned when no range is requested.
type ActivityWindows struct {
	All     []Activity `json:"all"`
	Weekly  []Activity `json:"weekly"`
	Heatmap []Activity `json:"heatmap"`
}
