package habitica

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// generic struct for habitica responses, compose into different types
type Response struct {
	Success bool `json:"success"`
}

type APIError struct {
	Response  *http.Response `json:"-"`
	ErrorCode string         `json:"error"`
	Message   string         `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v %v: %d %v",
		e.Response.Request.Method, e.Response.Request.URL,
		e.Response.StatusCode, e.Message)
}

// all tasks have these, use composition on different task types
type Task struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	Text   string   `json:"text"`
	Type   string   `json:"type"`
	Notes  string   `json:"notes"`
	Tags   []string `json:"tags"`
}

type Habit struct {
	Up          bool   `json:"up"`
	Down        bool   `json:"down"`
	CounterUp   int    `json:"counterUp"`
	CounterDown int    `json:"counterDown"`
	Frequency   string `json:"frequency"`
	Task
}

type Daily struct {
	Completed bool   `json:"completed"`
	IsDue     bool   `json:"isDue"`
	Streak    int    `json:"streak"`
	Repeat    Repeat `json:"repeat"`
	Task
}

type Repeat struct {
	Mon bool `json:"m"`
	Tue bool `json:"t"`
	Wed bool `json:"w"`
	Thu bool `json:"th"`
	Fri bool `json:"f"`
	Sat bool `json:"s"`
	Sun bool `json:"su"`
}

type HabitsResponse struct {
	Data []Habit `json:"data"`
	Response
}

type DailysResponse struct {
	Data []Daily `json:"data"`
	Response
}

// ParseGoal reads a "Goal: N" line from the task notes.
func (t Task) ParseGoal() (int, bool) {
	for _, line := range strings.Split(t.Notes, "\n") {
		rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Goal:")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
