package models

import "time"

// Icons a habit can carry. The dashboard falls back to IconStar for
// anything it does not recognise.
const (
	IconStar     = "FaStar"
	IconHeart    = "FaHeart"
	IconBrain    = "FaBrain"
	IconMusic    = "FaMusic"
	IconDumbbell = "FaDumbbell"
	IconRunning  = "FaRunning"
	IconBook     = "FaBook"
	IconMedkit   = "FaMedkit"
	IconWater    = "FaWater"
	IconMoon     = "FaMoon"
	IconCoffee   = "FaCoffee"
	IconSmile    = "FaSmile"
)

var Icons = []string{
	IconStar, IconHeart, IconBrain, IconMusic, IconDumbbell, IconRunning,
	IconBook, IconMedkit, IconWater, IconMoon, IconCoffee, IconSmile,
}

const DefaultColor = "#3B82F6"

type Habit struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	RepsPerDay int       `json:"reps"`
	Icon       string    `json:"icon"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HabitPatch holds the fields of a partial habit update. Nil fields are left
// untouched.
type HabitPatch struct {
	Name       *string `json:"name,omitempty"`
	RepsPerDay *int    `json:"reps,omitempty"`
	Icon       *string `json:"icon,omitempty"`
	Color      *string `json:"color,omitempty"`
}

func (p HabitPatch) Apply(h *Habit) {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.RepsPerDay != nil {
		h.RepsPerDay = *p.RepsPerDay
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
}

// TodayHabit is a habit as shown on the today's-habits list.
type TodayHabit struct {
	Habit
	CompletedToday bool `json:"completedToday"`
	Streak         int  `json:"streak"`
}

// HabitToggle is the result of flipping a habit's check for a day.
type HabitToggle struct {
	HabitID   string   `json:"habitId"`
	Day       string   `json:"day"`
	Completed bool     `json:"completed"`
	Activity  Activity `json:"activity"`
}
