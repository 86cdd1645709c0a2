package models

import "time"

type RepeatSchedule string

const (
	RepeatDaily      RepeatSchedule = "daily"
	RepeatWeekdays   RepeatSchedule = "weekdays"
	RepeatWeekends   RepeatSchedule = "weekends"
	RepeatWeekly     RepeatSchedule = "weekly"
	RepeatCustomDays RepeatSchedule = "custom_days"
)

// Step is one ordered entry of a routine. Steps are owned by value; they are
// not standalone records.
type Step struct {
	Content          string      `json:"content"`
	Emoji            string      `json:"emoji,omitempty"`
	EstimatedMinutes int         `json:"estimated_minutes,omitempty"`
	EnergyLevel      EnergyLevel `json:"energy_level,omitempty"`
}

// Routine is a reusable template that the schedule engine expands into
// concrete task instances once per eligible day.
type Routine struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Steps             []Step         `json:"steps"`
	Repeat            RepeatSchedule `json:"repeat"`
	CustomWeekdays    []time.Weekday `json:"custom_weekdays,omitempty"`
	Weekday           time.Weekday   `json:"weekday,omitempty"` // for weekly repeat
	StartTime         string         `json:"start_time"`        // HH:MM
	IsActive          bool           `json:"is_active"`
	LastGeneratedDate string         `json:"last_generated_date,omitempty"` // YYYY-MM-DD
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// MatchesDay reports whether the repeat schedule covers the given date's
// weekday.
func (r Routine) MatchesDay(date time.Time) bool {
	wd := date.Weekday()
	switch r.Repeat {
	case RepeatDaily:
		return true
	case RepeatWeekdays:
		return wd >= time.Monday && wd <= time.Friday
	case RepeatWeekends:
		return wd == time.Saturday || wd == time.Sunday
	case RepeatWeekly:
		return wd == r.Weekday
	case RepeatCustomDays:
		for _, d := range r.CustomWeekdays {
			if wd == d {
				return true
			}
		}
		return false
	default:
		return false
	}
}
