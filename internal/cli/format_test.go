package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
)

func TestParseDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.Local)

	tests := []struct {
		in      string
		want    string // "" means nil
		wantErr bool
	}{
		{"", "", false},
		{"today", "2025-06-10", false},
		{"tonight", "2025-06-10", false},
		{"tomorrow", "2025-06-11", false},
		{"2025-07-04", "2025-07-04", false},
		{"next tuesday", "", true},
		{"07/04/2025", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDue(tt.in, now)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tt.want)
			}
			if day := got.Format("2006-01-02"); day != tt.want {
				t.Errorf("due day %s, want %s", day, tt.want)
			}
			if got.Hour() != 23 || got.Minute() != 59 {
				t.Errorf("due moment should be end of day, got %v", got)
			}
		})
	}
}

func TestParseWeekdays(t *testing.T) {
	got, err := parseWeekdays("mon, Wednesday,5")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := parseWeekdays("mon,funday"); err == nil {
		t.Error("expected an error for an unknown weekday")
	}
	if _, err := parseWeekdays("7"); err == nil {
		t.Error("expected an error for an out-of-range weekday number")
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := parsePriority("HIGH"); err != nil || p != models.PriorityHigh {
		t.Errorf("parsePriority(HIGH) = %v, %v", p, err)
	}
	if _, err := parsePriority("urgent"); err == nil {
		t.Error("expected an error for an unknown priority")
	}
	if e, err := parseEnergy(""); err != nil || e != "" {
		t.Errorf("empty energy should pass through, got %v, %v", e, err)
	}
	if a, err := parseAction("call"); err != nil || a != models.ActionCall {
		t.Errorf("parseAction(call) = %v, %v", a, err)
	}
	if s, err := parseStatus("dropped"); err != nil || s != models.StatusDropped {
		t.Errorf("parseStatus(dropped) = %v, %v", s, err)
	}
}

func TestFormatTask(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	overdueAt := now.Add(-24 * time.Hour)

	task := models.Task{
		ID:               "abcdef1234567890",
		Content:          "Call the plumber",
		Status:           models.StatusActive,
		CreatedAt:        now,
		DueDate:          &overdueAt,
		Priority:         models.PriorityHigh,
		EstimatedMinutes: 15,
		ActionType:       models.ActionCall,
		ContactName:      "Joe",
	}

	line := formatTask(task, now)

	for _, fragment := range []string{"abcdef12", "Call the plumber", "OVERDUE", "high", "15m", "call Joe"} {
		if !strings.Contains(line, fragment) {
			t.Errorf("formatted line missing %q: %s", fragment, line)
		}
	}
}

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps([]string{"Make coffee:5", "Stretch", "Review: notes from 9:30 call"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if steps[0].Content != "Make coffee" || steps[0].EstimatedMinutes != 5 {
		t.Errorf("step 0 = %+v", steps[0])
	}
	if steps[1].Content != "Stretch" || steps[1].EstimatedMinutes != 0 {
		t.Errorf("step 1 = %+v", steps[1])
	}
	// A colon not followed by a bare number stays part of the content.
	if steps[2].EstimatedMinutes != 0 {
		t.Errorf("step 2 minutes = %d, want 0", steps[2].EstimatedMinutes)
	}

	if _, err := parseSteps([]string{"  "}); err == nil {
		t.Error("expected an error for a blank step")
	}
}
