package extract

import (
	"testing"
	"time"

	"github.com/nudgelabs/nudge-core/internal/models"
)

func TestFallback(t *testing.T) {
	if got := Fallback("   "); got != nil {
		t.Errorf("blank input should yield nothing, got %v", got)
	}

	got := Fallback("  call the plumber about the leak  ")
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}
	if got[0].Content != "call the plumber about the leak" {
		t.Errorf("content %q", got[0].Content)
	}
}

func TestResolveDueDate(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 30, 0, 0, time.Local)

	tests := []struct {
		in   string
		want string // "" means nil
	}{
		{"", ""},
		{"today", "2025-06-10 23:59"},
		{"tonight", "2025-06-10 23:59"},
		{"Tomorrow", "2025-06-11 23:59"},
		{"2025-07-01", "2025-07-01 23:59"},
		{"next week sometime", ""},
		{"07/01/2025", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ResolveDueDate(tt.in, now)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %s, got nil", tt.want)
			}
			if formatted := got.Format("2006-01-02 15:04"); formatted != tt.want {
				t.Errorf("resolved to %s, want %s", formatted, tt.want)
			}
		})
	}
}

func TestParseReply(t *testing.T) {
	reply := "```json\n" + `{
		"tasks": [
			{"content": "Call Dr. Patel to reschedule", "emoji": "📞", "actionType": "CALL",
			 "contactName": "Dr. Patel", "actionTarget": "", "priority": "high", "dueDateString": "tomorrow"},
			{"content": "Buy milk", "emoji": "🥛", "actionType": "", "priority": "low", "dueDateString": ""},
			{"content": "", "emoji": "🚫"},
			{"content": "Email landlord about lease", "actionType": "EMAIL", "priority": "sideways"}
		]
	}` + "\n```"

	candidates := ParseReply(reply)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates (blank content skipped), got %d", len(candidates))
	}

	first := candidates[0]
	if first.Content != "Call Dr. Patel to reschedule" {
		t.Errorf("content %q", first.Content)
	}
	if first.ActionType != models.ActionCall {
		t.Errorf("action type %q", first.ActionType)
	}
	if first.Priority != models.PriorityHigh {
		t.Errorf("priority %q", first.Priority)
	}
	if first.DueDateString != "tomorrow" {
		t.Errorf("due date string %q", first.DueDateString)
	}

	// Unknown priority strings degrade to empty rather than failing.
	if candidates[2].Priority != "" {
		t.Errorf("unknown priority should be empty, got %q", candidates[2].Priority)
	}
	if candidates[2].ActionType != models.ActionEmail {
		t.Errorf("action type %q", candidates[2].ActionType)
	}
}

func TestParseReply_Caps(t *testing.T) {
	reply := `{"tasks": [`
	for i := 0; i < 15; i++ {
		if i > 0 {
			reply += ","
		}
		reply += `{"content": "task"}`
	}
	reply += `]}`

	if got := ParseReply(reply); len(got) != 10 {
		t.Errorf("expected the batch capped at 10, got %d", len(got))
	}
}

func TestParseReply_Garbage(t *testing.T) {
	if got := ParseReply("sorry, I could not parse that"); got != nil {
		t.Errorf("garbage reply should yield nothing, got %v", got)
	}
	if got := ParseReply(`{"tasks": "not an array"}`); got != nil {
		t.Errorf("non-array tasks should yield nothing, got %v", got)
	}
}
