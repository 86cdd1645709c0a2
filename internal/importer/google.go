package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	clientSecretsFile = "credentials.json"
	tokenFile         = "token.json"
)

// GoogleCalendarSource offers upcoming calendar events as task candidates.
// Credentials and a previously-obtained OAuth token are read from the config
// directory; the core never runs an interactive authorization flow.
type GoogleCalendarSource struct {
	srv        *calendar.Service
	calendarID string
	window     time.Duration
}

// NewGoogleCalendarSource builds a source for the named calendar ("primary"
// works for the default one). window bounds how far ahead events are pulled.
func NewGoogleCalendarSource(ctx context.Context, configDir, calendarID string, window time.Duration) (*GoogleCalendarSource, error) {
	client, err := oauthClient(ctx, configDir)
	if err != nil {
		return nil, err
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to build calendar client: %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &GoogleCalendarSource{srv: srv, calendarID: calendarID, window: window}, nil
}

func (g *GoogleCalendarSource) Candidates(ctx context.Context) ([]Candidate, error) {
	now := time.Now()
	events, err := g.srv.Events.List(g.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(g.window).Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
	}

	var candidates []Candidate
	for _, item := range events.Items {
		if item.Summary == "" {
			continue
		}
		c := Candidate{Title: item.Summary, Notes: item.Description}
		if due := eventStart(item); due != nil {
			c.DueDate = due
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func eventStart(item *calendar.Event) *time.Time {
	if item.Start == nil {
		return nil
	}
	if item.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
			return &t
		}
	}
	if item.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", item.Start.Date); err == nil {
			return &t
		}
	}
	return nil
}

func oauthClient(ctx context.Context, configDir string) (*http.Client, error) {
	secretsPath := filepath.Join(configDir, clientSecretsFile)
	b, err := os.ReadFile(secretsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", secretsPath, err)
	}

	config, err := google.ConfigFromJSON(b, calendar.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file: %w", err)
	}

	token, err := tokenFromFile(filepath.Join(configDir, tokenFile))
	if err != nil {
		return nil, fmt.Errorf("no stored authorization (run the companion app to sign in first): %w", err)
	}
	return config.Client(ctx, token), nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(token); err != nil {
		return nil, err
	}
	return token, nil
}
