package meetings

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// ErrEventGone means the remote event no longer exists.
var ErrEventGone = errors.New("calendar event already deleted")

// Meeting describes an event to create on the organizer's calendar.
type Meeting struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
	// RequestID makes conference creation idempotent on retry.
	RequestID string
}

// Event is what the calendar returns for a created meeting.
type Event struct {
	ID       string
	HTMLLink string
	MeetLink string
}

// Calendar creates and removes meetings on behalf of a credential holder.
// Both calls ask the provider to notify every attendee.
type Calendar interface {
	CreateEvent(ctx context.Context, cred Credential, m Meeting) (Event, error)
	DeleteEvent(ctx context.Context, cred Credential, eventID string) error
}

// GoogleCalendar talks to the Google Calendar API on the primary calendar.
type GoogleCalendar struct {
	oauth      *oauth2.Config
	calendarID string
	opts       []option.ClientOption
}

// NewGoogleCalendar uses conf to refresh credentials. opts are appended to
// every service, e.g. option.WithEndpoint for a non-default API host.
func NewGoogleCalendar(conf *oauth2.Config, opts ...option.ClientOption) *GoogleCalendar {
	return &GoogleCalendar{oauth: conf, calendarID: "primary", opts: opts}
}

func (g *GoogleCalendar) service(ctx context.Context, cred Credential) (*calendar.Service, error) {
	ts := g.oauth.TokenSource(ctx, cred.OAuthToken())
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, g.opts...)
	return calendar.NewService(ctx, opts...)
}

func (g *GoogleCalendar) CreateEvent(ctx context.Context, cred Credential, m Meeting) (Event, error) {
	svc, err := g.service(ctx, cred)
	if err != nil {
		return Event{}, fmt.Errorf("calendar service: %w", err)
	}

	attendees := make([]*calendar.EventAttendee, 0, len(m.Attendees))
	for _, email := range m.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	ev := &calendar.Event{
		Summary:     m.Summary,
		Description: m.Description,
		Start:       &calendar.EventDateTime{DateTime: m.Start.Format(time.RFC3339), TimeZone: m.TimeZone},
		End:         &calendar.EventDateTime{DateTime: m.End.Format(time.RFC3339), TimeZone: m.TimeZone},
		Attendees:   attendees,
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             m.RequestID,
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		},
	}

	created, err := svc.Events.Insert(g.calendarID, ev).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		return Event{}, fmt.Errorf("insert event: %w", err)
	}
	return Event{ID: created.Id, HTMLLink: created.HtmlLink, MeetLink: created.HangoutLink}, nil
}

func (g *GoogleCalendar) DeleteEvent(ctx context.Context, cred Credential, eventID string) error {
	svc, err := g.service(ctx, cred)
	if err != nil {
		return fmt.Errorf("calendar service: %w", err)
	}
	err = svc.Events.Delete(g.calendarID, eventID).SendUpdates("all").Context(ctx).Do()
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && (gerr.Code == http.StatusNotFound || gerr.Code == http.StatusGone) {
		return ErrEventGone
	}
	if err != nil {
		return fmt.Errorf("delete event %s: %w", eventID, err)
	}
	return nil
}
