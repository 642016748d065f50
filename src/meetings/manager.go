package meetings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

// MeetingLength is the fixed duration of a proposed session.
const MeetingLength = 30 * time.Minute

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidTime      = errors.New("invalid meeting time")
	ErrNotAuthenticated = errors.New("mentor not authenticated with Google")
)

var conferenceNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ummah-scheduler/conference"))

// Store is the slice of the workflow store the manager writes to.
type Store interface {
	Get(ctx context.Context, id string) (types.SubmissionRecord, error)
	Upsert(ctx context.Context, rec types.SubmissionRecord, columns ...string) error
	LogAction(ctx context.Context, email, action, details string) error
}

// Manager proposes and cancels mentorship meetings and keeps the local
// workflow state in step with the calendar.
type Manager struct {
	calendar  Calendar
	sessions  SessionStore
	store     Store
	adminCred *Credential
	timezone  string
	now       func() time.Time
}

type Option func(*Manager)

// WithAdminCredential makes cancellations use a single organizer account.
func WithAdminCredential(cred Credential) Option {
	return func(m *Manager) { m.adminCred = &cred }
}

func WithTimezone(tz string) Option {
	return func(m *Manager) { m.timezone = tz }
}

func NewManager(cal Calendar, sessions SessionStore, store Store, opts ...Option) *Manager {
	m := &Manager{
		calendar: cal,
		sessions: sessions,
		store:    store,
		timezone: "UTC",
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type ProposeRequest struct {
	SubmissionID string `json:"id"`
	StudentEmail string `json:"studentEmail"`
	MentorEmail  string `json:"mentorEmail"`
	Time         string `json:"time"`
}

type Proposal struct {
	EventID   string    `json:"eventId"`
	EventLink string    `json:"eventLink"`
	MeetLink  string    `json:"meetLink,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

// ParseStart accepts RFC 3339 times and zoneless ISO times, which are read as
// UTC.
func ParseStart(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
}

// ConferenceRequestID is stable for a mentor and start time so a retried
// proposal reuses the same conference.
func ConferenceRequestID(mentorEmail string, start time.Time) string {
	name := normalizeEmail(mentorEmail) + "|" + start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(conferenceNamespace, []byte(name)).String()
}

// Propose creates a 30 minute meeting on the mentor's calendar with both
// participants invited, then marks the submission In Progress. Nothing is
// written locally unless the calendar call succeeds; a local write failure
// after that is logged and does not undo the event.
func (m *Manager) Propose(ctx context.Context, req ProposeRequest) (Proposal, error) {
	student := strings.TrimSpace(req.StudentEmail)
	mentor := strings.TrimSpace(req.MentorEmail)
	if student == "" || mentor == "" || strings.TrimSpace(req.Time) == "" {
		return Proposal{}, ErrMissingFields
	}
	start, err := ParseStart(req.Time)
	if err != nil {
		return Proposal{}, err
	}

	cred, err := m.mentorCredential(ctx, mentor)
	if err != nil {
		return Proposal{}, err
	}

	end := start.Add(MeetingLength)
	ev, err := m.calendar.CreateEvent(ctx, cred, Meeting{
		Summary:     "Mentorship Session with " + student,
		Description: "Scheduled via Ummah Scheduler by " + mentor,
		Start:       start,
		End:         end,
		TimeZone:    m.timezone,
		Attendees:   []string{mentor, student},
		RequestID:   ConferenceRequestID(mentor, start),
	})
	if err != nil {
		if isAuthFailure(err) {
			_ = m.sessions.Invalidate(ctx, mentor)
			return Proposal{}, fmt.Errorf("%w: %v", ErrNotAuthenticated, err)
		}
		return Proposal{}, err
	}

	if req.SubmissionID == "" {
		log.Printf("meetings: warning: event %s created without a submission id, local state not updated", ev.ID)
	} else {
		rec := types.SubmissionRecord{
			ID:            req.SubmissionID,
			Email:         student,
			Status:        types.StatusInProgress,
			PickedByEmail: mentor,
			EventID:       ev.ID,
		}
		if err := m.store.Upsert(ctx, rec, workflow.ColStatus, workflow.ColPickedByEmail, workflow.ColEventID); err != nil {
			log.Printf("meetings: warning: event %s created but submission %s not updated: %v", ev.ID, req.SubmissionID, err)
		}
	}
	if err := m.store.LogAction(ctx, mentor, types.ActionPropose, "with "+student); err != nil {
		log.Printf("meetings: warning: could not log propose for %s: %v", mentor, err)
	}

	return Proposal{EventID: ev.ID, EventLink: ev.HTMLLink, MeetLink: ev.MeetLink, Start: start, End: end}, nil
}

func (m *Manager) mentorCredential(ctx context.Context, email string) (Credential, error) {
	cred, ok, err := m.sessions.Get(ctx, email)
	if err != nil {
		return Credential{}, fmt.Errorf("load credential: %w", err)
	}
	if !ok || !cred.Usable(m.now()) {
		return Credential{}, ErrNotAuthenticated
	}
	return cred, nil
}

type Cancellation struct {
	SubmissionID  string `json:"id"`
	StudentName   string `json:"studentName"`
	RemoteDeleted bool   `json:"remoteDeleted"`
}

// Cancel deletes the submission's calendar event, notifying attendees, and
// marks it Canceled. The local status changes whatever happens remotely; the
// event reference is only cleared once the event is known to be gone.
func (m *Manager) Cancel(ctx context.Context, submissionID string) (Cancellation, error) {
	if strings.TrimSpace(submissionID) == "" {
		return Cancellation{}, ErrMissingFields
	}
	rec, err := m.store.Get(ctx, submissionID)
	if err != nil {
		return Cancellation{}, err
	}

	out := Cancellation{SubmissionID: rec.ID, StudentName: rec.Name}
	if rec.EventID == "" {
		out.RemoteDeleted = true
	} else {
		out.RemoteDeleted = m.deleteRemote(ctx, rec)
	}

	update := types.SubmissionRecord{ID: rec.ID, Status: types.StatusCanceled}
	columns := []string{workflow.ColStatus}
	if out.RemoteDeleted && rec.EventID != "" {
		columns = append(columns, workflow.ColEventID)
	}
	if err := m.store.Upsert(ctx, update, columns...); err != nil {
		return out, fmt.Errorf("mark canceled: %w", err)
	}
	return out, nil
}

func (m *Manager) deleteRemote(ctx context.Context, rec types.SubmissionRecord) bool {
	cred, err := m.cancelCredential(ctx, rec.PickedByEmail)
	if err != nil {
		log.Printf("meetings: warning: cannot delete event %s for %s: %v", rec.EventID, rec.ID, err)
		return false
	}
	err = m.calendar.DeleteEvent(ctx, cred, rec.EventID)
	switch {
	case err == nil:
		log.Printf("meetings: event %s deleted, attendees notified", rec.EventID)
		return true
	case errors.Is(err, ErrEventGone):
		log.Printf("meetings: event %s was already gone", rec.EventID)
		return true
	default:
		log.Printf("meetings: warning: could not delete event %s: %v", rec.EventID, err)
		return false
	}
}

func (m *Manager) cancelCredential(ctx context.Context, mentorEmail string) (Credential, error) {
	if m.adminCred != nil {
		return *m.adminCred, nil
	}
	if mentorEmail == "" {
		return Credential{}, ErrNotAuthenticated
	}
	return m.mentorCredential(ctx, mentorEmail)
}

func isAuthFailure(err error) bool {
	var rerr *oauth2.RetrieveError
	return errors.As(err, &rerr)
}
