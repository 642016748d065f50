package meetings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ummah-scheduler/scheduler/src/api/data"
	"github.com/ummah-scheduler/scheduler/src/api/types"
	"github.com/ummah-scheduler/scheduler/src/workflow"
)

type fakeCalendar struct {
	created   []Meeting
	deleted   []string
	createErr error
	deleteErr error
	lastCred  Credential
}

func (f *fakeCalendar) CreateEvent(_ context.Context, cred Credential, m Meeting) (Event, error) {
	f.lastCred = cred
	if f.createErr != nil {
		return Event{}, f.createErr
	}
	f.created = append(f.created, m)
	return Event{ID: "evt-1", HTMLLink: "https://calendar.example/evt-1", MeetLink: "https://meet.example/abc"}, nil
}

func (f *fakeCalendar) DeleteEvent(_ context.Context, cred Credential, eventID string) error {
	f.lastCred = cred
	f.deleted = append(f.deleted, eventID)
	return f.deleteErr
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *fakeCalendar, *MemorySessionStore, *workflow.Store) {
	t.Helper()
	db, err := data.Open("sqlite", filepath.Join(t.TempDir(), "meetings.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if _, err := data.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := workflow.NewStore(db)
	cal := &fakeCalendar{}
	sessions := NewMemorySessionStore(time.Hour)
	return NewManager(cal, sessions, store, opts...), cal, sessions, store
}

func TestProposeWithoutCredentialChangesNothing(t *testing.T) {
	ctx := context.Background()
	m, cal, _, store := newTestManager(t)
	if err := store.Upsert(ctx, types.SubmissionRecord{ID: "7", Name: "Yusuf", Status: types.StatusToDo}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := m.Propose(ctx, ProposeRequest{
		SubmissionID: "7",
		StudentEmail: "yusuf@example.org",
		MentorEmail:  "mentor@example.org",
		Time:         "2025-10-01T15:00:00Z",
	})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(cal.created) != 0 {
		t.Fatalf("calendar should not be called, got %d events", len(cal.created))
	}
	rec, err := store.Get(ctx, "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Status != types.StatusToDo || rec.EventID != "" || rec.PickedByEmail != "" {
		t.Fatalf("record changed: %+v", rec)
	}
}

func TestProposeCreatesEventAndMarksInProgress(t *testing.T) {
	ctx := context.Background()
	m, cal, sessions, store := newTestManager(t)
	if err := sessions.Put(ctx, Credential{Email: "Mentor@Example.org", AccessToken: "tok", RefreshToken: "ref"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	p, err := m.Propose(ctx, ProposeRequest{
		SubmissionID: "7",
		StudentEmail: "yusuf@example.org",
		MentorEmail:  "mentor@example.org",
		Time:         "2025-10-01T15:00",
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if p.EventLink != "https://calendar.example/evt-1" {
		t.Fatalf("unexpected link %q", p.EventLink)
	}
	if len(cal.created) != 1 {
		t.Fatalf("expected one event, got %d", len(cal.created))
	}
	got := cal.created[0]
	if got.End.Sub(got.Start) != MeetingLength {
		t.Fatalf("unexpected duration %v", got.End.Sub(got.Start))
	}
	if len(got.Attendees) != 2 || got.Attendees[0] != "mentor@example.org" || got.Attendees[1] != "yusuf@example.org" {
		t.Fatalf("unexpected attendees %v", got.Attendees)
	}
	if got.RequestID != ConferenceRequestID("mentor@example.org", got.Start) {
		t.Fatalf("request id not derived from mentor and start")
	}

	rec, err := store.Get(ctx, "7")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Status != types.StatusInProgress || rec.PickedByEmail != "mentor@example.org" || rec.EventID != "evt-1" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Email != "yusuf@example.org" {
		t.Fatalf("student email not stored on insert: %q", rec.Email)
	}

	acts, err := store.Activity(ctx, 0)
	if err != nil {
		t.Fatalf("activity: %v", err)
	}
	if len(acts) != 1 || acts[0].Action != types.ActionPropose {
		t.Fatalf("expected a propose action, got %+v", acts)
	}
}

func TestProposeValidatesInput(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Propose(ctx, ProposeRequest{MentorEmail: "m@example.org", Time: "2025-10-01T15:00:00Z"}); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	_, err := m.Propose(ctx, ProposeRequest{StudentEmail: "s@example.org", MentorEmail: "m@example.org", Time: "next tuesday"})
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
}

func TestCancelWithoutEventSkipsCalendar(t *testing.T) {
	ctx := context.Background()
	m, cal, _, store := newTestManager(t)
	if err := store.Upsert(ctx, types.SubmissionRecord{ID: "9", Name: "Huda", Status: types.StatusInProgress}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := m.Cancel(ctx, "9")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c.StudentName != "Huda" {
		t.Fatalf("unexpected name %q", c.StudentName)
	}
	if len(cal.deleted) != 0 {
		t.Fatalf("calendar should not be called")
	}
	rec, _ := store.Get(ctx, "9")
	if rec.Status != types.StatusCanceled {
		t.Fatalf("expected Canceled, got %q", rec.Status)
	}
}

func TestCancelUsesAdminCredentialAndClearsEvent(t *testing.T) {
	ctx := context.Background()
	admin := Credential{Email: "admin@example.org", RefreshToken: "admin-ref"}
	m, cal, _, store := newTestManager(t, WithAdminCredential(admin))
	if err := store.Upsert(ctx, types.SubmissionRecord{ID: "9", Status: types.StatusInProgress, PickedByEmail: "mentor@example.org", EventID: "evt-9"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := m.Cancel(ctx, "9")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !c.RemoteDeleted || len(cal.deleted) != 1 || cal.deleted[0] != "evt-9" {
		t.Fatalf("expected remote delete of evt-9, got %+v %v", c, cal.deleted)
	}
	if cal.lastCred.Email != "admin@example.org" {
		t.Fatalf("expected admin credential, got %q", cal.lastCred.Email)
	}
	rec, _ := store.Get(ctx, "9")
	if rec.Status != types.StatusCanceled || rec.EventID != "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestCancelKeepsEventWhenRemoteDeleteFails(t *testing.T) {
	ctx := context.Background()
	m, cal, sessions, store := newTestManager(t)
	cal.deleteErr = errors.New("backend unavailable")
	_ = sessions.Put(ctx, Credential{Email: "mentor@example.org", RefreshToken: "ref"})
	if err := store.Upsert(ctx, types.SubmissionRecord{ID: "9", Status: types.StatusInProgress, PickedByEmail: "mentor@example.org", EventID: "evt-9"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c, err := m.Cancel(ctx, "9")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if c.RemoteDeleted {
		t.Fatalf("remote delete should be reported as failed")
	}
	rec, _ := store.Get(ctx, "9")
	if rec.Status != types.StatusCanceled || rec.EventID != "evt-9" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestCancelTreatsGoneEventAsDeleted(t *testing.T) {
	ctx := context.Background()
	m, cal, sessions, store := newTestManager(t)
	cal.deleteErr = ErrEventGone
	_ = sessions.Put(ctx, Credential{Email: "mentor@example.org", RefreshToken: "ref"})
	_ = store.Upsert(ctx, types.SubmissionRecord{ID: "9", PickedByEmail: "mentor@example.org", EventID: "evt-9"})

	if _, err := m.Cancel(ctx, "9"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	rec, _ := store.Get(ctx, "9")
	if rec.EventID != "" {
		t.Fatalf("event id should be cleared, got %q", rec.EventID)
	}
}

func TestCancelUnknownSubmission(t *testing.T) {
	m, _, _, _ := newTestManager(t)
	if _, err := m.Cancel(context.Background(), "missing"); !errors.Is(err, workflow.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConferenceRequestIDIsStable(t *testing.T) {
	start := time.Date(2025, 10, 1, 15, 0, 0, 0, time.UTC)
	a := ConferenceRequestID("Mentor@Example.org", start)
	b := ConferenceRequestID("mentor@example.org ", start)
	if a != b {
		t.Fatalf("ids differ: %s %s", a, b)
	}
	if a == ConferenceRequestID("mentor@example.org", start.Add(time.Minute)) {
		t.Fatalf("different start should give a different id")
	}
}

func TestParseAuthorizedUserRequiresRefreshToken(t *testing.T) {
	if _, err := ParseAuthorizedUser(`{"token":"abc"}`); err == nil {
		t.Fatalf("expected error without refresh_token")
	}
	cred, err := ParseAuthorizedUser(`{"email":"Admin@Example.org","access_token":"abc","refresh_token":"r"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cred.Email != "admin@example.org" || cred.AccessToken != "abc" {
		t.Fatalf("unexpected credential %+v", cred)
	}
}

func TestMemorySessionStoreNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessionStore(time.Hour)
	if err := s.Put(ctx, Credential{Email: " Mentor@Example.org", AccessToken: "t"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "mentor@example.org"); !ok {
		t.Fatalf("expected credential")
	}
	_ = s.Invalidate(ctx, "MENTOR@example.org")
	if _, ok, _ := s.Get(ctx, "mentor@example.org"); ok {
		t.Fatalf("expected credential removed")
	}
}

func TestCredentialUsable(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if (Credential{}).Usable(now) {
		t.Fatalf("empty credential should not be usable")
	}
	if (Credential{AccessToken: "t", Expiry: now.Add(-time.Minute)}).Usable(now) {
		t.Fatalf("expired credential without refresh should not be usable")
	}
	if !(Credential{AccessToken: "t", RefreshToken: "r", Expiry: now.Add(-time.Minute)}).Usable(now) {
		t.Fatalf("refreshable credential should be usable")
	}
}
