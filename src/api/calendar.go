package main

import (
	"context"
	"errors"

	"github.com/ummah-scheduler/scheduler/src/meetings"
)

var errNoCalendar = errors.New("google calendar is not configured")

// unconfiguredCalendar fails every call so the API can still serve the
// dashboard without Google credentials.
type unconfiguredCalendar struct{}

func (unconfiguredCalendar) CreateEvent(context.Context, meetings.Credential, meetings.Meeting) (meetings.Event, error) {
	return meetings.Event{}, errNoCalendar
}

func (unconfiguredCalendar) DeleteEvent(context.Context, meetings.Credential, string) error {
	return errNoCalendar
}
