// Package usersink forwards style engine activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/goliatone/go-styles/pkg/activity"
)

// Hook is an activity.ActivityHook writing to Sink. Engine events rarely carry
// identity, so ActorID and TenantID stand in when an event has none or its
// IDs are not UUIDs.
type Hook struct {
	Sink     usertypes.ActivitySink
	ActorID  uuid.UUID
	TenantID uuid.UUID
}

var _ activity.ActivityHook = Hook{}

// Notify implements activity.ActivityHook.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}
	record, ok := h.Record(event)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, record)
}

// Record maps event to an ActivityRecord. It reports false for events
// missing a verb or object.
func (h Hook) Record(event activity.Event) (usertypes.ActivityRecord, bool) {
	event = activity.NormalizeEvent(event)
	if !event.Complete() {
		return usertypes.ActivityRecord{}, false
	}
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return usertypes.ActivityRecord{
		ActorID:    uuidOr(event.ActorID, h.ActorID),
		TenantID:   uuidOr(event.TenantID, h.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       event.Metadata,
		OccurredAt: occurred,
	}, true
}

func uuidOr(raw string, fallback uuid.UUID) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return id
	}
	return fallback
}
