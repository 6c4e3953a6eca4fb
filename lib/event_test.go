package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventTracker(t *testing.T) {
	tracker := NewEventTracker()
	// the subscriber sees each event as it fires
	var notified []EventType
	tracker.OnEvent = func(e *Event) { notified = append(notified, e.Type) }
	member := MemberID{0x1}
	tracker.Add(NewViewApprovalRequestEvent(1, member, []byte("View")))
	tracker.Add(NewViewPublishedEvent(1, member, []byte("View")))
	tracker.Add(NewViewConflictEvent(2, member, []byte("Other"), RollingHashNone))
	require.Equal(t, 3, tracker.Len())
	require.Equal(t, []EventType{EventViewApprovalRequest, EventViewPublished, EventViewConflict}, notified)
	// reset drains the captured events
	drained := tracker.Reset()
	require.Len(t, drained, 3)
	require.Zero(t, tracker.Len())
	require.Empty(t, tracker.Events())
	// constructors stamp the type-specific fields
	require.Equal(t, RollingHashNone, drained[2].RollingHash)
	require.Empty(t, drained[0].RollingHash)
}

func TestEventTrackerNil(t *testing.T) {
	// a nil tracker swallows everything without panicking
	var tracker *EventTracker
	tracker.Add(NewViewPublishedEvent(1, MemberID{}, nil))
	require.Zero(t, tracker.Len())
	require.Nil(t, tracker.Events())
	require.Nil(t, tracker.Reset())
}
