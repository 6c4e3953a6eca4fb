package lib

// EventType labels the observable bulletin notifications
type EventType string

const (
	// EventViewPublished is emitted when a commitment is written to the bulletin
	EventViewPublished EventType = "view-published"
	// EventViewConflict is emitted when the committee disagrees on a view or a rolling hash fails verification
	EventViewConflict EventType = "view-conflict"
	// EventViewApprovalRequest is emitted when a novel view needs committee approval
	EventViewApprovalRequest EventType = "view-approval-request"
)

// Event is a fire-and-forget notification with no acknowledgement or replay; events are the
// only way external observers learn of publications, approval requests, and conflicts
type Event struct {
	Type        EventType `json:"eventType"`
	Height      int64     `json:"height"`
	Member      MemberID  `json:"member"`
	View        HexBytes  `json:"view,omitempty"`
	RollingHash string    `json:"rollingHash,omitempty"`
}

type Events []*Event

// NewViewPublishedEvent() builds the notification for a committed view
func NewViewPublishedEvent(height int64, member MemberID, view HexBytes) *Event {
	return &Event{Type: EventViewPublished, Height: height, Member: member, View: view}
}

// NewViewConflictEvent() builds the notification for a view/hash disagreement
func NewViewConflictEvent(height int64, member MemberID, view HexBytes, rollingHash string) *Event {
	return &Event{Type: EventViewConflict, Height: height, Member: member, View: view, RollingHash: rollingHash}
}

// NewViewApprovalRequestEvent() builds the notification asking the committee to evaluate a view
func NewViewApprovalRequestEvent(height int64, member MemberID, view HexBytes) *Event {
	return &Event{Type: EventViewApprovalRequest, Height: height, Member: member, View: view}
}

// EventTracker collects emitted events for the host to drain; an optional OnEvent callback
// receives each event as it fires
type EventTracker struct {
	OnEvent func(*Event) // optional fire-and-forget subscriber
	events  Events       // the captured events
}

// NewEventTracker() returns an empty tracker
func NewEventTracker() *EventTracker { return &EventTracker{} }

// Add() captures an event and notifies the subscriber if any
func (t *EventTracker) Add(event *Event) {
	if t == nil {
		return
	}
	t.events = append(t.events, event)
	if t.OnEvent != nil {
		t.OnEvent(event)
	}
}

// Events() is an accessor for the captured events
func (t *EventTracker) Events() Events {
	if t == nil {
		return nil
	}
	return t.events
}

// Len() returns the number of captured events
func (t *EventTracker) Len() int {
	if t == nil {
		return 0
	}
	return len(t.events)
}

// Reset() resets the event tracker and returns the captured events
func (t *EventTracker) Reset() (e Events) {
	if t == nil {
		return
	}
	// save
	e = t.events
	// reset
	t.events = nil
	// exit
	return
}
