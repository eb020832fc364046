package manager

import (
	"sync"
	"time"
)

// NotificationType classifies the severity of a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// NotificationKind names the lifecycle event behind a notification. A
// connection error is deliberately distinct from a provider-reported
// failure: it means the manager lost the ability to observe the job at all.
type NotificationKind string

const (
	KindGenerationStarted   NotificationKind = "generation-started"
	KindEditingStarted      NotificationKind = "editing-started"
	KindGenerationCompleted NotificationKind = "generation-completed"
	KindGenerationFailed    NotificationKind = "generation-failed"
	KindJobCancelled        NotificationKind = "job-cancelled"
	KindCancelFailed        NotificationKind = "cancel-failed"
	KindConnectionError     NotificationKind = "connection-error"
)

// Notification is a sequenced lifecycle message fanned out to subscribers.
type Notification struct {
	Seq       int64            `json:"seq"`
	Timestamp time.Time        `json:"timestamp"`
	JobID     string           `json:"jobId,omitempty"`
	Type      NotificationType `json:"type"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message,omitempty"`
}

// EventBus stores recent notifications and provides incremental reads.
type EventBus struct {
	mu      sync.RWMutex
	nextSeq int64
	max     int
	events  []Notification
}

// NewEventBus creates a bounded in-memory notification buffer.
func NewEventBus(max int) *EventBus {
	if max <= 0 {
		max = 200
	}
	return &EventBus{
		max:    max,
		events: make([]Notification, 0, max),
	}
}

// Publish appends one notification and assigns sequence and timestamp.
func (b *EventBus) Publish(n Notification) Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	n.Seq = b.nextSeq
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, n)
	if len(b.events) > b.max {
		trim := len(b.events) - b.max
		b.events = append([]Notification(nil), b.events[trim:]...)
	}

	return n
}

// Since returns notifications with sequence strictly greater than seq.
func (b *EventBus) Since(seq int64) []Notification {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.events) == 0 {
		return nil
	}

	out := make([]Notification, 0, len(b.events))
	for _, n := range b.events {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}
