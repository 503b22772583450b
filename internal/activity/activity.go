// Package activity records who decided a gate pass, answered a query or
// marked attendance, and when. Events travel over a queue and are persisted by
// a consumer so request latency does not depend on the audit write.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"chitkaraconnect/internal/metrics"
	"chitkaraconnect/internal/queue"
)

// Kind names an activity.
type Kind string

const (
	GatepassDecided  Kind = "gatepass.decided"
	QuerySolved      Kind = "query.solved"
	AttendanceMarked Kind = "attendance.marked"
)

// Event is one audited state change.
type Event struct {
	ID        string    `bson:"_id" json:"id"`
	Kind      Kind      `bson:"kind" json:"kind"`
	SubjectID string    `bson:"subjectId" json:"subjectId"`
	Status    string    `bson:"status" json:"status"`
	ActorRole string    `bson:"actorRole,omitempty" json:"actorRole,omitempty"`
	ActorID   int64     `bson:"actorId,omitempty" json:"actorId,omitempty"`
	At        time.Time `bson:"at" json:"at"`
}

// Actor identifies who performed a change. The zero value means anonymous.
type Actor struct {
	Role string
	ID   int64
}

// Recorder accepts events.
type Recorder interface {
	Record(ctx context.Context, evt Event) error
}

// Discard drops every event.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(context.Context, Event) error { return nil }

// NewEvent stamps an event with an id and the current time.
func NewEvent(kind Kind, subjectID, status string, actor Actor) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		SubjectID: subjectID,
		Status:    status,
		ActorRole: actor.Role,
		ActorID:   actor.ID,
		At:        time.Now().UTC(),
	}
}

// Publisher puts events on a queue.
type Publisher struct {
	q queue.Queue
}

// NewPublisher creates a publisher over q.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{q: q}
}

// Record enqueues evt.
func (p *Publisher) Record(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.q.Publish(ctx, queue.Message{Type: string(evt.Kind), Body: body}); err != nil {
		metrics.QueuePublishFailures.Inc()
		return fmt.Errorf("publish %s: %w", evt.Kind, err)
	}
	return nil
}

// Decode parses a queued message.
func Decode(msg queue.Message) (Event, error) {
	var evt Event
	if err := json.Unmarshal(msg.Body, &evt); err != nil {
		return Event{}, fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	if evt.ID == "" {
		return Event{}, fmt.Errorf("decode %s: missing id", msg.Type)
	}
	return evt, nil
}

// Consume persists queued events until ctx is cancelled.
func Consume(ctx context.Context, q queue.Queue, s Store) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("queue consume init: %w", err)
	}
	for msg := range messages {
		evt, err := Decode(msg)
		if err != nil {
			log.Printf("activity: %v", err)
			metrics.ActivityPersisted.WithLabelValues("invalid").Inc()
			continue
		}
		if err := s.Insert(ctx, evt); err != nil {
			log.Printf("activity: store %s %s failed: %v", evt.Kind, evt.ID, err)
			metrics.ActivityPersisted.WithLabelValues("error").Inc()
			continue
		}
		metrics.ActivityPersisted.WithLabelValues("ok").Inc()
	}
	return nil
}
