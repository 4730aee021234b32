package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/circlehq/circles-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
	ID        string
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
			ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// NoopEventBus satisfies EventBus without a broker. Used in development
// and tests where NATS is not running.
type NoopEventBus struct{}

func NewNoopEventBus() *NoopEventBus { return &NoopEventBus{} }

func (n *NoopEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.DebugContext(ctx, "Event dropped (noop bus)", "subject", subject)
	return nil
}

func (n *NoopEventBus) Subscribe(string, func(msg *Message)) error              { return nil }
func (n *NoopEventBus) QueueSubscribe(string, string, func(msg *Message)) error { return nil }
func (n *NoopEventBus) Close() error                                            { return nil }

// Event subjects
const (
	BookingCreated       = "booking.created"
	BookingStatusChanged = "booking.status_changed"
	BookingCanceled      = "booking.canceled"

	IncidentCreated  = "incident.created"
	IncidentAdvanced = "incident.advanced"

	PostCreated  = "post.created"
	PostThanked  = "post.thanked"
	AskClaimed   = "ask.claimed"
	AskCompleted = "ask.completed"

	MemberJoined = "member.joined"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	CircleID  string    `json:"circle_id"`
	AmenityID string    `json:"amenity_id"`
	UserID    string    `json:"user_id"`
	StartAt   time.Time `json:"start_at"`
	EndAt     time.Time `json:"end_at"`
	Status    string    `json:"status"`
}

type BookingStatusChangedEvent struct {
	BookingID string `json:"booking_id"`
	CircleID  string `json:"circle_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	ActorID   string `json:"actor_id"`
}

type IncidentEvent struct {
	IncidentID string `json:"incident_id"`
	CircleID   string `json:"circle_id"`
	Status     string `json:"status"`
	Severity   string `json:"severity"`
}

type PostCreatedEvent struct {
	PostID    string    `json:"post_id"`
	CircleID  string    `json:"circle_id"`
	AuthorID  string    `json:"author_id"`
	Lane      string    `json:"lane"`
	Kind      string    `json:"kind"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AskEvent struct {
	PostID    string `json:"post_id"`
	CircleID  string `json:"circle_id"`
	ClaimerID string `json:"claimer_id"`
	Status    string `json:"status"`
}

type MemberJoinedEvent struct {
	MembershipID string `json:"membership_id"`
	CircleID     string `json:"circle_id"`
	UserID       string `json:"user_id"`
	Role         string `json:"role"`
}
