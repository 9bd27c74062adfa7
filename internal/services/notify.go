package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sportify-app/apiserver/internal/mq"
)

const (
	NotificationMatchCreated  = "match.created"
	NotificationMatchJoined   = "match.joined"
	NotificationMatchReminder = "match.reminder"
)

// Notification is the payload published when something happens to a match.
// Delivery to devices is handled by downstream consumers of the channel.
type Notification struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	MatchID int       `json:"match_id"`
	UserID  int       `json:"user_id,omitempty"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Count   int       `json:"count,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}

// Notifier hands notifications over to a delivery channel.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Publisher is the broker surface a BrokerNotifier needs. *mq.MQ satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// BrokerNotifier publishes notifications as JSON onto a broker channel.
type BrokerNotifier struct {
	publisher Publisher
	channel   string
}

func NewBrokerNotifier(publisher Publisher, channel string) *BrokerNotifier {
	return &BrokerNotifier{publisher: publisher, channel: channel}
}

func (n *BrokerNotifier) Notify(ctx context.Context, note Notification) error {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}
	if note.SentAt.IsZero() {
		note.SentAt = time.Now().UTC()
	}
	data, err := json.Marshal(note)
	if err != nil {
		return err
	}
	_, err = n.publisher.Publish(ctx, n.channel, data, map[string]string{
		mq.AttrContentType: "application/json",
		"type":             note.Type,
		"notification_id":  note.ID,
	})
	return err
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notification) error { return nil }

// NopNotifier discards every notification.
func NopNotifier() Notifier { return nopNotifier{} }
