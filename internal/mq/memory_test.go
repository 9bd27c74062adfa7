package mq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sportify-app/apiserver/config"
)

func waitForSubscribers(t *testing.T, b *MemoryBroker, channel string, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for b.Subscribers(channel) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d subscribers on %s", n, channel)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestMemoryBrokerDeliversToSubscriber(t *testing.T) {
	broker := NewMemoryBroker(4)
	defer broker.Close()
	m := New(broker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- m.Subscribe(ctx, "match-notifications", func(_ context.Context, msg Message) error {
			received <- msg
			return nil
		})
	}()
	waitForSubscribers(t, broker, "match-notifications", 1)

	id, err := m.Publish(ctx, "match-notifications", []byte(`{"type":"match.joined"}`), map[string]string{AttrContentType: "application/json"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-received:
		if msg.ID != id {
			t.Fatalf("expected id %s, got %s", id, msg.ID)
		}
		if string(msg.Data) != `{"type":"match.joined"}` {
			t.Fatalf("unexpected payload %s", msg.Data)
		}
		if msg.Attributes[AttrContentType] != "application/json" {
			t.Fatalf("content type not carried: %v", msg.Attributes)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message not delivered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n := broker.Subscribers("match-notifications"); n != 0 {
		t.Fatalf("expected subscriber to be removed, got %d", n)
	}
}

func TestMemoryBrokerWithoutSubscribers(t *testing.T) {
	broker := NewMemoryBroker(0)
	defer broker.Close()

	if _, err := broker.Publish(context.Background(), "nobody", []byte("x"), nil); err != nil {
		t.Fatalf("publish without subscribers: %v", err)
	}
}

func TestMemoryBrokerClosed(t *testing.T) {
	broker := NewMemoryBroker(0)
	broker.Close()

	if _, err := broker.Publish(context.Background(), "c", nil, nil); !errors.Is(err, ErrBrokerClosed) {
		t.Fatalf("expected ErrBrokerClosed, got %v", err)
	}
	if err := broker.Subscribe(context.Background(), "c", func(context.Context, Message) error { return nil }); !errors.Is(err, ErrBrokerClosed) {
		t.Fatalf("expected ErrBrokerClosed, got %v", err)
	}
}

func TestNewFromConfig(t *testing.T) {
	m, err := NewFromConfig(context.Background(), config.BrokerConfig{})
	if err != nil || m != nil {
		t.Fatalf("expected disabled broker, got %v %v", m, err)
	}

	m, err = NewFromConfig(context.Background(), config.BrokerConfig{Backend: BackendMemory})
	if err != nil || m == nil {
		t.Fatalf("expected memory broker, got %v %v", m, err)
	}
	m.Close()

	if _, err := NewFromConfig(context.Background(), config.BrokerConfig{Backend: "kafka"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
