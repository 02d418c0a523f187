package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/serenehq/serene-backend/internal/pkg/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan Message, timeout time.Duration) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for message")
	}
	return Message{}
}

func TestHubDeliversToOwnChannelOnly(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userA := uuid.New()
	userB := uuid.New()

	clientA := hub.Subscribe(userA, userA.String())
	clientB := hub.Subscribe(userB, userB.String())

	hub.Broadcast(Message{
		Channel: userA.String(),
		Event:   EventPreferenceSummaryReady,
		Data:    map[string]any{"preference_summary_id": uuid.New().String()},
	})

	got := recvMessage(t, clientA.Outbound, time.Second)
	if got.Event != EventPreferenceSummaryReady {
		t.Fatalf("event: want=%s got=%s", EventPreferenceSummaryReady, got.Event)
	}
	select {
	case msg := <-clientB.Outbound:
		t.Fatalf("clientB received a message for another user's channel: %+v", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubUnsubscribeClosesOutbound(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.Subscribe(userID, userID.String())

	hub.Unsubscribe(client)

	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after unsubscribe")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for channel close")
	}

	// Broadcast after unsubscribe must not panic on the closed channel.
	hub.Broadcast(Message{Channel: userID.String(), Event: EventConversationSaved})
}

func TestHubDropsForSlowClient(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()
	client := hub.Subscribe(userID, userID.String())

	// Never drained: fill the buffer and then some. Broadcast must not block.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < cap(client.Outbound)+10; i++ {
			hub.Broadcast(Message{Channel: userID.String(), Event: EventConversationSaved, Data: map[string]any{"seq": i}})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked on a slow client")
	}
	if got := len(client.Outbound); got != cap(client.Outbound) {
		t.Fatalf("buffered messages: want=%d got=%d", cap(client.Outbound), got)
	}
}

func TestHubReconnectGetsNewMessages(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	userID := uuid.New()

	first := hub.Subscribe(userID, userID.String())
	hub.Unsubscribe(first)

	second := hub.Subscribe(userID, userID.String())
	hub.Broadcast(Message{Channel: userID.String(), Event: EventPreferenceSummaryReady})

	got := recvMessage(t, second.Outbound, time.Second)
	if got.Event != EventPreferenceSummaryReady {
		t.Fatalf("event after reconnect: want=%s got=%s", EventPreferenceSummaryReady, got.Event)
	}
}
