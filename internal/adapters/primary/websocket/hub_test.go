package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferren/application-rollup-backend/internal/core/domain"
	"github.com/ferren/application-rollup-backend/internal/infrastructure/logging"
)

func registerClient(t *testing.T, hub *Hub, client *Client) {
	t.Helper()
	select {
	case hub.Register <- client:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept the registration")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	go hub.Run()

	a := NewClient(hub, nil, logging.NewNopLogger())
	b := NewClient(hub, nil, logging.NewNopLogger())
	registerClient(t, hub, a)
	registerClient(t, hub, b)

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventReportUpdated, RequestID: 1}))

	for _, client := range []*Client{a, b} {
		select {
		case event := <-client.Send:
			assert.Equal(t, domain.EventReportUpdated, event.Type)
		case <-time.After(time.Second):
			t.Fatal("client never received the broadcast")
		}
	}
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	go hub.Run()

	client := NewClient(hub, nil, logging.NewNopLogger())
	registerClient(t, hub, client)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	select {
	case hub.Unregister <- client:
	case <-time.After(time.Second):
		t.Fatal("hub did not accept the unregistration")
	}

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 5*time.Millisecond)

	// The send channel is closed exactly once.
	_, open := <-client.Send
	assert.False(t, open)
}

// A client that stops draining its Send channel must be dropped without
// stalling the hub: the run loop has to keep accepting registrations and
// broadcasts afterwards.
func TestHub_SlowClientDoesNotStallRunLoop(t *testing.T) {
	hub := NewHub(logging.NewNopLogger())
	go hub.Run()

	slow := NewClient(hub, nil, logging.NewNopLogger())
	registerClient(t, hub, slow)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	// Fill the slow client's buffer so the next broadcast cannot be queued.
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- domain.Event{Type: domain.EventReportUpdated}
	}

	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventReportUpdated, RequestID: 2}))

	// The hub must still be serving its channels.
	fresh := NewClient(hub, nil, logging.NewNopLogger())
	registerClient(t, hub, fresh)

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 5*time.Millisecond, "slow client dropped, fresh client registered")

	// The fresh client may have caught the earlier broadcast depending on
	// arrival order; drop anything already queued.
	for len(fresh.Send) > 0 {
		<-fresh.Send
	}

	// And broadcasts still flow to the remaining client.
	require.NoError(t, hub.Broadcast(domain.Event{Type: domain.EventReportUpdated, RequestID: 3}))
	select {
	case event := <-fresh.Send:
		assert.Equal(t, uint64(3), event.RequestID)
	case <-time.After(time.Second):
		t.Fatal("broadcast never reached the remaining client")
	}
}
