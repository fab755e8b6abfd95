package websocket

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, userID, groupID int64, sendBuffer int) *Client {
	return &Client{
		hub:     h,
		send:    make(chan []byte, sendBuffer),
		userID:  userID,
		groupID: groupID,
		logger:  zerolog.Nop(),
	}
}

func TestBroadcastReachesOnlyTheMessagesGroup(t *testing.T) {
	h := NewHub(zerolog.Nop())

	member := newTestClient(h, 1, 10, 1)
	otherGroup := newTestClient(h, 2, 20, 1)
	h.registerClient(member)
	h.registerClient(otherGroup)

	h.broadcastMessage(&Message{GroupID: 10, SenderID: 1, Type: "text", Text: "hello"})

	select {
	case data := <-member.send:
		assert.Contains(t, string(data), `"hello"`)
	default:
		t.Fatal("group member did not receive the broadcast")
	}

	select {
	case <-otherGroup.send:
		t.Fatal("client in another group received the broadcast")
	default:
	}
}

func TestBroadcastDropsStalledClientWithoutBlocking(t *testing.T) {
	h := NewHub(zerolog.Nop())

	healthy := newTestClient(h, 1, 10, 1)
	stalled := newTestClient(h, 2, 10, 0)
	h.registerClient(healthy)
	h.registerClient(stalled)

	// broadcastMessage runs on the hub goroutine in production; if it
	// routed the drop through the unregister channel it would block here
	// forever, since nothing else services that channel.
	done := make(chan struct{})
	go func() {
		h.broadcastMessage(&Message{GroupID: 10, SenderID: 1, Type: "text", Text: "hello"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast blocked on a stalled client")
	}

	assert.Equal(t, 1, h.GetClientsCount(10), "the stalled client was dropped")

	select {
	case data := <-healthy.send:
		assert.Contains(t, string(data), `"hello"`)
	default:
		t.Fatal("healthy client did not receive the broadcast")
	}

	_, open := <-stalled.send
	assert.False(t, open, "the stalled client's send channel was closed")
}

func TestBroadcastAfterStalledDropStillDelivers(t *testing.T) {
	h := NewHub(zerolog.Nop())

	healthy := newTestClient(h, 1, 10, 2)
	stalled := newTestClient(h, 2, 10, 0)
	h.registerClient(healthy)
	h.registerClient(stalled)

	h.broadcastMessage(&Message{GroupID: 10, Type: "text", Text: "first"})
	h.broadcastMessage(&Message{GroupID: 10, Type: "text", Text: "second"})

	require.Len(t, healthy.send, 2, "the hub keeps delivering after dropping a stalled client")
}

func TestUnregisterClientCleansUpEmptyGroup(t *testing.T) {
	h := NewHub(zerolog.Nop())

	client := newTestClient(h, 1, 10, 1)
	h.registerClient(client)
	require.Equal(t, 1, h.GetClientsCount(10))

	h.unregisterClient(client)
	assert.Equal(t, 0, h.GetClientsCount(10))

	// Unregistering twice is a no-op, not a double close
	h.unregisterClient(client)
}

func TestStopUnblocksBroadcastToGroup(t *testing.T) {
	h := NewHub(zerolog.Nop())
	h.Stop()
	h.Stop()

	done := make(chan struct{})
	go func() {
		h.BroadcastToGroup(&Message{GroupID: 10, Type: "text", Text: "late"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("BroadcastToGroup blocked after Stop")
	}
}

func TestRunServesRegistrationAndBroadcast(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()
	defer h.Stop()

	client := newTestClient(h, 1, 10, 1)
	h.register <- client

	h.BroadcastToGroup(&Message{GroupID: 10, SenderID: 1, Type: "text", Text: "hello"})

	select {
	case data := <-client.send:
		assert.Contains(t, string(data), `"hello"`)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not reach the registered client")
	}
}
