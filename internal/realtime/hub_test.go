package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

func TestHubPush(t *testing.T) {
	hub := NewHub(nil)

	t.Run("event reaches every connection of the user", func(t *testing.T) {
		first := hub.Register("alice")
		second := hub.Register("alice")
		defer hub.Unregister(first)
		defer hub.Unregister(second)

		event := domain.PushEvent{Type: domain.NotificationTaskShared, Message: "hi", TaskID: "task-1"}
		hub.Push("alice", event)

		assert.Equal(t, event, <-first.Send)
		assert.Equal(t, event, <-second.Send)
	})

	t.Run("push to absent user is a no-op", func(t *testing.T) {
		hub.Push("nobody", domain.PushEvent{Type: domain.NotificationTaskUpdated})
	})

	t.Run("other users receive nothing", func(t *testing.T) {
		alice := hub.Register("alice")
		bob := hub.Register("bob")
		defer hub.Unregister(alice)
		defer hub.Unregister(bob)

		hub.Push("bob", domain.PushEvent{Type: domain.NotificationTaskCompleted})

		assert.Len(t, bob.Send, 1)
		assert.Len(t, alice.Send, 0)
	})
}

func TestHubFullBufferDrops(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("alice")
	defer hub.Unregister(client)

	event := domain.PushEvent{Type: domain.NotificationTaskUpdated}
	for i := 0; i < sendBuffer+5; i++ {
		hub.Push("alice", event)
	}

	// Overflow is dropped rather than blocking the publisher.
	assert.Len(t, client.Send, sendBuffer)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(nil)

	client := hub.Register("alice")
	require.Equal(t, 1, hub.Connections("alice"))

	hub.Unregister(client)
	assert.Equal(t, 0, hub.Connections("alice"))

	_, open := <-client.Send
	assert.False(t, open)

	// Double unregister and nil are both safe.
	hub.Unregister(client)
	hub.Unregister(nil)
}
