package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubPublishAndUnsubscribe(t *testing.T) {
	hub := NewHub[int]()

	var a, b []int
	unsubA := hub.Subscribe(func(v int) { a = append(a, v) })
	hub.Subscribe(func(v int) { b = append(b, v) })
	assert.Equal(t, 2, hub.Len())

	hub.Publish(1)
	unsubA()
	unsubA()
	hub.Publish(2)

	assert.Equal(t, []int{1}, a)
	assert.Equal(t, []int{1, 2}, b)
	assert.Equal(t, 1, hub.Len())
}

func TestHubSubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	hub := NewHub[string]()
	calls := 0
	var unsub func()
	unsub = hub.Subscribe(func(string) {
		calls++
		unsub()
	})

	hub.Publish("x")
	hub.Publish("y")
	assert.Equal(t, 1, calls)
}
