package publisher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublisherFanOut(t *testing.T) {
	pub := NewInMemoryPublisher(zap.NewNop())
	require.NoError(t, pub.AddTopic("events"))

	got := make(chan *Message, 2)
	handler := func(msg *Message) error {
		got <- msg
		return nil
	}

	id1, err := pub.Subscribe("events", handler)
	require.NoError(t, err)
	id2, err := pub.Subscribe("events", handler)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	msg := Message{Topic: "events", Source: "127.0.0.1:1234", Data: []byte("ping")}
	require.NoError(t, pub.Publish("events", msg))

	for i := 0; i < 2; i++ {
		select {
		case m := <-got:
			assert.Equal(t, msg.Source, m.Source)
			assert.Equal(t, msg.Data, m.Data)
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber did not receive message")
		}
	}
}

func TestPublisherUnsubscribe(t *testing.T) {
	pub := NewInMemoryPublisher(zap.NewNop())
	require.NoError(t, pub.AddTopic("events"))

	var mu sync.Mutex
	calls := 0
	id, err := pub.Subscribe("events", func(msg *Message) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pub.Unsubscribe("events", id))
	require.NoError(t, pub.Publish("events", Message{Topic: "events"}))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 0, calls)
	mu.Unlock()

	assert.Error(t, pub.Unsubscribe("events", id))
}

func TestPublisherUnknownTopic(t *testing.T) {
	pub := NewInMemoryPublisher(zap.NewNop())

	assert.Error(t, pub.Publish("missing", Message{}))

	_, err := pub.Subscribe("missing", func(*Message) error { return nil })
	assert.Error(t, err)

	require.NoError(t, pub.AddTopic("events"))
	assert.Error(t, pub.AddTopic("events"))
}
