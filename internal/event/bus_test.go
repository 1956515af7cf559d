package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBusDeliversToEverySubscriber(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	first, unsubscribeFirst := bus.Subscribe()
	defer unsubscribeFirst()
	second, unsubscribeSecond := bus.Subscribe()
	defer unsubscribeSecond()

	bus.Publish(New(TypeProductCreated, "7", map[string]any{"name": "Pen"}))

	for _, ch := range []<-chan Event{first, second} {
		select {
		case e := <-ch:
			require.Equal(t, TypeProductCreated, e.Type)
			require.Equal(t, "7", e.Key)
			require.NotEmpty(t, e.ID)
			require.NotEmpty(t, e.Timestamp)
		case <-time.After(time.Second):
			t.Fatal("event not delivered")
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	require.False(t, open)

	bus.Publish(New(TypeProductDeleted, "1", nil))
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(New(TypeProductUpdated, "1", nil))
	}

	require.Len(t, ch, subscriberBuffer)
}
