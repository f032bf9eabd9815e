package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	var f Feed[int]
	var order []string

	f.Subscribe(func(int) { order = append(order, "first") })
	f.Subscribe(func(int) { order = append(order, "second") })

	f.Publish(1)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestCancelStopsDelivery(t *testing.T) {
	var f Feed[string]
	var got []string

	cancel := f.Subscribe(func(v string) { got = append(got, v) })
	f.Publish("a")
	cancel()
	f.Publish("b")

	assert.Equal(t, []string{"a"}, got)
	assert.Zero(t, f.Len())
}

func TestCancelIsIdempotent(t *testing.T) {
	var f Feed[int]
	keep := 0
	cancel := f.Subscribe(func(int) {})
	f.Subscribe(func(int) { keep++ })

	cancel()
	cancel()

	f.Publish(1)
	assert.Equal(t, 1, keep)
	assert.Equal(t, 1, f.Len())
}

func TestSubscriberMayCancelItselfDuringDelivery(t *testing.T) {
	var f Feed[int]
	calls := 0
	var cancel func()
	cancel = f.Subscribe(func(int) {
		calls++
		cancel()
	})

	f.Publish(1)
	f.Publish(2)
	assert.Equal(t, 1, calls)
}

func TestPublishWithNoSubscribers(t *testing.T) {
	var f Feed[int]
	assert.NotPanics(t, func() { f.Publish(42) })
}
