package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stackmatch/internal/session"
)

func TestEventBridgeForwardsEvents(t *testing.T) {
	bus := session.NewEventBus()
	bridge, unsubscribe := NewEventBridge(bus, testLogger())

	bus.Publish(session.TickEvent{ElapsedSeconds: 1})
	bus.Publish(session.TickEvent{ElapsedSeconds: 2})

	msg := bridge.Wait()()
	require.IsType(t, EventMsg{}, msg)
	assert.Equal(t, session.TickEvent{ElapsedSeconds: 1}, msg.(EventMsg).Event)

	rest := bridge.Drain()
	require.Len(t, rest, 1)
	assert.Equal(t, 2, rest[0].(session.TickEvent).ElapsedSeconds)

	unsubscribe()
	bus.Publish(session.TickEvent{ElapsedSeconds: 3})
	assert.Empty(t, bridge.Drain())
}

func TestEventBridgeDropsWhenFull(t *testing.T) {
	bus := session.NewEventBus()
	bridge, unsubscribe := NewEventBridge(bus, testLogger())
	defer unsubscribe()

	for i := range eventBuffer + 10 {
		bus.Publish(session.TickEvent{ElapsedSeconds: i})
	}

	assert.Equal(t, int64(10), bridge.Dropped())
	assert.Len(t, bridge.Drain(), eventBuffer)
}
