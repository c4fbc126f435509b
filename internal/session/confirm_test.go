package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestClear(t *testing.T) {
	t.Parallel()

	t.Run("empty stack is informational", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.RequestClear()
		require.ErrorIs(t, err, ErrStackEmpty)
		_, pending := h.Pending()
		assert.False(t, pending)
	})

	t.Run("confirm clears", func(t *testing.T) {
		h := newHarness(t)
		h.push(t, cardA, cardB)

		c, err := h.RequestClear()
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, ConfirmClear, c.Kind)
		assert.False(t, c.Applied)
		assert.Equal(t, 2, h.State().StackSize, "nothing happens before confirmation")

		require.NoError(t, h.Confirm(c.ID))
		assert.Zero(t, h.State().StackSize)
		assert.True(t, h.State().OperationsUsed.Has(OpClear))

		require.ErrorIs(t, h.Confirm(c.ID), ErrUnknownConfirmation, "tokens are single use")
	})

	t.Run("cancel keeps stack", func(t *testing.T) {
		h := newHarness(t)
		h.push(t, cardA)

		c, err := h.RequestClear()
		require.NoError(t, err)
		require.NoError(t, h.Cancel(c.ID))
		assert.Equal(t, 1, h.State().StackSize)
		require.ErrorIs(t, h.Cancel(c.ID), ErrUnknownConfirmation)
	})

	t.Run("confirm rechecks preconditions", func(t *testing.T) {
		h := newHarness(t)
		h.push(t, cardA, cardB)

		c, err := h.RequestClear()
		require.NoError(t, err)
		require.NoError(t, h.Start())
		require.ErrorIs(t, h.Confirm(c.ID), ErrSessionActive)
		assert.Equal(t, 2, h.State().StackSize)
	})
}

func TestNewRequestReplacesPending(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.push(t, cardA, cardB)

	first, err := h.RequestClear()
	require.NoError(t, err)
	second := h.RequestLogout()

	require.ErrorIs(t, h.Confirm(first.ID), ErrUnknownConfirmation)
	pending, ok := h.Pending()
	require.True(t, ok)
	assert.Equal(t, second.ID, pending.ID)
	assert.Equal(t, ConfirmLogout, h.State().Pending.Kind)

	require.ErrorIs(t, h.Confirm(""), ErrUnknownConfirmation)
}

func TestRequestReset(t *testing.T) {
	t.Parallel()

	t.Run("idle applies immediately", func(t *testing.T) {
		h := newHarness(t)
		c := h.RequestReset()
		assert.True(t, c.Applied)
		assert.Empty(t, c.ID)
		_, pending := h.Pending()
		assert.False(t, pending)
	})

	t.Run("active needs confirmation", func(t *testing.T) {
		h := newHarness(t)
		h.push(t, cardA, cardB)
		require.NoError(t, h.Start())

		c := h.RequestReset()
		require.False(t, c.Applied)
		assert.Equal(t, Active, h.State().Phase)

		require.NoError(t, h.Confirm(c.ID))
		assert.Equal(t, Idle, h.State().Phase)
	})

	t.Run("paused needs confirmation", func(t *testing.T) {
		h := newHarness(t)
		h.push(t, cardA, cardB)
		require.NoError(t, h.Start())
		require.NoError(t, h.Pause())

		c := h.RequestReset()
		require.False(t, c.Applied)
		require.NoError(t, h.Cancel(c.ID))
		assert.Equal(t, Paused, h.State().Phase)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	require.NoError(t, h.SetPlayerName(ctx, "Ada"))
	h.push(t, cardA, cardB)
	require.NoError(t, h.Start())

	c := h.RequestLogout()
	assert.Contains(t, c.Prompt, "abandon")
	require.NoError(t, h.Confirm(c.ID))

	st := h.State()
	assert.Equal(t, Idle, st.Phase)
	assert.Empty(t, st.PlayerName)

	stored, err := h.store.PlayerName(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	ev, ok := h.events.Last(EventTypePlayer)
	require.True(t, ok)
	assert.True(t, ev.(PlayerEvent).LoggedOut)
}
