package tui

import (
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/session"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

type tuiHarness struct {
	*TUIModel
	sess   *session.Session
	bridge *EventBridge
}

func newTUIHarness(t *testing.T, testMode bool) *tuiHarness {
	t.Helper()
	logger := testLogger()
	sess, err := session.New(catalog.DefaultConfig(), randutil.New(7),
		session.WithClock(quartz.NewMock(t)),
		session.WithLogger(logger),
	)
	require.NoError(t, err)

	bridge, unsubscribe := NewEventBridge(sess.Events(), logger)
	t.Cleanup(func() {
		unsubscribe()
		sess.Reset()
	})

	m := NewTUIModel(Config{
		Session:  sess,
		Catalog:  catalog.Fallback(),
		Bridge:   bridge,
		Logger:   logger,
		Rand:     randutil.New(1),
		TestMode: testMode,
	})
	return &tuiHarness{TUIModel: m, sess: sess, bridge: bridge}
}

// input runs a command and feeds every event it produced back through Update.
func (h *tuiHarness) input(t *testing.T, line string) {
	t.Helper()
	require.NoError(t, h.InjectInput(line))
	for _, e := range h.bridge.Drain() {
		h.Update(EventMsg{Event: e})
	}
}

func (h *tuiHarness) lastLine() string {
	lines := h.GetCapturedLog()
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

func TestTUITestMode(t *testing.T) {
	t.Run("test mode captures log entries", func(t *testing.T) {
		h := newTUIHarness(t, true)

		assert.True(t, h.IsTestMode())
		greeting := h.GetCapturedLog()
		require.Len(t, greeting, 2)
		assert.Contains(t, greeting[0], "Welcome to Stackmatch")

		h.AddLogEntry("hello")
		assert.Contains(t, h.lastLine(), "hello")
	})

	t.Run("production mode does not capture logs", func(t *testing.T) {
		h := newTUIHarness(t, false)

		assert.False(t, h.IsTestMode())
		h.AddLogEntry("Some log entry")
		assert.Nil(t, h.GetCapturedLog())
		assert.Error(t, h.InjectInput("pop"))
	})
}

func TestTUIStackCommands(t *testing.T) {
	h := newTUIHarness(t, true)

	h.input(t, "push dragon")
	assert.Contains(t, h.lastLine(), "Pushed 🐉 Dragon onto the stack (1/8)")

	h.input(t, "p 7")
	assert.Contains(t, h.lastLine(), "Goblin")

	h.input(t, "peek")
	assert.Contains(t, h.lastLine(), "Top of stack: 👺 Goblin")

	h.input(t, "pop")
	assert.Contains(t, h.lastLine(), "Popped 👺 Goblin")

	h.input(t, "push basilisk")
	assert.Contains(t, h.lastLine(), `No card called "basilisk"`)

	assert.Len(t, h.sess.Stack(), 1)
}

func TestTUIClearNeedsConfirmation(t *testing.T) {
	h := newTUIHarness(t, true)
	h.input(t, "quick")
	require.Len(t, h.sess.Stack(), 4)

	h.input(t, "clear")
	assert.Contains(t, h.lastLine(), "(yes/no)")
	assert.Len(t, h.sess.Stack(), 4)

	h.input(t, "no")
	assert.Contains(t, h.lastLine(), "Cancelled")
	assert.Len(t, h.sess.Stack(), 4)

	h.input(t, "clear")
	h.input(t, "y")
	assert.Contains(t, h.lastLine(), "Cleared 4 cards from the stack")
	assert.Empty(t, h.sess.Stack())

	h.input(t, "clear")
	assert.Contains(t, h.lastLine(), "Stack is already empty")

	h.input(t, "yes")
	assert.Contains(t, h.lastLine(), "Nothing to confirm")
}

func TestTUIPlayRound(t *testing.T) {
	h := newTUIHarness(t, true)

	h.input(t, "start")
	assert.Contains(t, h.lastLine(), "Cannot start")

	h.input(t, "quick")
	h.input(t, "start")
	assert.Contains(t, h.lastLine(), "Game started with 4 pairs")
	assert.Len(t, h.sess.Board(), 8)

	h.input(t, "push rat")
	assert.Contains(t, h.lastLine(), "Cannot push")

	h.input(t, "1")
	assert.Contains(t, h.lastLine(), "Flipped")

	h.input(t, "flip 1")
	assert.Contains(t, h.lastLine(), "Flip ignored")

	h.input(t, "flip 99")
	assert.Contains(t, h.lastLine(), "Flip ignored")

	h.input(t, "pause")
	assert.Contains(t, h.lastLine(), "Game paused at 00:00")
	h.input(t, "resume")
	assert.Contains(t, h.lastLine(), "Game resumed")

	h.input(t, "reset")
	assert.Contains(t, h.lastLine(), "Abandon the current game? (yes/no)")
	h.input(t, "yes")
	assert.Contains(t, h.lastLine(), "Game reset")
	assert.Equal(t, session.Idle, h.sess.State().Phase)
	assert.Len(t, h.sess.Stack(), 4, "reset keeps the stack")
}

func TestTUIPlayerCommands(t *testing.T) {
	h := newTUIHarness(t, true)

	h.input(t, "name  Ada  Lovelace ")
	assert.Contains(t, h.lastLine(), "Welcome, Ada Lovelace!")
	assert.Equal(t, "Ada Lovelace", h.sess.PlayerName())

	h.input(t, "logout")
	assert.Contains(t, h.lastLine(), "Log out? (yes/no)")
	h.input(t, "yes")
	assert.Contains(t, h.lastLine(), "Logged out")
	assert.Empty(t, h.sess.PlayerName())
}

func TestTUIQuit(t *testing.T) {
	h := newTUIHarness(t, true)

	_, cmd := h.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, h.Quitting())
	assert.Empty(t, h.View())

	h = newTUIHarness(t, true)
	h.input(t, "q")
	assert.True(t, h.Quitting())
}

func TestTUIQuitSignal(t *testing.T) {
	h := newTUIHarness(t, true)

	h.SendQuitSignal()
	h.SendQuitSignal() // second signal must not block

	msg := h.listenForQuit()()
	require.IsType(t, QuitMsg{}, msg)

	_, cmd := h.Update(msg)
	assert.NotNil(t, cmd)
	assert.True(t, h.Quitting())
}

func TestTUIView(t *testing.T) {
	h := newTUIHarness(t, true)
	assert.Equal(t, "Loading...", h.View())

	h.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.input(t, "quick")
	h.input(t, "name Grace")

	view := h.View()
	assert.Contains(t, view, "Grace")
	assert.Contains(t, view, "Stack 4/8")
	assert.Contains(t, view, "Phase: idle")

	h.input(t, "start")
	view = h.View()
	assert.Contains(t, view, "(locked)")
	assert.Contains(t, view, " 8 ??")
	assert.Contains(t, view, "Pairs: 0/4")
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
		err   bool
	}{
		{input: "push Dragon", want: Command{Name: "push", Args: []string{"Dragon"}}},
		{input: "p  big   rat", want: Command{Name: "push", Args: []string{"big rat"}}},
		{input: "/start", want: Command{Name: "start", Args: []string{}}},
		{input: "3", want: Command{Name: "flip", Args: []string{"3"}}},
		{input: "F 2", want: Command{Name: "flip", Args: []string{"2"}}},
		{input: "y", want: Command{Name: "yes", Args: []string{}}},
		{input: "new", want: Command{Name: "reset", Args: []string{}}},
		{input: "", err: true},
		{input: "push", err: true},
		{input: "flip", err: true},
		{input: "name", err: true},
		{input: "dance", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCommand(tt.input)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCommandPosition(t *testing.T) {
	pos, err := Command{Name: "flip", Args: []string{"4"}}.Position()
	require.NoError(t, err)
	assert.Equal(t, 3, pos)

	_, err = Command{Name: "flip", Args: []string{"0"}}.Position()
	assert.Error(t, err)
	_, err = Command{Name: "flip", Args: []string{"x"}}.Position()
	assert.Error(t, err)
}
