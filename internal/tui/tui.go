package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/stackmatch/internal/board"
	"github.com/lox/stackmatch/internal/catalog"
	"github.com/lox/stackmatch/internal/randutil"
	"github.com/lox/stackmatch/internal/session"
)

// boardColumns is the widest the card grid gets.
const boardColumns = 4

// Config wires a TUIModel to a session.
type Config struct {
	Session  *session.Session
	Catalog  *catalog.Catalog
	Bridge   *EventBridge
	Logger   *log.Logger
	Rand     *rand.Rand
	TestMode bool
}

// TUIModel is the Bubble Tea model for the game
type TUIModel struct {
	session   *session.Session
	catalog   *catalog.Catalog
	bridge    *EventBridge
	formatter *session.StatusFormatter
	rng       *rand.Rand
	logger    *log.Logger

	// UI components
	logViewport viewport.Model
	actionInput textinput.Model

	// State
	gameLog     []string
	quitSignal  chan bool
	quitting    bool
	focusedPane int // 0 = log, 1 = input

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// QuitMsg is a custom message to signal quit
type QuitMsg struct{}

// NewTUIModel creates a model driving cfg.Session.
func NewTUIModel(cfg Config) *TUIModel {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Fallback()
	}
	if cfg.Rand == nil {
		cfg.Rand = randutil.New(randutil.NewSeed())
	}

	// Sized properly when the first WindowSizeMsg arrives
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Type a command, or 'help'"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &TUIModel{
		session:     cfg.Session,
		catalog:     cfg.Catalog,
		bridge:      cfg.Bridge,
		formatter:   session.NewStatusFormatter(),
		rng:         cfg.Rand,
		logger:      cfg.Logger.WithPrefix("tui"),
		logViewport: vp,
		actionInput: ti,
		gameLog:     []string{},
		quitSignal:  make(chan bool, 1),
		focusedPane: 1,
		testMode:    cfg.TestMode,
		capturedLog: []string{},
	}

	if name := m.session.PlayerName(); name != "" {
		m.AddLogEntry(HeaderStyle.Render(fmt.Sprintf(" Welcome back, %s! ", name)))
	} else {
		m.AddLogEntry(HeaderStyle.Render(" Welcome to Stackmatch! ") + " Set your name with 'name <you>'.")
	}
	m.AddLogEntry(InfoStyle.Render("Build a stack of cards, then 'start' to play. 'help' lists commands."))
	return m
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.listenForQuit()}
	if m.bridge != nil {
		cmds = append(cmds, m.bridge.Wait())
	}
	return tea.Batch(cmds...)
}

// listenForQuit returns a command that listens for quit signals
func (m *TUIModel) listenForQuit() tea.Cmd {
	return func() tea.Msg {
		<-m.quitSignal
		return QuitMsg{}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case EventMsg:
		m.handleEvent(msg.Event)
		if m.bridge != nil {
			cmds = append(cmds, m.bridge.Wait())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.actionInput.Focus()
			} else {
				m.focusedPane = 0
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == 1 {
				input := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if input != "" {
					m.processInput(input)
				}
				if m.quitting {
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		case "up", "k":
			if m.focusedPane == 0 {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == 0 {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == 0 {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == 0 {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == 0 {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleEvent writes the status line for a session event to the log.
func (m *TUIModel) handleEvent(event session.Event) {
	line := m.formatter.Format(event)
	if line == "" {
		return
	}

	switch e := event.(type) {
	case session.ErrorEvent:
		if e.Informational {
			m.AddLogEntry(InfoStyle.Render(line))
		} else {
			m.AddLogEntry(ErrorStyle.Render(line))
		}
	case session.MatchEvent, session.PlayerEvent:
		m.AddLogEntry(SuccessStyle.Render(line))
	case session.MismatchEvent:
		m.AddLogEntry(WarningStyle.Render(line))
	case session.CompleteEvent:
		m.AddLogEntry(HeaderStyle.Render(" " + line + " "))
	case session.ConfirmEvent:
		m.AddLogEntry(PromptStyle.Render(line))
	default:
		m.AddLogEntry(GameLogStyle.Render(line))
	}
}

// processInput runs one line of user input against the session. Failures
// the session reports as events are logged when the event arrives; only
// rejections it returns silently are logged here.
func (m *TUIModel) processInput(input string) {
	cmd, err := ParseCommand(input)
	if err != nil {
		m.AddLogEntry(WarningStyle.Render(err.Error()))
		return
	}
	m.logger.Debug("Command", "name", cmd.Name, "args", cmd.Args)

	switch cmd.Name {
	case "push":
		card, ok := m.catalog.Find(cmd.Args[0])
		if !ok {
			m.AddLogEntry(WarningStyle.Render(fmt.Sprintf("No card called %q, try 'catalog'", cmd.Args[0])))
			return
		}
		_, _ = m.session.Push(card)
	case "pop":
		_, _ = m.session.Pop()
	case "peek":
		_, _ = m.session.Peek()
	case "clear":
		_, _ = m.session.RequestClear()
	case "quick":
		m.quickFill()
	case "start":
		_ = m.session.Start()
	case "flip":
		pos, err := cmd.Position()
		if err != nil {
			m.AddLogEntry(WarningStyle.Render(err.Error()))
			return
		}
		if err := m.session.FlipAt(pos); errors.Is(err, session.ErrFlipIgnored) {
			m.AddLogEntry(InfoStyle.Render(fmt.Sprintf("Flip ignored (%v)", err)))
		}
	case "pause":
		_ = m.session.Pause()
	case "resume":
		_ = m.session.Resume()
	case "reset":
		m.session.RequestReset()
	case "name":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.session.SetPlayerName(ctx, cmd.Args[0])
	case "logout":
		m.session.RequestLogout()
	case "yes", "no":
		m.answer(cmd.Name == "yes")
	case "catalog":
		for _, c := range m.catalog.Cards {
			m.AddLogEntry(fmt.Sprintf("  %3d  %s  %s, %d pts",
				c.ID, RarityStyle(c.Rarity).Render(c.Label()), c.Rarity, c.Points))
		}
	case "help":
		for _, line := range helpLines {
			m.AddLogEntry(InfoStyle.Render(line))
		}
	case "quit":
		m.quitting = true
	}
}

// answer confirms or cancels the pending destructive operation.
func (m *TUIModel) answer(yes bool) {
	pending, ok := m.session.Pending()
	if !ok {
		m.AddLogEntry(InfoStyle.Render("Nothing to confirm"))
		return
	}

	var err error
	if yes {
		err = m.session.Confirm(pending.ID)
	} else {
		err = m.session.Cancel(pending.ID)
		if err == nil {
			m.AddLogEntry(InfoStyle.Render("Cancelled"))
		}
	}
	if errors.Is(err, session.ErrUnknownConfirmation) {
		m.AddLogEntry(WarningStyle.Render(err.Error()))
	}
}

// quickFill tops the stack up to the default size with random cards.
func (m *TUIModel) quickFill() {
	want := m.session.Config().DefaultCards - len(m.session.Stack())
	if want <= 0 {
		m.AddLogEntry(InfoStyle.Render("Stack already has enough cards, type 'start'"))
		return
	}

	cards := make([]catalog.Card, len(m.catalog.Cards))
	copy(cards, m.catalog.Cards)
	randutil.Shuffle(m.rng, cards)
	for i := range want {
		if _, err := m.session.Push(cards[i%len(cards)]); err != nil {
			return
		}
	}
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	state := m.session.State()

	actionContent := m.renderActionPane(state)
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	if m.focusedPane != 1 {
		actionStyle = actionStyle.BorderForeground(lipgloss.Color("#626262"))
	}
	actionPane := actionStyle.Render(actionContent)
	actionHeight = lipgloss.Height(actionPane)

	sidebarContent := m.renderSidebarPane(state)
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-2, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	mainWidth := max(m.width-sidebarWidth-4, 1)

	boardContent := m.renderBoard()
	boardHeight := 0
	var boardPane string
	if boardContent != "" {
		boardPane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Width(mainWidth).
			Render(boardContent)
		boardHeight = lipgloss.Height(boardPane)
	}

	logHeight := max(paneHeight-boardHeight, 1)
	m.logViewport.Width = mainWidth
	m.logViewport.Height = logHeight
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Show the latest entries once the viewport has a real size
	if !m.initialized && mainWidth > 1 && logHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(mainWidth).
		Height(logHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	main := logPane
	if boardPane != "" {
		main = lipgloss.JoinVertical(lipgloss.Left, boardPane, logPane)
	}
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, main, sidebarPane)

	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderBoard draws the card grid, or "" when no round has been started.
func (m *TUIModel) renderBoard() string {
	cards := m.session.Board()
	if len(cards) == 0 {
		return ""
	}

	columns := min(boardColumns, len(cards))
	var rows []string
	for start := 0; start < len(cards); start += columns {
		end := min(start+columns, len(cards))
		var cells []string
		for i := start; i < end; i++ {
			cells = append(cells, renderCard(i, cards[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard draws a single board cell labelled with its 1-based position.
func renderCard(pos int, card board.Card) string {
	label := fmt.Sprintf("%2d", pos+1)
	cell := lipgloss.NewStyle().Width(16).MarginRight(1)

	switch {
	case card.Matched:
		return cell.Render(CardMatchedStyle.Render(label + " " + card.Def.Label()))
	case card.Flipped:
		return cell.Render(CardFaceStyle.Render(label + " " + card.Def.Label()))
	default:
		return cell.Render(CardBackStyle.Render(label + " ??"))
	}
}

// renderSidebarPane creates the sidebar content
func (m *TUIModel) renderSidebarPane(state session.State) string {
	var content strings.Builder

	player := state.PlayerName
	if player == "" {
		player = "(anonymous)"
	}
	content.WriteString(StatusStyle.Render(player))
	content.WriteString("\n")
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Best: %d", state.HighScore)))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("Phase: %s\n", state.Phase))
	content.WriteString(fmt.Sprintf("Time:  %s\n", state.Elapsed()))
	content.WriteString(fmt.Sprintf("Score: %d\n", state.Score))
	content.WriteString(fmt.Sprintf("Moves: %d\n", state.Moves))
	if state.TotalPairs > 0 {
		content.WriteString(fmt.Sprintf("Pairs: %d/%d\n", state.MatchedPairs, state.TotalPairs))
	}
	if state.Phase == session.Complete {
		content.WriteString(WarningStyle.Render(fmt.Sprintf("Final: %d", state.FinalScore)))
		content.WriteString("\n")
	}
	ops := state.OperationsUsed.String()
	if ops == "" {
		ops = "none"
	}
	content.WriteString(InfoStyle.Render("Ops: " + ops))
	content.WriteString("\n\n")

	content.WriteString(fmt.Sprintf("Stack %d/%d", state.StackSize, state.StackCap))
	if state.Phase == session.Active {
		content.WriteString(InfoStyle.Render(" (locked)"))
	}
	content.WriteString("\n")
	entries := m.session.Stack()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		content.WriteString("  ")
		content.WriteString(RarityStyle(e.Rarity).Render(e.Label()))
		content.WriteString("\n")
	}

	return content.String()
}

// renderActionPane renders the command input and any pending prompt.
func (m *TUIModel) renderActionPane(state session.State) string {
	var content strings.Builder

	if state.Pending != nil {
		content.WriteString(PromptStyle.Render(state.Pending.Prompt + " (yes/no)"))
		content.WriteString("\n")
		m.actionInput.Placeholder = "yes or no"
	} else {
		switch state.Phase {
		case session.Active:
			m.actionInput.Placeholder = "Flip a card by number, or 'pause'"
		case session.Paused:
			m.actionInput.Placeholder = "'resume' to continue, or edit the stack"
		case session.Complete:
			m.actionInput.Placeholder = "'start' to play again with the same stack"
		default:
			m.actionInput.Placeholder = "Type a command, or 'help'"
		}
	}

	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to submit • Ctrl+C to quit"
	if m.focusedPane == 0 {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(InfoStyle.Render(help))

	return content.String()
}

// AddLogEntry adds an entry to the game log
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)

	if m.testMode {
		m.capturedLog = append(m.capturedLog, entry)
		return
	}

	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

// SendQuitSignal asks the TUI to quit. It is safe to call from any
// goroutine and more than once.
func (m *TUIModel) SendQuitSignal() {
	select {
	case m.quitSignal <- true:
	default:
	}
}

// GetCapturedLog returns the captured log entries (test mode only)
func (m *TUIModel) GetCapturedLog() []string {
	if !m.testMode {
		return nil
	}
	result := make([]string, len(m.capturedLog))
	copy(result, m.capturedLog)
	return result
}

// InjectInput runs a command line as if it had been typed (test mode only).
func (m *TUIModel) InjectInput(input string) error {
	if !m.testMode {
		return fmt.Errorf("input injection only available in test mode")
	}
	m.processInput(input)
	return nil
}

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}

// Quitting reports whether the user has asked to leave.
func (m *TUIModel) Quitting() bool {
	return m.quitting
}
