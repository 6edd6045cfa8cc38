// Package tui is the terminal front-end. It renders a session with lipgloss
// and maps keys onto session operations; the countdown keeps running in the
// session and reaches the model through a subscription.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/tictactoe/internal/game"
	"github.com/lox/tictactoe/internal/session"
	"github.com/lox/tictactoe/internal/view"
)

// Model is the Bubble Tea model for one session
type Model struct {
	session *session.Session
	sub     *session.Subscription
	logger  *log.Logger

	keys   keyMap
	help   help.Model
	styles Styles

	snap   session.Snapshot
	cursor int

	// Name editing. editing is Empty when no input is open.
	nameInput    textinput.Model
	editing      game.Mark
	editOriginal string

	width    int
	height   int
	quitting bool
}

// snapshotMsg carries a session change into the update loop
type snapshotMsg session.Snapshot

// sessionClosedMsg means the subscription channel was closed
type sessionClosedMsg struct{}

// New creates a model over sess. It subscribes immediately so no change made
// before Init is lost.
func New(sess *session.Session, logger *log.Logger) *Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 24
	ti.Prompt = "> "

	snap := sess.Snapshot()
	return &Model{
		session:   sess,
		sub:       sess.Subscribe(),
		logger:    logger.WithPrefix("tui"),
		keys:      defaultKeyMap(),
		help:      help.New(),
		styles:    NewStyles(snap.Theme),
		snap:      snap,
		cursor:    4,
		nameInput: ti,
	}
}

// Init starts listening for session changes
func (m *Model) Init() tea.Cmd {
	return m.waitForSnapshot()
}

func (m *Model) waitForSnapshot() tea.Cmd {
	sub := m.sub
	return func() tea.Msg {
		snap, ok := <-sub.C()
		if !ok {
			return sessionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		m.setSnapshot(session.Snapshot(msg))
		return m, m.waitForSnapshot()

	case sessionClosedMsg:
		m.logger.Debug("Session closed")
		m.quitting = true
		return m, tea.Quit

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing != game.Empty {
			return m.updateEditing(msg)
		}
		return m.updateBoard(msg)
	}

	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.sub.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < 6 {
			m.cursor += 3
		}
	case key.Matches(msg, m.keys.Left):
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor%3 < 2 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Place):
		m.place(m.cursor)
	case key.Matches(msg, m.keys.Cell):
		index := int(msg.Runes[0] - '1')
		m.cursor = index
		m.place(index)

	case key.Matches(msg, m.keys.Reset):
		m.session.Reset()
		m.refresh()
	case key.Matches(msg, m.keys.Theme):
		m.session.ToggleTheme()
		m.refresh()

	case key.Matches(msg, m.keys.NameX):
		return m, m.startEditing(game.X)
	case key.Matches(msg, m.keys.NameO):
		return m, m.startEditing(game.O)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// updateEditing feeds keys to the name input. Every edit is applied to the
// session at once; esc puts the original name back.
func (m *Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Done):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.rename(m.editOriginal)
		m.stopEditing()
		return m, nil
	case msg.Type == tea.KeyCtrlC:
		m.quitting = true
		m.sub.Close()
		return m, tea.Quit
	}

	before := m.nameInput.Value()
	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	if value := m.nameInput.Value(); value != before {
		m.rename(value)
	}
	return m, cmd
}

func (m *Model) place(index int) {
	if m.session.ApplyMove(index) {
		m.logger.Debug("Move placed", "index", index)
	}
	m.refresh()
}

func (m *Model) rename(name string) {
	if err := m.session.SetPlayerName(m.editing, name); err != nil {
		m.logger.Error("Failed to rename player", "mark", m.editing, "error", err)
	}
	m.refresh()
}

func (m *Model) startEditing(mark game.Mark) tea.Cmd {
	m.editing = mark
	m.editOriginal = m.snap.Name(mark)
	m.nameInput.Placeholder = fmt.Sprintf("Player %s Name", mark)
	m.nameInput.SetValue(m.editOriginal)
	m.nameInput.CursorEnd()
	return m.nameInput.Focus()
}

func (m *Model) stopEditing() {
	m.editing = game.Empty
	m.editOriginal = ""
	m.nameInput.Blur()
}

// refresh reads the session directly so the next frame shows the result of
// a key without waiting for the subscription.
func (m *Model) refresh() {
	m.setSnapshot(m.session.Snapshot())
}

func (m *Model) setSnapshot(snap session.Snapshot) {
	// versions only grow, across resets too
	if snap.Version < m.snap.Version {
		return
	}
	if snap.Theme != m.snap.Theme {
		m.styles = NewStyles(snap.Theme)
	}
	m.snap = snap
}

// View renders the game screen
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	shell := view.NewShell(m.snap)
	s := m.styles

	var b strings.Builder

	title := s.Title.Render(shell.Title) + "  " + s.Timer.Render(shell.ThemeIcon)
	b.WriteString(title + "\n\n")
	b.WriteString(m.renderPlayers(shell) + "\n\n")
	b.WriteString(m.renderBoard(shell) + "\n\n")
	b.WriteString(s.Status.Render(shell.Status) + "\n")
	b.WriteString(s.Timer.Render(shell.TimerLabel) + "\n")

	if shell.Won {
		b.WriteString("\n" + s.Celebration.Render(shell.Celebration+"\nPlay Again (r)") + "\n")
	}

	b.WriteString("\n")
	if m.editing != game.Empty {
		b.WriteString(m.nameInput.View() + "\n")
		b.WriteString(s.Help.Render(m.help.View(editHelp{keys: m.keys})))
	} else {
		b.WriteString(s.Help.Render(m.help.View(m.keys)))
	}

	return b.String()
}

func (m *Model) renderPlayers(shell view.Shell) string {
	s := m.styles
	x := s.X.Render("X") + " " + s.Players.Render(view.DisplayName(m.snap, game.X))
	o := s.O.Render("O") + " " + s.Players.Render(view.DisplayName(m.snap, game.O))

	turn := func(mark game.Mark) string {
		if !shell.Won && shell.Turn == mark {
			return "▸ "
		}
		return "  "
	}
	return turn(game.X) + x + "    " + turn(game.O) + o
}

func (m *Model) renderBoard(shell view.Shell) string {
	rows := make([]string, 0, 3)
	for _, row := range shell.Rows() {
		cells := make([]string, 0, 3)
		for _, c := range row {
			cells = append(cells, m.renderCell(c))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderCell(c view.Cell) string {
	label := " "
	switch c.Label {
	case "X":
		label = m.styles.X.Render(c.Label)
	case "O":
		label = m.styles.O.Render(c.Label)
	}
	return m.cellStyle(c).Render(label)
}

// cellStyle picks the box for a cell; a winning cell outranks the cursor
func (m *Model) cellStyle(c view.Cell) lipgloss.Style {
	switch {
	case c.Winning:
		return m.styles.Winning
	case c.Index == m.cursor && m.editing == game.Empty:
		return m.styles.Cursor
	default:
		return m.styles.Cell
	}
}
