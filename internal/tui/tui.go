// Package tui is an interactive terminal blackjack table built on Bubble Tea.
// The model owns a local game and drives it synchronously from key presses.
package tui

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"strconv"
	"strings"

	"github.com/Flowwrian/blackjack-simulator/internal/deck"
	"github.com/Flowwrian/blackjack-simulator/internal/game"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// DefaultBet is used when the bet prompt is submitted empty and no earlier
// bet exists.
const DefaultBet = 10

// TUIModel represents the Bubble Tea model for a blackjack table
type TUIModel struct {
	game   *game.Game
	logger *log.Logger

	// UI components
	logViewport viewport.Model
	betInput    textinput.Model

	// State
	gameLog     []string
	quitting    bool
	focusedPane int // 0 = log, 1 = input
	lastBet     int
	lastRound   *game.Snapshot // table as it stood just before the last settlement
	notice      string

	// Dimensions
	width       int
	height      int
	initialized bool

	// Test mode
	testMode    bool
	capturedLog []string
}

// NewTUIModel creates a model over a fresh game. opts are applied after the
// model's own event handler, so callers must not pass WithEventHandler.
func NewTUIModel(logger *log.Logger, rng *rand.Rand, opts ...game.Option) *TUIModel {
	return newModel(logger, rng, false, opts...)
}

// NewTUIModelWithOptions creates a model with the test mode option. In test
// mode log lines are captured for assertions.
func NewTUIModelWithOptions(logger *log.Logger, rng *rand.Rand, testMode bool, opts ...game.Option) *TUIModel {
	return newModel(logger, rng, testMode, opts...)
}

func newModel(logger *log.Logger, rng *rand.Rand, testMode bool, opts ...game.Option) *TUIModel {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "Enter your bet"
	ti.Focus()
	ti.CharLimit = 12
	ti.Width = 20
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "Bet > "

	m := &TUIModel{
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		betInput:    ti,
		gameLog:     []string{},
		focusedPane: 1,
		testMode:    testMode,
		capturedLog: []string{},
	}

	all := append([]game.Option{game.WithLogger(logger), game.WithEventHandler(m.handleEvent)}, opts...)
	m.game = game.New(rng, all...)
	m.AddLogEntry("Welcome to this game of Blackjack!")
	return m
}

// Game returns the model's game
func (m *TUIModel) Game() *game.Game {
	return m.game
}

// Init initializes the TUI model
func (m *TUIModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *TUIModel) betting() bool {
	return m.game.Status() == game.Initialized
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logger.Debug("Updating dimensions", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == 0 {
				m.focusedPane = 1
				m.betInput.Focus()
			} else {
				m.focusedPane = 0
				m.betInput.Blur()
			}
			return m, nil
		}

		if m.focusedPane == 0 {
			m.scrollLog(key)
			break
		}

		if !m.betting() {
			if m.handleRoundKey(key) {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		if key == "enter" {
			input := strings.TrimSpace(m.betInput.Value())
			m.betInput.SetValue("")
			if input == "q" || input == "quit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.placeBet(input)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == 1 && m.betting() {
		m.betInput, cmd = m.betInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TUIModel) scrollLog(key string) {
	switch key {
	case "up", "k":
		m.logViewport.ScrollUp(1)
	case "down", "j":
		m.logViewport.ScrollDown(1)
	case "pgup", "b":
		m.logViewport.HalfPageUp()
	case "pgdown", "f":
		m.logViewport.HalfPageDown()
	case "home", "g":
		m.logViewport.GotoTop()
	case "end", "G":
		m.logViewport.GotoBottom()
	}
}

// handleRoundKey maps a key to a player action. It reports whether the
// player asked to quit.
func (m *TUIModel) handleRoundKey(key string) bool {
	var action game.Action
	switch key {
	case "h":
		action = game.Hit
	case "s":
		action = game.Stand
	case "d":
		action = game.Double
	case "p":
		action = game.Split
	case "q":
		return true
	default:
		return false
	}

	status, err := m.game.ApplyAction(action)
	if err != nil {
		m.showError(err)
		return false
	}
	m.notice = ""
	m.finishRound(status)
	return false
}

// placeBet starts a round. An empty input repeats the last bet.
func (m *TUIModel) placeBet(input string) {
	bet := m.lastBet
	if bet == 0 {
		bet = DefaultBet
	}
	if input != "" {
		n, err := strconv.Atoi(input)
		if err != nil {
			m.showError(fmt.Errorf("%q is not a whole number", input))
			return
		}
		bet = n
	}

	status, err := m.game.StartRound(bet)
	if err != nil {
		m.showError(err)
		return
	}
	m.lastBet = bet
	m.lastRound = nil
	m.notice = ""
	m.betInput.Blur()

	if status == game.DealerWon {
		m.AddLogEntry(ErrorStyle.Render("The dealer has 21! You lost."))
	}
	m.finishRound(status)
}

// finishRound runs the dealer and settles once the player's part is over
func (m *TUIModel) finishRound(status game.Status) {
	if status == game.Ongoing {
		return
	}

	if status == game.PlayerFinished || status == game.PlayerWon {
		var err error
		if status, err = m.game.PlayDealersTurn(); err != nil {
			m.showError(err)
			return
		}
	}

	snap := m.game.Snapshot()
	m.lastRound = &snap
	if err := m.game.SettleRound(status); err != nil {
		m.showError(err)
		return
	}
	m.betInput.Focus()
}

func (m *TUIModel) showError(err error) {
	msg := err.Error()
	if errors.Is(err, game.ErrSplitUnsupported) {
		msg = "Splitting is not supported at this table"
	}
	m.notice = msg
	m.AddLogEntry(ErrorStyle.Render(msg))
	m.logger.Debug("Rejected input", "error", err)
}

// handleEvent turns game events into log lines
func (m *TUIModel) handleEvent(ev game.GameEvent) {
	switch e := ev.(type) {
	case game.DrawEvent:
		if !e.Visible {
			m.AddLogEntry("The dealer draws a card face down")
			break
		}
		if e.Reshuffled {
			m.AddLogEntry(WarningStyle.Render("The shoe is empty and has been reshuffled"))
		}
		if e.To == game.ToPlayer {
			m.AddLogEntry("You drew " + m.formatCard(e.Card))
		} else {
			m.AddLogEntry("The dealer shows " + m.formatCard(e.Card))
		}
	case game.RoundStartEvent:
		m.AddBoldLogEntry(fmt.Sprintf("New round: betting $%d, balance $%d", e.Bet, e.Bankroll))
	case game.PlayerActionEvent:
		m.AddLogEntry(fmt.Sprintf("You %s. Your hand value is %d", strings.ToLower(e.Action.String()), e.Value))
	case game.DealerTurnEvent:
		m.AddLogEntry(fmt.Sprintf("The dealer has %d, you have %d", e.DealerValue, e.PlayerValue))
	case game.RoundSettledEvent:
		m.AddLogEntry(m.outcomeLine(e))
	}
}

func (m *TUIModel) outcomeLine(e game.RoundSettledEvent) string {
	switch e.Status {
	case game.PlayerWon:
		return SuccessStyle.Render(fmt.Sprintf("You won $%d! Balance $%d", e.Delta, e.Bankroll))
	case game.Draw:
		return WarningStyle.Render(fmt.Sprintf("Push. Balance $%d", e.Bankroll))
	case game.DealerWon:
		return ErrorStyle.Render(fmt.Sprintf("The dealer won. You lost $%d, balance $%d", -e.Delta, e.Bankroll))
	default:
		return InfoStyle.Render("Round abandoned")
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

	actionContent := m.renderActionPane()
	actionHeight := lipgloss.Height(actionContent)
	actionStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#04B575")).
		Width(max(m.width-2, 1)).
		Height(max(actionHeight, 1))
	actionPane := actionStyle.Render(actionContent)

	sidebarContent := m.renderSidebarPane()
	sidebarWidth := max(lipgloss.Width(sidebarContent), 25)
	paneHeight := max(m.height-actionHeight-4, 1)

	sidebarPane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(sidebarWidth).
		Height(paneHeight).
		Render(sidebarContent)

	logWidth := max(m.width-sidebarWidth-4, 1)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.logViewport.Width = logWidth
	m.logViewport.Height = paneHeight
	if !m.initialized && logWidth > 1 && paneHeight > 1 {
		m.logViewport.GotoBottom()
		m.initialized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(paneHeight)
	if m.focusedPane == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logViewport.View())

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, actionPane)
}

// renderSidebarPane shows the bankroll and the player's statistics
func (m *TUIModel) renderSidebarPane() string {
	snap := m.game.Snapshot()
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(" Blackjack "))
	b.WriteString("\n\n")
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Balance: $%d", snap.Bankroll)))
	b.WriteString("\n")
	if snap.Bet > 0 {
		b.WriteString(fmt.Sprintf("Bet: $%d\n", snap.Bet))
	}
	b.WriteString(fmt.Sprintf("Cards in shoe: %d\n", snap.CardsRemaining))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Statistics"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Rounds:      %d\n", snap.Stats.MatchesPlayed))
	b.WriteString(fmt.Sprintf("  Average bet: $%d\n", snap.Stats.AverageBet))
	b.WriteString(fmt.Sprintf("  Average win: $%d\n", snap.Stats.AverageWin))
	b.WriteString(fmt.Sprintf("  Doubled:     %d\n", snap.Stats.TimesDoubled))
	b.WriteString(fmt.Sprintf("  Card count:  %+d\n", snap.Stats.CardCount))
	return b.String()
}

// renderActionPane shows the hands and the available keys
func (m *TUIModel) renderActionPane() string {
	var b strings.Builder

	if m.betting() {
		if m.lastRound != nil {
			b.WriteString(m.renderHands(*m.lastRound))
			b.WriteString("\n")
		}
		b.WriteString(m.betInput.View())
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Enter to deal (empty repeats the last bet) • 'q' + Enter to quit • Tab to scroll log"))
	} else {
		b.WriteString(m.renderHands(m.game.PlayerView()))
		b.WriteString("\n")
		b.WriteString(ActionsStyle.Render("Actions: ") +
			SuccessStyle.Render("[h]it ") +
			SuccessStyle.Render("[s]tand ") +
			WarningStyle.Render("[d]ouble ") +
			InfoStyle.Render("s[p]lit ") +
			ErrorStyle.Render("[q]uit"))
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.notice))
	}
	return b.String()
}

func (m *TUIModel) renderHands(s game.Snapshot) string {
	dealer := m.formatCards(s.DealerHand)
	if s.HoleHidden {
		dealer = strings.TrimSuffix(dealer, "]") + " " + HiddenCardStyle.Render("??") + "]"
	}
	return HandInfoStyle.Render(fmt.Sprintf("Dealer: %s (%d)   You: %s (%d)",
		dealer, s.DealerValue(), m.formatCards(s.PlayerHand), s.PlayerValue()))
}

// formatCards formats cards with colors
func (m *TUIModel) formatCards(cards []deck.Card) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		formatted = append(formatted, m.formatCard(card))
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

func (m *TUIModel) formatCard(card deck.Card) string {
	if card.IsRed() {
		return RedCardStyle.Render(card.String())
	}
	return BlackCardStyle.Render(card.String())
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

// AddBoldLogEntry adds a bold entry, used to mark the start of a round
func (m *TUIModel) AddBoldLogEntry(entry string) {
	if m.testMode {
		m.gameLog = append(m.gameLog, entry)
		m.capturedLog = append(m.capturedLog, entry)
		return
	}
	m.AddLogEntry(lipgloss.NewStyle().Bold(true).Render(entry))
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

// IsTestMode returns whether the TUI is in test mode
func (m *TUIModel) IsTestMode() bool {
	return m.testMode
}
