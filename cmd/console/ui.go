package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/triviaquest/engine/pkg/battle"
)

const GameTitle = "TRIVIA QUEST"

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	config      *ConsoleConfig
	client      *http.Client
	sseClient   *http.Client
	view        *CampaignView
	logViewport viewport.Model
	metaViewport viewport.Model
	ready       bool
	width       int
	height      int
	err         error
	busy        bool

	// Adventure log, one entry per line, rewrapped on resize
	logLines []string

	// Quit confirmation state
	showQuitModal bool

	// Transient status shown in the hint bar
	statusNote string

	// Progress bar state while a question loads
	progressTick int

	eventChan chan SSEEvent
}

type stepResultMsg struct {
	result *StepResult
	err    error
}

type battleActionMsg struct {
	result *BattleActionResult
	err    error
}

type campaignMsg struct {
	view *CampaignView
	err  error
}

type sseEventMsg SSEEvent

type sseClosedMsg struct {
	err error
}

type copiedMsg struct {
	err error
}

type progressTickMsg struct{}

var (
	logPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	opponentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	choiceKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(cfg *ConsoleConfig, client *http.Client, sseClient *http.Client, view *CampaignView) ConsoleUI {
	logVp := viewport.New(50, 20)
	logVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	ui := ConsoleUI{
		config:       cfg,
		client:       client,
		sseClient:    sseClient,
		view:         view,
		logViewport:  logVp,
		metaViewport: metaVp,
		eventChan:    make(chan SSEEvent, 16),
	}
	ui.appendLog(narratorStyle.Render("You arrive in " + zoneOrMap(view) + ". Use the arrow keys to explore."))
	return ui
}

func zoneOrMap(view *CampaignView) string {
	if view.Campaign.Zone != "" {
		return view.Campaign.Zone
	}
	return view.Campaign.MapName
}

func (m *ConsoleUI) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > 500 {
		m.logLines = m.logLines[len(m.logLines)-500:]
	}
}

func (m *ConsoleUI) writeMetadata() {
	gs := m.view.Campaign
	var content strings.Builder
	content.WriteString(titleStyle.Render("CAMPAIGN") + "\n\n")

	content.WriteString("ID:\n")
	content.WriteString(gs.ID.String()[:8] + "...\n\n")

	content.WriteString("Location:\n")
	content.WriteString(fmt.Sprintf("%s (%d, %d)\n\n", zoneOrMap(m.view), gs.Position.X, gs.Position.Y))

	s := gs.Stats
	content.WriteString(fmt.Sprintf("Level %d\n", s.Level))
	content.WriteString(fmt.Sprintf("HP:   %d/%d\n", s.CurrentHealth, s.MaxHealth))
	content.WriteString(fmt.Sprintf("XP:   %d/%d\n", s.Experience, s.ExperienceToNextLevel))
	content.WriteString(fmt.Sprintf("Gold: %d\n\n", s.Gold))

	content.WriteString(fmt.Sprintf("Logic:      %d\n", s.Logic))
	content.WriteString(fmt.Sprintf("Resilience: %d\n", s.Resilience))
	content.WriteString(fmt.Sprintf("Charisma:   %d\n\n", s.Charisma))

	if len(gs.DefeatedBosses) > 0 {
		content.WriteString(fmt.Sprintf("Bosses defeated: %d\n\n", len(gs.DefeatedBosses)))
	}

	content.WriteString("Commands:\n")
	if m.view.Battle != nil {
		content.WriteString("• 1-4: Answer\n")
		content.WriteString("• F: Flee\n")
	} else {
		content.WriteString("• Arrows: Move\n")
		content.WriteString("• C: Copy ID\n")
	}
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

// writeLogContent rebuilds the log viewport for the current width.
func (m *ConsoleUI) writeLogContent() {
	logWidth := m.logViewport.Width - 6

	var content strings.Builder
	content.WriteString(titleStyle.Render(GameTitle) + "\n\n")
	content.WriteString("Explore the world. Answer questions to win battles.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", max(1, logWidth-6))) + "\n\n")

	for _, line := range m.logLines {
		content.WriteString(wordwrap.String(line, max(10, logWidth)) + "\n")
	}

	if b := m.view.Battle; b != nil {
		content.WriteString("\n")
		content.WriteString(m.renderBattlePanel(logWidth))
	}

	m.logViewport.SetContent(content.String())
	m.logViewport.GotoBottom()
}

func (m *ConsoleUI) renderBattlePanel(width int) string {
	b := m.view.Battle
	var sb strings.Builder

	sb.WriteString(opponentStyle.Render(b.OpponentName))
	sb.WriteString(fmt.Sprintf("  %d/%d HP\n", b.OpponentHealth, b.OpponentMaxHealth))
	sb.WriteString(playerStyle.Render("You"))
	sb.WriteString(fmt.Sprintf("  %d/%d HP\n\n", b.Stats.CurrentHealth, b.Stats.MaxHealth))

	switch {
	case b.Question != nil:
		sb.WriteString(wordwrap.String(b.Question.Prompt, max(10, width)) + "\n\n")
		for i, choice := range b.Question.Choices {
			sb.WriteString(choiceKeyStyle.Render(fmt.Sprintf(" %d ", i+1)))
			sb.WriteString(choiceStyle.Render(choice) + "\n")
		}
		sb.WriteString("\n" + hintStyle.Render("Press 1-4 to answer, F to flee"))
	case b.State.Terminal():
		// The closing message is already in the log
	default:
		sb.WriteString(loadingStyle.Render("The next question approaches...") + "\n")
		sb.WriteString(m.renderProgressBar())
	}

	return sb.String()
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.runEventStream(), m.waitForEvent(), progressTick())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var vpCmd, mvCmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.logViewport, vpCmd = m.logViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		logWidth := int(float64(m.width)*0.75) - 4
		metaWidth := m.width - logWidth - 6

		m.logViewport.Width = logWidth - 2
		m.logViewport.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4

		m.ready = true
		m.writeLogContent()
		m.writeMetadata()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stepResultMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.applyStep(msg.result)
		}
		m.writeLogContent()
		m.writeMetadata()
		return m, m.refreshCampaign()

	case battleActionMsg:
		m.busy = false
		if msg.err != nil {
			m.appendLog(errorStyle.Render("Error: " + msg.err.Error()))
		} else {
			m.view.Battle = msg.result.Battle
			if !msg.result.Accepted {
				m.appendLog(hintStyle.Render("Not now."))
			}
		}
		m.writeLogContent()
		m.writeMetadata()
		return m, m.refreshCampaign()

	case campaignMsg:
		if msg.err == nil && msg.view != nil {
			m.view = msg.view
			m.writeLogContent()
			m.writeMetadata()
		}

	case sseEventMsg:
		m.applyEvent(SSEEvent(msg))
		m.writeLogContent()
		m.writeMetadata()
		return m, tea.Batch(m.waitForEvent(), m.refreshCampaign())

	case sseClosedMsg:
		if msg.err != nil {
			m.appendLog(errorStyle.Render("Event stream closed: " + msg.err.Error()))
			m.writeLogContent()
		}

	case copiedMsg:
		if msg.err != nil {
			m.statusNote = "Copy failed"
		} else {
			m.statusNote = "Campaign ID copied"
		}

	case progressTickMsg:
		if m.view.Battle != nil && m.view.Battle.Question == nil && !m.view.Battle.State.Terminal() {
			m.progressTick++
			m.writeLogContent()
		}
		return m, progressTick()
	}

	m.logViewport, vpCmd = m.logViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	}

	if m.busy {
		return m, nil
	}
	m.statusNote = ""

	inBattle := m.view.Battle != nil && !m.view.Battle.State.Terminal()
	if inBattle {
		switch msg.String() {
		case "1", "2", "3", "4":
			choice := int(msg.String()[0] - '1')
			m.busy = true
			return m, m.sendAnswer(choice)
		case "f", "F":
			m.busy = true
			return m, m.sendFlee()
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "w":
		m.busy = true
		return m, m.sendStep("north")
	case "down", "s":
		m.busy = true
		return m, m.sendStep("south")
	case "left", "a":
		m.busy = true
		return m, m.sendStep("west")
	case "right", "d":
		m.busy = true
		return m, m.sendStep("east")
	case "c", "C":
		return m, m.copyCampaignID()
	}

	return m, nil
}

func (m *ConsoleUI) applyStep(res *StepResult) {
	m.view.Campaign.Position = res.Position
	m.view.Campaign.Zone = res.Zone
	m.view.Battle = res.Battle
	if res.BattleStarted && res.Battle != nil {
		m.appendLog(opponentStyle.Render(res.Battle.OpponentName) + narratorStyle.Render(" blocks your path!"))
	} else if !res.Moved {
		m.appendLog(hintStyle.Render("You can't go that way."))
	}
}

func (m *ConsoleUI) applyEvent(ev SSEEvent) {
	switch ev.Type {
	case "battle.message":
		if text, ok := ev.Data["text"].(string); ok {
			m.appendLog(narratorStyle.Render(text))
		}
	case "battle.damage":
		target, _ := ev.Data["target"].(string)
		amount, _ := ev.Data["amount"].(float64)
		if target == string(battle.TargetPlayer) {
			m.appendLog(errorStyle.Render(fmt.Sprintf("You take %d damage!", int(amount))))
		} else {
			m.appendLog(playerStyle.Render(fmt.Sprintf("Your opponent takes %d damage!", int(amount))))
		}
	case "battle.ended":
		outcome, _ := ev.Data["outcome"].(string)
		switch battle.Outcome(outcome) {
		case battle.OutcomeVictory:
			xp, _ := ev.Data["experience_awarded"].(float64)
			gold, _ := ev.Data["gold_delta"].(float64)
			m.appendLog(titleStyle.Render(fmt.Sprintf("Victory! +%d XP, +%d gold", int(xp), int(gold))))
			if leveled, _ := ev.Data["leveled_up"].(bool); leveled {
				level, _ := ev.Data["new_level"].(float64)
				m.appendLog(titleStyle.Render(fmt.Sprintf("Level up! You are now level %d.", int(level))))
			}
		case battle.OutcomeDefeat:
			m.appendLog(errorStyle.Render("Defeat. You wake up back at the start, lighter in the pocket."))
		case battle.OutcomeFled:
			m.appendLog(hintStyle.Render("You slip away, dropping some gold in the scramble."))
		}
	case "campaign.save_failed":
		m.appendLog(hintStyle.Render("Save hiccup: progress kept locally."))
	}
}

func (m ConsoleUI) sendStep(direction string) tea.Cmd {
	return func() tea.Msg {
		res, err := stepCampaign(m.client, m.config.APIBaseURL, m.view.Campaign.ID, direction)
		return stepResultMsg{res, err}
	}
}

func (m ConsoleUI) sendAnswer(choice int) tea.Cmd {
	return func() tea.Msg {
		res, err := submitAnswer(m.client, m.config.APIBaseURL, m.view.Campaign.ID, choice)
		return battleActionMsg{res, err}
	}
}

func (m ConsoleUI) sendFlee() tea.Cmd {
	return func() tea.Msg {
		res, err := fleeBattle(m.client, m.config.APIBaseURL, m.view.Campaign.ID)
		return battleActionMsg{res, err}
	}
}

func (m ConsoleUI) refreshCampaign() tea.Cmd {
	return func() tea.Msg {
		view, err := getCampaign(m.client, m.config.APIBaseURL, m.view.Campaign.ID)
		return campaignMsg{view, err}
	}
}

func (m ConsoleUI) copyCampaignID() tea.Cmd {
	id := m.view.Campaign.ID.String()
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(id)}
	}
}

func (m ConsoleUI) runEventStream() tea.Cmd {
	return func() tea.Msg {
		err := listenToSSE(context.Background(), m.sseClient, m.config.APIBaseURL, m.view.Campaign.ID, m.eventChan)
		return sseClosedMsg{err}
	}
}

func (m ConsoleUI) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return sseEventMsg(<-m.eventChan)
	}
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit Game?"))
	content.WriteString("\n\n")
	content.WriteString("Your progress is saved automatically.")
	content.WriteString("\n\n")
	content.WriteString(hintStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	logWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - logWidth - 6

	hints := "Arrows: move  •  C: copy ID  •  Ctrl+C: quit"
	if m.view.Battle != nil && !m.view.Battle.State.Terminal() {
		hints = "1-4: answer  •  F: flee  •  Ctrl+C: quit"
	}
	if m.statusNote != "" {
		hints = m.statusNote + "  •  " + hints
	}

	logPanel := logPanelStyle.Width(logWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.logViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", max(1, logWidth-4))),
			hintStyle.Render(hints),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, logPanel, metaPanel)
}

// renderProgressBar creates an animated progress bar for loading states
func (m ConsoleUI) renderProgressBar() string {
	usable := m.logViewport.Width - 6
	if usable <= 0 {
		usable = 30 // fallback before sizing
	}

	if usable > 80 {
		usable = 80
	} else if usable < 10 {
		usable = 10
	}

	const totalFrames = 40
	frame := m.progressTick % totalFrames
	filled := (frame * usable) / totalFrames

	var bar strings.Builder
	for i := 0; i < usable; i++ {
		if i < filled {
			bar.WriteString("█")
		} else if i == filled && frame%4 < 2 {
			bar.WriteString("▓")
		} else {
			bar.WriteString("░")
		}
	}
	return separatorStyle.Render(bar.String())
}

// progressTick creates a command that sends a progress tick message
func progressTick() tea.Cmd {
	return tea.Tick(time.Millisecond*200, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
