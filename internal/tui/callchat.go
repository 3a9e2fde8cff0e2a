package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/call"
	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

// Mode selects which channel the input row drives.
type Mode int

const (
	ModeChat Mode = iota
	ModeVoice
)

type timelineChangedMsg struct{}

type tickMsg time.Time

type sessionReadyMsg struct{ id string }

type sessionErrMsg struct{ err error }

type chatDoneMsg struct {
	streamID string
	full     string
	err      error
}

type exportDoneMsg struct {
	path string
	err  error
}

// CallChat is the conversation screen for one assistant: a merged timeline
// of voice transcripts, chat turns and system notices, with a mode-aware
// input row and call controls.
type CallChat struct {
	cfg       *config.Config
	client    *vapi.Client
	ctrl      *call.Controller
	assistant vapi.AssistantSummary
	ctx       context.Context
	program   *tea.Program

	mode      Mode
	sessionID string
	viewport  viewport.Model
	input     textarea.Model
	width     int
	height    int
	ticking   bool
	sending   bool
	notice    string
}

// RunCallChat runs the conversation screen until the user leaves it. mode
// selects the initial channel; the user can toggle at any time.
func RunCallChat(ctx context.Context, cfg *config.Config, client *vapi.Client, transport call.Transport, assistant vapi.AssistantSummary, mode Mode) error {
	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.CharLimit = 2000
	ta.SetHeight(3)
	ta.SetWidth(70)
	if mode == ModeChat {
		ta.Focus()
	}

	m := &CallChat{
		cfg:       cfg,
		client:    client,
		assistant: assistant,
		ctx:       ctx,
		mode:      mode,
		viewport:  viewport.New(),
		input:     ta,
	}
	m.ctrl = call.NewController(transport, func() {
		if m.program != nil {
			m.program.Send(timelineChangedMsg{})
		}
	})

	p := tea.NewProgram(m)
	m.program = p

	defer func() {
		if m.ctrl.State() != call.StateIdle {
			_ = m.ctrl.EndCall()
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("call screen failed: %w", err)
	}
	return nil
}

func (m *CallChat) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.createSession)
}

// createSession opens the server-side conversation memory so chat turns
// share context for the whole visit.
func (m *CallChat) createSession() tea.Msg {
	session, err := m.client.CreateSession(m.ctx, m.assistant.ID)
	if err != nil {
		return sessionErrMsg{err: err}
	}
	return sessionReadyMsg{id: session.ID}
}

func (m *CallChat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.SetWidth(msg.Width - 8)
		m.viewport.SetHeight(msg.Height - 14)
		m.input.SetWidth(msg.Width - 10)
		m.refreshTimeline()
		return m, nil

	case sessionReadyMsg:
		m.sessionID = msg.id
		m.ctrl.AddSystem("Connected. Say hello to " + m.assistant.Name + ".")
		return m, nil

	case sessionErrMsg:
		m.ctrl.AddSystem("Chat unavailable: " + msg.err.Error())
		return m, nil

	case timelineChangedMsg:
		m.refreshTimeline()
		// The duration readout only ticks while a call is live.
		if m.ctrl.State() == call.StateActive && !m.ticking {
			m.ticking = true
			return m, m.tick()
		}
		return m, nil

	case tickMsg:
		if m.ctrl.State() != call.StateActive {
			m.ticking = false
			return m, nil
		}
		return m, m.tick()

	case chatDoneMsg:
		m.sending = false
		if msg.err != nil {
			m.ctrl.FailStream(msg.streamID, msg.err.Error())
		} else {
			m.ctrl.FinishStream(msg.streamID, msg.full)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.notice = styleError.Render("Export failed: " + msg.err.Error())
		} else {
			m.notice = styleSuccess.Render("Transcript saved to " + msg.path)
		}
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+t":
			if m.mode == ModeChat {
				m.mode = ModeVoice
				m.input.Blur()
			} else {
				m.mode = ModeChat
				m.input.Focus()
			}
			return m, nil
		case "ctrl+e":
			return m, m.export
		case "enter":
			if m.mode == ModeChat {
				return m, m.sendChat()
			}
		}

		if m.mode == ModeVoice {
			switch msg.String() {
			case "space", " ", "s":
				return m, m.toggleCall()
			case "m":
				if _, err := m.ctrl.ToggleMute(); err != nil {
					m.notice = styleError.Render(err.Error())
				}
				return m, nil
			}
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if m.mode == ModeChat {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *CallChat) toggleCall() tea.Cmd {
	switch m.ctrl.State() {
	case call.StateIdle:
		if !m.assistant.CallReady.Ready {
			m.ctrl.AddSystem("This assistant is not call-ready: " + strings.Join(m.assistant.CallReady.Issues, "; "))
			return nil
		}
		return func() tea.Msg {
			if err := m.ctrl.StartCall(m.ctx, m.assistant.ID); err != nil {
				logger.Warn("call: start: %v", err)
			}
			return timelineChangedMsg{}
		}
	case call.StateActive, call.StateConnecting:
		return func() tea.Msg {
			_ = m.ctrl.EndCall()
			return timelineChangedMsg{}
		}
	}
	return nil
}

func (m *CallChat) sendChat() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending {
		return nil
	}
	if m.sessionID == "" {
		m.ctrl.AddSystem("Chat is unavailable without a session.")
		return nil
	}

	m.input.SetValue("")
	m.sending = true
	m.ctrl.AddUserChat(text)
	streamID := m.ctrl.BeginAssistantStream()

	ctrl, client, ctx, sessionID := m.ctrl, m.client, m.ctx, m.sessionID
	return func() tea.Msg {
		full, err := client.StreamChat(ctx, sessionID, text, func(delta string) {
			ctrl.AppendStreamDelta(streamID, delta)
		})
		return chatDoneMsg{streamID: streamID, full: full, err: err}
	}
}

func (m *CallChat) export() tea.Msg {
	path, err := call.ExportTranscript(m.ctrl.Messages(), m.assistant.Name, ".")
	return exportDoneMsg{path: path, err: err}
}

func (m *CallChat) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *CallChat) refreshTimeline() {
	width := m.viewport.Width()
	if width <= 0 {
		width = 70
	}

	var lines []string
	for _, msg := range m.ctrl.Messages() {
		lines = append(lines, m.renderMessage(msg, width))
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *CallChat) renderMessage(msg call.Message, width int) string {
	stamp := styleDim.Render(msg.At.Format("15:04:05"))
	switch {
	case msg.Source == call.SourceSystem:
		return stamp + " " + styleSystemMsg.Render(msg.Text)
	case msg.Role == "user":
		tag := styleUserMsg.Render("You")
		if msg.Source == call.SourceVoice {
			tag += " " + styleVoiceTag.Render("(voice)")
		}
		return stamp + " " + tag + ": " + msg.Text
	default:
		tag := styleAssistantMsg.Render(m.assistant.Name)
		if msg.Source == call.SourceVoice {
			tag += " " + styleVoiceTag.Render("(voice)")
			suffix := ""
			if msg.Partial {
				suffix = styleDim.Render(" ...")
			}
			return stamp + " " + tag + ": " + msg.Text + suffix
		}
		body := msg.Text
		if !msg.Partial {
			body = renderMarkdown(msg.Text, width-4)
		}
		return stamp + " " + tag + ":\n" + body
	}
}

func (m *CallChat) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	header := m.renderHeader()
	timeline := stylePanel.Width(m.width - 4).Render(m.viewport.View())

	var inputRow string
	if m.mode == ModeChat {
		inputRow = stylePanelFocused.Width(m.width - 4).Render(m.input.View())
	} else {
		inputRow = stylePanel.Width(m.width - 4).Render(m.renderCallControls())
	}

	hint := m.renderHints()
	footer := hint
	if m.notice != "" {
		footer = lipgloss.JoinVertical(lipgloss.Left, m.notice, hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, timeline, inputRow, footer)
	view.Content = lipgloss.NewLayer(content)
	return view
}

func (m *CallChat) renderHeader() string {
	title := styleTitle.Render(m.assistant.Name)
	company := styleSubtitle.Render(m.assistant.CompanyName)

	var state string
	switch m.ctrl.State() {
	case call.StateConnecting:
		state = styleWarning.Render("● connecting")
	case call.StateActive:
		state = styleSuccess.Render(fmt.Sprintf("● on call %s", formatDuration(m.ctrl.Duration())))
		if m.ctrl.Muted() {
			state += " " + styleWarning.Render("muted")
		}
	case call.StateEnding:
		state = styleWarning.Render("● ending")
	default:
		if m.mode == ModeVoice {
			state = styleDim.Render("● idle")
		} else {
			state = styleDim.Render("chat")
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", company, "  ", state)
}

func (m *CallChat) renderCallControls() string {
	switch m.ctrl.State() {
	case call.StateActive:
		bar := renderVolumeBar(m.ctrl.Volume(), 20)
		return fmt.Sprintf("%s  %s", styleSuccess.Render("On call"), bar)
	case call.StateConnecting:
		return styleWarning.Render("Connecting...")
	case call.StateEnding:
		return styleWarning.Render("Hanging up...")
	default:
		return styleSubtitle.Render("Press space to start a voice call")
	}
}

func (m *CallChat) renderHints() string {
	if m.mode == ModeChat {
		return renderHintBar(
			"enter", "send",
			"ctrl+t", "voice mode",
			"ctrl+e", "export",
			"esc", "back",
		)
	}
	return renderHintBar(
		"space", "start/end call",
		"m", "mute",
		"ctrl+t", "chat mode",
		"ctrl+e", "export",
		"esc", "back",
	)
}

func renderVolumeBar(level float64, width int) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * float64(width))
	return styleSuccess.Render(strings.Repeat("█", filled)) + styleDim.Render(strings.Repeat("░", width-filled))
}

func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
