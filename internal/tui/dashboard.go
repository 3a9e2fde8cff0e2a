// Package tui renders the interactive screens: the assistant dashboard and
// the live call/chat view.
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/storage"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

// DashboardAction is what the user chose to do next when the dashboard
// program exits.
type DashboardAction int

const (
	ActionQuit DashboardAction = iota
	ActionNewAssistant
	ActionEditAssistant
	ActionOpenCall
)

// DashboardResult carries the exit action and the assistant it applies to.
// Mode picks the initial channel when the action opens the call screen.
type DashboardResult struct {
	Action    DashboardAction
	Assistant vapi.AssistantSummary
	Mode      Mode
}

type assistantsLoadedMsg struct {
	summaries []vapi.AssistantSummary
	fetchedAt time.Time
	fromCache bool
}

type assistantsErrMsg struct{ err error }

// Dashboard lists every assistant on the account, cache-first with a
// background refresh.
type Dashboard struct {
	cfg    *config.Config
	store  storage.Store
	client *vapi.Client
	ctx    context.Context

	assistants []vapi.AssistantSummary
	lastFetch  time.Time
	selected   int
	loading    bool
	errMsg     string
	width      int
	height     int

	// Raw-config overlay state
	showConfig bool
	configText string

	result DashboardResult
}

// RunDashboard runs the dashboard as a standalone program and reports what
// the user picked.
func RunDashboard(ctx context.Context, cfg *config.Config, store storage.Store, client *vapi.Client) (DashboardResult, error) {
	m := &Dashboard{cfg: cfg, store: store, client: client, ctx: ctx, loading: true}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return DashboardResult{}, fmt.Errorf("dashboard failed: %w", err)
	}
	d, ok := final.(*Dashboard)
	if !ok {
		return DashboardResult{}, fmt.Errorf("unexpected model type")
	}
	return d.result, nil
}

func (d *Dashboard) Init() tea.Cmd {
	return tea.Batch(d.loadCache, d.refresh)
}

// loadCache shows the last known listing immediately while the network
// refresh runs.
func (d *Dashboard) loadCache() tea.Msg {
	var cache vapi.AssistantCache
	if err := storage.GetJSON(d.ctx, d.store, storage.KeyAssistantCache, &cache); err != nil {
		return nil
	}
	return assistantsLoadedMsg{summaries: cache.Assistants, fetchedAt: cache.LastFetch, fromCache: true}
}

func (d *Dashboard) refresh() tea.Msg {
	assistants, err := d.client.ListAssistants(d.ctx)
	if err != nil {
		return assistantsErrMsg{err: err}
	}
	summaries := vapi.SummarizeAll(assistants, d.cfg.PublicKey != "")
	now := time.Now()
	cache := vapi.AssistantCache{Assistants: summaries, LastFetch: now}
	if err := storage.SetJSON(d.ctx, d.store, storage.KeyAssistantCache, cache); err != nil {
		logger.Warn("dashboard: caching assistants: %v", err)
	}
	return assistantsLoadedMsg{summaries: summaries, fetchedAt: now}
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		return d, nil

	case assistantsLoadedMsg:
		// A late cache read never overwrites fresh data.
		if msg.fromCache && len(d.assistants) > 0 {
			return d, nil
		}
		d.assistants = msg.summaries
		d.lastFetch = msg.fetchedAt
		if !msg.fromCache {
			d.loading = false
			d.errMsg = ""
		}
		if d.selected >= len(d.assistants) {
			d.selected = 0
		}
		return d, nil

	case assistantsErrMsg:
		d.loading = false
		d.errMsg = msg.err.Error()
		return d, nil

	case tea.KeyPressMsg:
		if d.showConfig {
			switch msg.String() {
			case "esc", "q", "v":
				d.showConfig = false
			}
			return d, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			d.result = DashboardResult{Action: ActionQuit}
			return d, tea.Quit
		case "up", "k":
			if d.selected > 0 {
				d.selected--
			}
		case "down", "j":
			if d.selected < len(d.assistants)-1 {
				d.selected++
			}
		case "r":
			d.loading = true
			d.errMsg = ""
			return d, d.refresh
		case "n":
			d.result = DashboardResult{Action: ActionNewAssistant}
			return d, tea.Quit
		case "e":
			if a, ok := d.current(); ok {
				if err := storage.SetJSON(d.ctx, d.store, storage.KeyEditingAssistant, a); err != nil {
					d.errMsg = "Could not hand assistant to the wizard: " + err.Error()
					return d, nil
				}
				d.result = DashboardResult{Action: ActionEditAssistant, Assistant: a}
				return d, tea.Quit
			}
		case "enter":
			if a, ok := d.current(); ok {
				d.result = DashboardResult{Action: ActionOpenCall, Assistant: a, Mode: ModeVoice}
				return d, tea.Quit
			}
		case "c":
			if a, ok := d.current(); ok {
				d.result = DashboardResult{Action: ActionOpenCall, Assistant: a, Mode: ModeChat}
				return d, tea.Quit
			}
		case "v":
			if a, ok := d.current(); ok {
				raw, err := json.MarshalIndent(a, "", "  ")
				if err != nil {
					d.errMsg = err.Error()
					return d, nil
				}
				d.configText = syntaxHighlight(string(raw), a.ID+".json")
				d.showConfig = true
			}
		}
	}
	return d, nil
}

func (d *Dashboard) current() (vapi.AssistantSummary, bool) {
	if d.selected >= 0 && d.selected < len(d.assistants) {
		return d.assistants[d.selected], true
	}
	return vapi.AssistantSummary{}, false
}

func (d *Dashboard) View() tea.View {
	var view tea.View
	view.AltScreen = true
	if d.width == 0 || d.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	var content string
	if d.showConfig {
		content = d.renderConfigOverlay()
	} else {
		content = d.renderList()
	}

	view.Content = lipgloss.NewLayer(lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, content))
	return view
}

func (d *Dashboard) renderList() string {
	title := styleTitle.Render("VoiceDeck")
	subtitle := styleSubtitle.Render("Your voice assistants")

	var status string
	switch {
	case d.loading:
		status = styleSubtitle.Render("Refreshing...")
	case d.errMsg != "":
		status = styleError.Render(d.errMsg)
	case !d.lastFetch.IsZero():
		status = styleDim.Render("Last refresh " + d.lastFetch.Format("15:04:05"))
	}

	var rows string
	if len(d.assistants) == 0 && !d.loading {
		rows = styleSubtitle.Render("No assistants yet. Press n to create one.")
	} else {
		rows = d.renderRows()
	}

	hint := renderHintBar(
		"↑↓", "navigate",
		"enter", "call",
		"c", "chat",
		"n", "new",
		"e", "edit",
		"v", "config",
		"r", "refresh",
		"q", "quit",
	)

	body := lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "", status, "", rows, "", hint)
	return stylePanel.Width(min(d.width-4, 90)).Render(body)
}

func (d *Dashboard) renderRows() string {
	var rows []string
	for i, a := range d.assistants {
		ready := styleSuccess.Render("✓")
		if !a.CallReady.Ready {
			ready = styleWarning.Render("⚠")
		}
		line := fmt.Sprintf("%s %s  %s  %s  %s",
			ready,
			styleStatValue.Render(a.Name),
			styleSubtitle.Render(a.CompanyName),
			styleDim.Render(vapi.DescribeVoice(a.Voice)),
			styleDim.Render(a.CreatedAt),
		)
		if i == d.selected {
			line = styleSelectedRow.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (d *Dashboard) renderConfigOverlay() string {
	a, _ := d.current()
	title := styleTitle.Render("Configuration: " + a.Name)

	var issues string
	if !a.CallReady.Ready {
		var lines []string
		for _, issue := range a.CallReady.Issues {
			lines = append(lines, styleWarning.Render("⚠ "+issue))
		}
		issues = lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	hint := renderHintBar("esc", "back")
	body := lipgloss.JoinVertical(lipgloss.Left, title, "", d.configText, "", issues, hint)
	return stylePanel.Width(min(d.width-4, 100)).Render(body)
}
