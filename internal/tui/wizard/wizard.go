package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/forms"
	"github.com/voicedeck/voicedeck/internal/intake"
	"github.com/voicedeck/voicedeck/internal/logger"
	"github.com/voicedeck/voicedeck/internal/storage"
	"github.com/voicedeck/voicedeck/internal/vapi"
	"github.com/voicedeck/voicedeck/internal/webhook"
)

// Modal layout constants
const (
	modalWidth        = 76
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// ProgramSender sends messages into the running Bubbletea program. Narrowed
// to an interface so submission callbacks can be tested without a terminal.
type ProgramSender interface {
	Send(tea.Msg)
}

// Result reports how the wizard ended.
type Result struct {
	Submitted   bool
	AssistantID string
	LaunchOAuth bool
}

// Model is the Bubbletea model for the four-step assistant setup wizard.
type Model struct {
	ctx   context.Context
	cfg   *config.Config
	kv    storage.Store
	store *forms.Store
	files *intake.Intake

	steps [forms.StepCount]*FieldStep

	// Cached button bars per step (prevents focus reset on re-render)
	buttonBars    [forms.StepCount]*ButtonBar
	buttonFocused bool

	picker     *FilePicker
	pickerOpen bool

	submitting bool
	progress   webhook.Progress
	submitErr  string

	completed   bool
	oauthCursor int // 0 = connect calendar, 1 = finish
	assistantID string

	cancelled bool
	width     int
	height    int

	program ProgramSender
}

// Run drives the setup wizard in its own Bubbletea program. When an
// assistant summary was handed off for editing it seeds the form before the
// first render.
func Run(ctx context.Context, cfg *config.Config, kv storage.Store) (Result, error) {
	store := forms.NewStore()

	var editing vapi.AssistantSummary
	if err := storage.Consume(ctx, kv, storage.KeyEditingAssistant, &editing); err == nil {
		store = forms.NewStoreFrom(prefillForm(editing))
		logger.Debug("Wizard seeded from assistant %s", editing.ID)
	}

	m := &Model{
		ctx:   ctx,
		cfg:   cfg,
		kv:    kv,
		store: store,
	}
	m.files = intake.New(func(files []intake.UploadedFile) {
		store.SetKnowledgeFiles(files)
	})

	p := tea.NewProgram(m)
	m.program = p

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type")
	}
	if wm.cancelled {
		return Result{}, nil
	}
	return Result{
		Submitted:   wm.completed,
		AssistantID: wm.assistantID,
		LaunchOAuth: wm.completed && wm.oauthCursor == 0 && wm.store.Form().CalendarIntegration,
	}, nil
}

// prefillForm maps an assistant summary back onto form fields. Only the
// fields the summary carries are seeded; everything else keeps its default.
func prefillForm(a vapi.AssistantSummary) forms.FormState {
	f := forms.NewFormState()
	f.CompanyName = a.CompanyName
	if f.CompanyName == "Unknown Company" {
		f.CompanyName = ""
	}
	f.AssistantName = a.Name
	f.Personality = a.Personality
	f.Industry = a.Industry
	for _, lang := range forms.Languages {
		if lang.Value == a.Language || strings.HasPrefix(lang.Value, a.Language) {
			f.Language = lang.Value
			break
		}
	}
	return f
}

func (m *Model) Init() tea.Cmd {
	return m.currentStep().Init()
}

// currentStep returns the component for the store's step, building it on
// first use so later visits keep field state.
func (m *Model) currentStep() *FieldStep {
	i := m.store.CurrentStep()
	if m.steps[i] == nil {
		switch i {
		case 0:
			m.steps[i] = NewCompanyStep(m.store)
		case 1:
			m.steps[i] = NewAssistantStep(m.store)
		case 2:
			m.steps[i] = NewKnowledgeStep(m.store, m.files)
		case 3:
			m.steps[i] = NewIntegrationStep(m.store)
		}
		m.steps[i].SetSize(modalContentWidth, m.contentHeight())
	}
	return m.steps[i]
}

func (m *Model) currentButtonBar() *ButtonBar {
	i := m.store.CurrentStep()
	if m.buttonBars[i] == nil {
		label := "Next →"
		if i == forms.StepCount-1 {
			label = "Create Assistant"
		}
		m.buttonBars[i] = NewButtonBar(i > 0, label)
		m.buttonBars[i].SetWidth(modalContentWidth)
	}
	return m.buttonBars[i]
}

func (m *Model) contentHeight() int {
	h := m.height - 12
	if h < 10 {
		h = 10
	}
	return h
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, s := range m.steps {
			if s != nil {
				s.SetSize(modalContentWidth, m.contentHeight())
			}
		}
		if m.picker != nil {
			m.picker.SetSize(modalContentWidth, m.contentHeight())
		}
		return m, nil

	case OpenPickerMsg:
		m.pickerOpen = true
		m.files.SetPickerActive(true)
		m.picker = NewFilePicker()
		m.picker.SetSize(modalContentWidth, m.contentHeight())
		return m, nil

	case FileSelectedMsg:
		m.closePicker()
		res := m.files.AddPaths([]string{msg.Path}, intake.StatusCompleted)
		for name, errs := range res.Errors {
			logger.Warn("Rejected file %s: %s", name, strings.Join(errs, "; "))
		}
		return m, nil

	case TabExitForwardMsg:
		m.buttonFocused = true
		m.currentStep().Blur()
		m.currentButtonBar().FocusFirst()
		return m, nil

	case TabExitBackwardMsg:
		m.buttonFocused = true
		m.currentStep().Blur()
		m.currentButtonBar().FocusLast()
		return m, nil

	case SubmitProgressMsg:
		m.progress = msg.Progress
		return m, nil

	case SubmitDoneMsg:
		m.submitting = false
		m.completed = true
		m.assistantID = msg.AssistantID
		m.persistSubmission(msg)
		return m, nil

	case SubmitFailedMsg:
		m.submitting = false
		m.submitErr = msg.Err.Error()
		logger.Error("Wizard submission failed: %v", msg.Err)
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}

	return m, m.currentStep().Update(msg)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.cancelled = true
		return m, tea.Quit
	}

	if m.submitting {
		return m, nil
	}

	if m.completed {
		return m.handleCompletionKey(msg)
	}

	if m.pickerOpen {
		if msg.String() == "esc" {
			m.closePicker()
			return m, nil
		}
		return m, m.picker.Update(msg)
	}

	if m.submitErr != "" {
		switch msg.String() {
		case "y", "Y", "enter":
			m.submitErr = ""
			return m, m.submit()
		case "n", "N", "esc":
			m.submitErr = ""
			return m, nil
		}
		return m, nil
	}

	if m.buttonFocused {
		bar := m.currentButtonBar()
		switch msg.String() {
		case "tab", "right":
			if !bar.FocusNext() {
				m.buttonFocused = false
				return m, m.currentStep().Focus()
			}
			return m, nil
		case "shift+tab", "left":
			if !bar.FocusPrev() {
				m.buttonFocused = false
				return m, m.currentStep().FocusLast()
			}
			return m, nil
		case "enter", "space", " ":
			return m.activateButton(bar.FocusedButton())
		case "esc":
			// fall through to the global handler below
		default:
			return m, nil
		}
	}

	switch msg.String() {
	case "esc":
		if m.store.CurrentStep() == 0 {
			m.cancelled = true
			return m, tea.Quit
		}
		return m.goBack()
	}

	return m, m.currentStep().Update(msg)
}

func (m *Model) handleCompletionKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	wantsCalendar := m.store.Form().CalendarIntegration
	switch msg.String() {
	case "left", "h", "right", "l", "tab", "shift+tab":
		if wantsCalendar {
			m.oauthCursor = 1 - m.oauthCursor
		}
		return m, nil
	case "enter", "space", " ":
		return m, tea.Quit
	case "esc", "q":
		m.oauthCursor = 1
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) activateButton(id ButtonID) (tea.Model, tea.Cmd) {
	switch id {
	case ButtonBack:
		return m.goBack()
	case ButtonNext:
		if m.store.CurrentStep() == forms.StepCount-1 {
			if !m.store.ValidateCurrentStep() {
				m.buttonFocused = false
				return m, m.currentStep().Focus()
			}
			return m, m.submit()
		}
		if !m.store.NextStep() {
			// Validation failed; return focus to the fields so the user
			// can fix the highlighted errors.
			m.buttonFocused = false
			return m, m.currentStep().Focus()
		}
		m.buttonFocused = false
		return m, m.currentStep().Init()
	}
	return m, nil
}

func (m *Model) goBack() (tea.Model, tea.Cmd) {
	m.store.PrevStep()
	m.buttonFocused = false
	return m, m.currentStep().Focus()
}

func (m *Model) closePicker() {
	m.pickerOpen = false
	m.picker = nil
	m.files.SetPickerActive(false)
}

// submit runs the webhook pipeline off the event loop, streaming progress
// back through the program.
func (m *Model) submit() tea.Cmd {
	m.submitting = true
	m.progress = webhook.Progress{Stage: webhook.StageProcessing, Detail: "Preparing submission"}

	// The submission always goes to the configured provisioning endpoint.
	// The form's webhookUrl is payload only: the address the workflow should
	// call back on, defaulted to the endpoint when the user left it blank.
	form := m.store.Form()
	if form.WebhookURL == "" {
		form.WebhookURL = m.cfg.WebhookURL
	}
	files := m.files.Files()
	url := m.cfg.WebhookURL
	ctx := m.ctx
	sender := m.program

	return func() tea.Msg {
		res, err := webhook.Submit(ctx, url, form, files, func(p webhook.Progress) {
			sender.Send(SubmitProgressMsg{Progress: p})
		})
		if err != nil {
			return SubmitFailedMsg{Err: err}
		}
		id, _ := res.Response["assistantId"].(string)
		return SubmitDoneMsg{AssistantID: id, Response: res.Response}
	}
}

func (m *Model) persistSubmission(msg SubmitDoneMsg) {
	record := map[string]any{
		"assistantId": msg.AssistantID,
		"companyName": m.store.Form().CompanyName,
		"submittedAt": time.Now().Format(time.RFC3339),
	}
	if err := storage.SetJSON(m.ctx, m.kv, storage.KeySubmission, record); err != nil {
		logger.Warn("Failed to persist submission record: %v", err)
	}
}

func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderModal()
	view.Content = lipgloss.NewLayer(lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	))
	return view
}

func (m *Model) renderModal() string {
	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(1, modalPadding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface2)

	switch {
	case m.completed:
		return modalStyle.Render(m.renderCompletion())
	case m.submitting:
		return modalStyle.Render(m.renderSubmitting())
	case m.submitErr != "":
		return modalStyle.Render(m.renderSubmitError())
	case m.pickerOpen:
		title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1).
			Render("Add Knowledge Document")
		return modalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, m.picker.View()))
	}

	step := m.store.CurrentStep()
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).
		Render(fmt.Sprintf("Step %d of %d: %s", step+1, forms.StepCount, forms.StepTitle(step)))
	progress := styleStepProgress.Render(fmt.Sprintf("%d%% complete", m.store.CompletionPercentage()))

	bar := m.currentButtonBar()
	hint := renderHintBar(
		"tab", "buttons",
		"↑↓", "fields",
		"esc", "back",
		"ctrl+c", "quit",
	)

	return modalStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		progress,
		"",
		m.currentStep().View(),
		"",
		bar.Render(),
		"",
		hint,
	))
}

func (m *Model) renderSubmitting() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).MarginBottom(1).
		Render("Creating your assistant")

	stage := string(m.progress.Stage)
	if m.progress.Detail != "" {
		stage = m.progress.Detail
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		renderProgressBar(m.progress.Percent, modalContentWidth),
		"",
		lipgloss.NewStyle().Foreground(colorSubtext0).Render(stage),
	)
}

func (m *Model) renderSubmitError() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorError).MarginBottom(1).
		Render("✗ Submission failed")
	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		lipgloss.NewStyle().Foreground(colorText).Render(m.submitErr),
		"",
		renderHintBar("y/enter", "retry", "n/esc", "back to form"),
	)
}

func (m *Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorSuccess).
		Render("✓ Assistant created successfully!"))
	b.WriteString("\n\n")

	if m.assistantID != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(colorSubtext0).Render("Assistant ID: "))
		b.WriteString(lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).Render(m.assistantID))
		b.WriteString("\n\n")
	}

	if m.store.Form().CalendarIntegration {
		b.WriteString(lipgloss.NewStyle().Foreground(colorText).
			Render("Connect Google Calendar so the assistant can book appointments?"))
		b.WriteString("\n\n")

		options := []string{"Connect Calendar", "Finish"}
		var rendered []string
		for i, opt := range options {
			style := styleOption
			if i == m.oauthCursor {
				style = styleSelectedOption
			}
			rendered = append(rendered, style.Render(opt))
		}
		b.WriteString(lipgloss.Place(modalContentWidth, 1, lipgloss.Center, lipgloss.Center,
			strings.Join(rendered, "  ")))
		b.WriteString("\n\n")
		b.WriteString(renderHintBar("←→", "choose", "enter", "confirm"))
	} else {
		b.WriteString(renderHintBar("enter", "finish"))
	}

	return b.String()
}

// renderProgressBar draws a filled bar for a 0..100 percentage.
func renderProgressBar(percent, width int) string {
	if width < 10 {
		width = 10
	}
	barWidth := width - 5
	filled := barWidth * percent / 100
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return lipgloss.NewStyle().Foreground(colorPrimary).Render(bar) +
		fmt.Sprintf(" %3d%%", percent)
}
