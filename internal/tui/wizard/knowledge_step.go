package wizard

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/forms"
	"github.com/voicedeck/voicedeck/internal/intake"
)

// FileArea lists the attached knowledge documents and opens the file picker.
type FileArea struct {
	store   *forms.Store
	files   *intake.Intake
	cursor  int
	focused bool
}

func NewFileArea(store *forms.Store, files *intake.Intake) *FileArea {
	return &FileArea{store: store, files: files}
}

func (f *FileArea) Name() string { return "knowledgeFiles" }

func (f *FileArea) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	files := f.files.Files()
	switch key.String() {
	case "a", "space", " ":
		return func() tea.Msg { return OpenPickerMsg{} }
	case "left", "h":
		if f.cursor > 0 {
			f.cursor--
		}
	case "right", "l":
		if f.cursor < len(files)-1 {
			f.cursor++
		}
	case "d", "delete", "backspace":
		if f.cursor < len(files) {
			f.files.RemoveFile(files[f.cursor].ID)
			if f.cursor > 0 {
				f.cursor--
			}
		}
	}
	return nil
}

func (f *FileArea) View(width int, focused bool, err string) string {
	label := styleFieldLabel.Render("Knowledge documents")
	if focused {
		label = styleFieldLabelFocused.Render("Knowledge documents")
	}

	files := f.files.Files()
	var body string
	if len(files) == 0 {
		body = lipgloss.NewStyle().Foreground(colorSurface2).Italic(true).
			Render("No documents attached. Press a to browse (" + strings.Join(intake.AllowedFileTypes, ", ") + ", max " + intake.FormatFileSize(intake.MaxFileSize) + " each).")
	} else {
		var rows []string
		for i, file := range files {
			line := fmt.Sprintf("📄 %s (%s)", file.Name, intake.FormatFileSize(file.Size))
			if file.Status == intake.StatusError {
				line += " " + styleFieldError.Render("failed")
			}
			style := styleOption
			if focused && i == f.cursor {
				style = styleSelectedOption
			}
			rows = append(rows, style.Render(line))
		}
		stats := f.files.GetStats()
		rows = append(rows, lipgloss.NewStyle().Foreground(colorSubtext0).
			Render(fmt.Sprintf("%d file(s), %s total", stats.Total, intake.FormatFileSize(stats.TotalSize))))
		body = strings.Join(rows, "\n")
	}

	lines := []string{label, body}
	if focused {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorSubtext0).
			Render("a add  ←→ select  d remove"))
	}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *FileArea) Focus() tea.Cmd { f.focused = true; return nil }
func (f *FileArea) Blur()          { f.focused = false }

// NewKnowledgeStep builds the knowledge base step: document uploads,
// frequent questions, and restricted topics.
func NewKnowledgeStep(store *forms.Store, files *intake.Intake) *FieldStep {
	form := store.Form()
	return NewFieldStep(store, []Field{
		NewFileArea(store, files),
		NewTextField(store, "frequentQuestions", "Frequently asked questions", "What questions do callers ask most often?", form.FrequentQuestions),
		NewMultiField(store, "commonRestrictions", "Restricted topics", forms.CommonRestrictions, func() []string {
			return store.Form().CommonRestrictions
		}),
		NewTextField(store, "customRestrictions", "Other restrictions", "Anything else the assistant must not discuss", form.CustomRestrictions),
		NewSelectField(store, "confidentialityLevel", "Confidentiality level", []forms.Option{
			{Value: "low", Label: "Low"},
			{Value: "medium", Label: "Medium"},
			{Value: "high", Label: "High"},
		}, form.ConfidentialityLevel),
	})
}
