package wizard

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/forms"
)

// FieldStep is a vertical stack of fields with up/down focus navigation.
// Tabbing past either end hands focus to the wizard's button bar.
type FieldStep struct {
	store  *forms.Store
	fields []Field
	focus  int
	width  int
	height int
}

func NewFieldStep(store *forms.Store, fields []Field) *FieldStep {
	return &FieldStep{store: store, fields: fields}
}

func (s *FieldStep) Init() tea.Cmd {
	if len(s.fields) > 0 {
		s.focus = 0
		return s.fields[0].Focus()
	}
	return nil
}

func (s *FieldStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *FieldStep) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "down", "enter", "tab":
			if s.focus >= len(s.fields)-1 {
				if key.String() == "enter" {
					return nil
				}
				return func() tea.Msg { return TabExitForwardMsg{} }
			}
			return s.moveFocus(s.focus + 1)
		case "up", "shift+tab":
			if s.focus <= 0 {
				if key.String() == "up" {
					return nil
				}
				return func() tea.Msg { return TabExitBackwardMsg{} }
			}
			return s.moveFocus(s.focus - 1)
		}
	}

	if s.focus >= 0 && s.focus < len(s.fields) {
		return s.fields[s.focus].Update(msg)
	}
	return nil
}

func (s *FieldStep) moveFocus(next int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = next
	return s.fields[s.focus].Focus()
}

func (s *FieldStep) View() string {
	var sections []string
	for i, f := range s.fields {
		sections = append(sections, f.View(s.width, i == s.focus, s.store.Error(errorKey(f.Name()))))
		if i < len(s.fields)-1 {
			sections = append(sections, "")
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// errorKey maps a field's update name to its validation error key. The
// working-hours group validates under flattened keys.
func errorKey(name string) string {
	switch name {
	case "workingHours.start":
		return "workingHoursStart"
	case "workingHours.end":
		return "workingHoursEnd"
	case "workingHours.timezone":
		return "timezone"
	}
	return name
}

// Focus puts focus back on the first field.
func (s *FieldStep) Focus() tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	return s.moveFocus(0)
}

// FocusLast puts focus on the last field.
func (s *FieldStep) FocusLast() tea.Cmd {
	if len(s.fields) == 0 {
		return nil
	}
	return s.moveFocus(len(s.fields) - 1)
}

// Blur removes focus from every field.
func (s *FieldStep) Blur() {
	for _, f := range s.fields {
		f.Blur()
	}
}
