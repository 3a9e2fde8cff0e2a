package wizard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/forms"
)

// Field is one focusable widget in a step. Widgets write straight into the
// form store as the user types, so the store stays authoritative and field
// errors clear on edit.
type Field interface {
	Name() string
	Update(msg tea.Msg) tea.Cmd
	View(width int, focused bool, err string) string
	Focus() tea.Cmd
	Blur()
}

// TextField is a single-line input bound to a form field.
type TextField struct {
	name  string
	label string
	store *forms.Store
	input textinput.Model
}

func NewTextField(store *forms.Store, name, label, placeholder, initial string) *TextField {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.SetValue(initial)
	return &TextField{name: name, label: label, store: store, input: ti}
}

func (f *TextField) Name() string { return f.name }

func (f *TextField) Update(msg tea.Msg) tea.Cmd {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	// Only a real edit writes through; cursor ticks and other ambient
	// messages must not clear a pending validation error.
	if v := f.input.Value(); v != before {
		f.store.UpdateField(f.name, v)
	}
	return cmd
}

func (f *TextField) View(width int, focused bool, err string) string {
	label := styleFieldLabel.Render(f.label)
	if focused {
		label = styleFieldLabelFocused.Render(f.label)
	}
	lines := []string{label, f.input.View()}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *TextField) Focus() tea.Cmd { return f.input.Focus() }
func (f *TextField) Blur()          { f.input.Blur() }

// TextAreaField is a multi-line input for the longer free-text answers.
type TextAreaField struct {
	name  string
	label string
	store *forms.Store
	input textarea.Model
}

func NewTextAreaField(store *forms.Store, name, label, placeholder, initial string, limit int) *TextAreaField {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.CharLimit = limit
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(modalContentWidth)
	ta.SetHeight(3)
	ta.SetValue(initial)
	return &TextAreaField{name: name, label: label, store: store, input: ta}
}

func (f *TextAreaField) Name() string { return f.name }

func (f *TextAreaField) Update(msg tea.Msg) tea.Cmd {
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if v := f.input.Value(); v != before {
		f.store.UpdateField(f.name, v)
	}
	return cmd
}

func (f *TextAreaField) View(width int, focused bool, err string) string {
	if width > 0 {
		f.input.SetWidth(width)
	}
	label := styleFieldLabel.Render(f.label)
	if focused {
		label = styleFieldLabelFocused.Render(f.label)
	}
	lines := []string{label, f.input.View()}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *TextAreaField) Focus() tea.Cmd { return f.input.Focus() }
func (f *TextAreaField) Blur()          { f.input.Blur() }

// SelectField cycles through value/label options with left/right.
type SelectField struct {
	name    string
	label   string
	store   *forms.Store
	options []forms.Option
	index   int
	chosen  bool
	focused bool
}

func NewSelectField(store *forms.Store, name, label string, options []forms.Option, initial string) *SelectField {
	f := &SelectField{name: name, label: label, store: store, options: options}
	for i, opt := range options {
		if opt.Value == initial {
			f.index = i
			f.chosen = true
			break
		}
	}
	return f
}

func (f *SelectField) Name() string { return f.name }

func (f *SelectField) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(f.options) == 0 {
		return nil
	}
	switch key.String() {
	case "left", "h":
		if f.chosen {
			f.index = (f.index - 1 + len(f.options)) % len(f.options)
		}
	case "right", "l", "space", " ":
		if f.chosen {
			f.index = (f.index + 1) % len(f.options)
		}
	default:
		return nil
	}
	f.chosen = true
	f.store.UpdateField(f.name, f.options[f.index].Value)
	return nil
}

func (f *SelectField) View(width int, focused bool, err string) string {
	label := styleFieldLabel.Render(f.label)
	if focused {
		label = styleFieldLabelFocused.Render(f.label)
	}
	value := "select..."
	if f.chosen && f.index < len(f.options) {
		value = f.options[f.index].Label
	}
	rendered := styleFieldValue.Render(value)
	if !f.chosen {
		rendered = styleOption.Render(value)
	}
	if focused {
		rendered = styleSelectedOption.Render("◂ " + value + " ▸")
	}
	lines := []string{label, rendered}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *SelectField) Focus() tea.Cmd { f.focused = true; return nil }
func (f *SelectField) Blur()          { f.focused = false }

// StringOptions adapts a plain string list to value/label options.
func StringOptions(values []string) []forms.Option {
	opts := make([]forms.Option, len(values))
	for i, v := range values {
		opts[i] = forms.Option{Value: v, Label: v}
	}
	return opts
}

// IntOptions adapts an int list, rendering each as "<n> min".
func IntOptions(values []int) []forms.Option {
	opts := make([]forms.Option, len(values))
	for i, v := range values {
		opts[i] = forms.Option{Value: fmt.Sprintf("%d", v), Label: fmt.Sprintf("%d min", v)}
	}
	return opts
}

// MultiField is a checkbox group bound to an array field. Left/right move
// the cursor, space toggles through the store.
type MultiField struct {
	name    string
	label   string
	store   *forms.Store
	options []string
	cursor  int
	checked func() []string
}

func NewMultiField(store *forms.Store, name, label string, options []string, checked func() []string) *MultiField {
	return &MultiField{name: name, label: label, store: store, options: options, checked: checked}
}

func (f *MultiField) Name() string { return f.name }

func (f *MultiField) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok || len(f.options) == 0 {
		return nil
	}
	switch key.String() {
	case "left", "h":
		if f.cursor > 0 {
			f.cursor--
		}
	case "right", "l":
		if f.cursor < len(f.options)-1 {
			f.cursor++
		}
	case "space", " ", "x":
		f.store.ToggleInArray(f.name, f.options[f.cursor])
	}
	return nil
}

func (f *MultiField) View(width int, focused bool, err string) string {
	label := styleFieldLabel.Render(f.label)
	if focused {
		label = styleFieldLabelFocused.Render(f.label)
	}

	selected := map[string]bool{}
	for _, v := range f.checked() {
		selected[v] = true
	}

	var items []string
	for i, opt := range f.options {
		mark := "☐"
		style := styleOption
		if selected[opt] {
			mark = "☑"
			style = styleCheckedOption
		}
		item := style.Render(mark + " " + opt)
		if focused && i == f.cursor {
			item = styleSelectedOption.Render(mark + " " + opt)
		}
		items = append(items, item)
	}

	row := wrapItems(items, width)
	lines := []string{label, row}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *MultiField) Focus() tea.Cmd { return nil }
func (f *MultiField) Blur()          {}

// ToggleField is an on/off switch bound to a bool field.
type ToggleField struct {
	name  string
	label string
	store *forms.Store
	value bool
}

func NewToggleField(store *forms.Store, name, label string, initial bool) *ToggleField {
	return &ToggleField{name: name, label: label, store: store, value: initial}
}

func (f *ToggleField) Name() string { return f.name }

func (f *ToggleField) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "space", " ", "x", "left", "right", "h", "l":
		f.value = !f.value
		f.store.UpdateField(f.name, f.value)
	}
	return nil
}

func (f *ToggleField) View(width int, focused bool, err string) string {
	label := styleFieldLabel.Render(f.label)
	if focused {
		label = styleFieldLabelFocused.Render(f.label)
	}
	state := "off"
	style := styleOption
	if f.value {
		state = "on"
		style = styleCheckedOption
	}
	rendered := style.Render("[" + state + "]")
	if focused {
		rendered = styleSelectedOption.Render("[" + state + "]")
	}
	lines := []string{label + " " + rendered}
	if err != "" {
		lines = append(lines, styleFieldError.Render("✗ "+err))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (f *ToggleField) Focus() tea.Cmd { return nil }
func (f *ToggleField) Blur()          {}

// wrapItems lays rendered items into rows that fit width.
func wrapItems(items []string, width int) string {
	if width <= 0 {
		width = 60
	}
	var rows []string
	var row []string
	length := 0
	for _, item := range items {
		w := lipgloss.Width(item) + 1
		if length+w > width && len(row) > 0 {
			rows = append(rows, strings.Join(row, " "))
			row = nil
			length = 0
		}
		row = append(row, item)
		length += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}
