package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// ButtonID identifies which action a button triggers.
type ButtonID int

const (
	ButtonBack ButtonID = iota
	ButtonNext
	ButtonNone
)

// Button is one entry in the bar.
type Button struct {
	ID      ButtonID
	Label   string
	Focused bool
}

// ButtonBar manages Back/Next navigation with focus tracking.
type ButtonBar struct {
	buttons []Button
	focus   int // -1 when no button has focus
	width   int
}

// NewButtonBar builds a bar. hasBack drops the Back button on the first
// step; nextLabel swaps "Next →" for "Submit" on the last.
func NewButtonBar(hasBack bool, nextLabel string) *ButtonBar {
	var buttons []Button
	if hasBack {
		buttons = append(buttons, Button{ID: ButtonBack, Label: "← Back"})
	}
	buttons = append(buttons, Button{ID: ButtonNext, Label: nextLabel})
	return &ButtonBar{buttons: buttons, focus: -1, width: 60}
}

func (b *ButtonBar) SetWidth(width int) { b.width = width }

// FocusFirst moves focus to the first button.
func (b *ButtonBar) FocusFirst() {
	b.setFocus(0)
}

// FocusLast moves focus to the last button.
func (b *ButtonBar) FocusLast() {
	b.setFocus(len(b.buttons) - 1)
}

// FocusNext advances focus; false means focus fell off the end.
func (b *ButtonBar) FocusNext() bool {
	if b.focus >= len(b.buttons)-1 {
		b.Blur()
		return false
	}
	b.setFocus(b.focus + 1)
	return true
}

// FocusPrev retreats focus; false means focus fell off the front.
func (b *ButtonBar) FocusPrev() bool {
	if b.focus <= 0 {
		b.Blur()
		return false
	}
	b.setFocus(b.focus - 1)
	return true
}

// Blur removes focus from all buttons.
func (b *ButtonBar) Blur() {
	b.focus = -1
	for i := range b.buttons {
		b.buttons[i].Focused = false
	}
}

// FocusedButton reports which button has focus.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus >= 0 && b.focus < len(b.buttons) {
		return b.buttons[b.focus].ID
	}
	return ButtonNone
}

func (b *ButtonBar) setFocus(i int) {
	b.focus = i
	for j := range b.buttons {
		b.buttons[j].Focused = j == i
	}
}

// Render renders the bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	normalStyle := lipgloss.NewStyle().
		Foreground(colorText).
		Background(colorSurface0).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(colorBase).
		Background(colorBorderFocused).
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	var rendered []string
	for _, btn := range b.buttons {
		if btn.Focused {
			rendered = append(rendered, focusedStyle.Render(btn.Label))
		} else {
			rendered = append(rendered, normalStyle.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}
