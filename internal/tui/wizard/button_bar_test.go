package wizard

import (
	"strings"
	"testing"
)

func TestButtonBarFocusCycle(t *testing.T) {
	bar := NewButtonBar(true, "Next →")

	if bar.FocusedButton() != ButtonNone {
		t.Error("Expected no focus before FocusFirst")
	}

	bar.FocusFirst()
	if bar.FocusedButton() != ButtonBack {
		t.Error("Expected Back focused first")
	}

	if !bar.FocusNext() {
		t.Error("Expected FocusNext to stay in the bar")
	}
	if bar.FocusedButton() != ButtonNext {
		t.Error("Expected Next focused after FocusNext")
	}

	if bar.FocusNext() {
		t.Error("Expected FocusNext to fall off the end")
	}
	if bar.FocusedButton() != ButtonNone {
		t.Error("Expected focus cleared after falling off")
	}
}

func TestButtonBarFocusPrevFallsOffFront(t *testing.T) {
	bar := NewButtonBar(true, "Next →")
	bar.FocusFirst()

	if bar.FocusPrev() {
		t.Error("Expected FocusPrev to fall off the front")
	}
	if bar.FocusedButton() != ButtonNone {
		t.Error("Expected focus cleared")
	}
}

func TestButtonBarNoBackOnFirstStep(t *testing.T) {
	bar := NewButtonBar(false, "Next →")
	bar.FocusFirst()

	if bar.FocusedButton() != ButtonNext {
		t.Error("Expected Next to be the only button")
	}

	rendered := bar.Render()
	if strings.Contains(rendered, "Back") {
		t.Error("Expected no Back button on first step")
	}
	if !strings.Contains(rendered, "Next →") {
		t.Error("Expected Next button label")
	}
}

func TestButtonBarFocusLast(t *testing.T) {
	bar := NewButtonBar(true, "Create Assistant")
	bar.FocusLast()

	if bar.FocusedButton() != ButtonNext {
		t.Error("Expected last button focused")
	}
}
