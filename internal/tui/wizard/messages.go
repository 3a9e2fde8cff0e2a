package wizard

import "github.com/voicedeck/voicedeck/internal/webhook"

// TabExitForwardMsg is sent when focus tabs past the last field of a step.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg is sent when focus tabs before the first field.
type TabExitBackwardMsg struct{}

// OpenPickerMsg asks the wizard to show the file picker overlay.
type OpenPickerMsg struct{}

// FileSelectedMsg is sent when the picker chose a file.
type FileSelectedMsg struct {
	Path string
}

// SubmitProgressMsg carries a submission pipeline update.
type SubmitProgressMsg struct {
	Progress webhook.Progress
}

// SubmitDoneMsg is sent when the provisioning endpoint accepted the
// submission.
type SubmitDoneMsg struct {
	AssistantID string
	Response    map[string]any
}

// SubmitFailedMsg is sent when submission failed.
type SubmitFailedMsg struct {
	Err error
}
