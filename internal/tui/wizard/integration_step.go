package wizard

import (
	"strconv"

	"github.com/voicedeck/voicedeck/internal/forms"
)

// NewIntegrationStep builds the final step: calendar and webhook settings.
func NewIntegrationStep(store *forms.Store) *FieldStep {
	form := store.Form()
	return NewFieldStep(store, []Field{
		NewToggleField(store, "calendarIntegration", "Google Calendar integration", form.CalendarIntegration),
		NewSelectField(store, "appointmentDuration", "Appointment duration",
			IntOptions(forms.AppointmentDurations), strconv.Itoa(form.AppointmentDuration)),
		NewSelectField(store, "bufferTime", "Buffer between appointments",
			IntOptions([]int{0, 5, 10, 15, 30, 60}), strconv.Itoa(form.BufferTime)),
		NewTextField(store, "webhookUrl", "Notification webhook URL", "https://example.com/hooks/voicedeck", form.WebhookURL),
	})
}
