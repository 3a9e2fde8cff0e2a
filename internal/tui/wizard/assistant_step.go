package wizard

import (
	"github.com/voicedeck/voicedeck/internal/forms"
)

// NewAssistantStep builds step 2: assistant persona and availability.
func NewAssistantStep(store *forms.Store) *FieldStep {
	form := store.Form()
	return NewFieldStep(store, []Field{
		NewTextField(store, "assistantName", "Assistant name *", "Acme Receptionist", form.AssistantName),
		NewSelectField(store, "personality", "Personality *", forms.PersonalityTypes, form.Personality),
		NewSelectField(store, "language", "Language *", forms.Languages, form.Language),
		NewTextField(store, "workingHours.start", "Working hours start (HH:MM) *", "09:00", form.WorkingHours.Start),
		NewTextField(store, "workingHours.end", "Working hours end (HH:MM) *", "17:00", form.WorkingHours.End),
		NewTextField(store, "workingHours.timezone", "Timezone *", "America/Chicago", form.WorkingHours.Timezone),
		NewMultiField(store, "workingDays", "Working days *", forms.WorkingDays, func() []string {
			return store.Form().WorkingDays
		}),
	})
}
