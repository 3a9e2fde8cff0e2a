package forms

import (
	"strconv"
	"strings"

	"github.com/voicedeck/voicedeck/internal/intake"
	"github.com/voicedeck/voicedeck/internal/logger"
)

// Store owns the wizard's form state: field values, the current step index
// and the per-field error map. All mutation happens through its methods; the
// TUI event loop is the only caller, so no locking is needed.
type Store struct {
	form        FormState
	errors      map[string]string
	currentStep int
}

// NewStore creates a store with default field values at step 0.
func NewStore() *Store {
	return &Store{
		form:   NewFormState(),
		errors: map[string]string{},
	}
}

// NewStoreFrom creates a store seeded with an existing form, used when
// reconfiguring an assistant.
func NewStoreFrom(form FormState) *Store {
	return &Store{
		form:   form,
		errors: map[string]string{},
	}
}

// Form returns a snapshot of the current form state.
func (s *Store) Form() FormState {
	return s.form
}

// Errors returns the current field error map. Callers must not mutate it.
func (s *Store) Errors() map[string]string {
	return s.errors
}

// Error returns the error message for a field, or "".
func (s *Store) Error(field string) string {
	return s.errors[field]
}

// CurrentStep returns the current step index (0..3).
func (s *Store) CurrentStep() int {
	return s.currentStep
}

// UpdateField sets a field by its JSON name and clears that field's error
// entry. One level of dot nesting is supported for the workingHours group
// ("workingHours.start"); sibling keys are preserved because the group is a
// typed struct, not a string-keyed map.
func (s *Store) UpdateField(field string, value any) {
	if parent, child, ok := strings.Cut(field, "."); ok {
		if parent == "workingHours" {
			s.updateWorkingHours(child, asString(value))
		} else {
			logger.Warn("UpdateField: unknown field group %q", parent)
			return
		}
	} else if !s.setField(field, value) {
		logger.Warn("UpdateField: unknown field %q", field)
		return
	}

	delete(s.errors, errorKeyFor(field))
}

// errorKeyFor maps a dotted field name to the key validation reports it
// under. Flat fields validate under their own name.
func errorKeyFor(field string) string {
	switch field {
	case "workingHours.start":
		return "workingHoursStart"
	case "workingHours.end":
		return "workingHoursEnd"
	case "workingHours.timezone":
		return "timezone"
	}
	return field
}

func (s *Store) updateWorkingHours(child, value string) {
	switch child {
	case "start":
		s.form.WorkingHours.Start = value
	case "end":
		s.form.WorkingHours.End = value
	case "timezone":
		s.form.WorkingHours.Timezone = value
	}
}

// setField assigns a top-level field, reporting whether the name was known.
func (s *Store) setField(field string, value any) bool {
	switch field {
	case "companyName":
		s.form.CompanyName = asString(value)
	case "companyWebsite":
		s.form.CompanyWebsite = asString(value)
	case "phoneNumber":
		s.form.PhoneNumber = asString(value)
	case "contactEmail":
		s.form.ContactEmail = asString(value)
	case "industry":
		s.form.Industry = asString(value)
	case "description":
		s.form.Description = asString(value)
	case "services":
		s.form.Services = asString(value)
	case "targetAudience":
		s.form.TargetAudience = asString(value)
	case "companySize":
		s.form.CompanySize = asString(value)
	case "location":
		s.form.Location = asString(value)
	case "businessHours":
		s.form.BusinessHours = asString(value)
	case "businessTimezone":
		s.form.BusinessTimezone = asString(value)
	case "refundPolicy":
		s.form.RefundPolicy = asString(value)
	case "serviceGuarantees":
		s.form.ServiceGuarantees = asString(value)
	case "companyPolicies":
		s.form.CompanyPolicies = asString(value)
	case "facebookUrl":
		s.form.FacebookURL = asString(value)
	case "linkedinUrl":
		s.form.LinkedinURL = asString(value)
	case "twitterUrl":
		s.form.TwitterURL = asString(value)
	case "instagramUrl":
		s.form.InstagramURL = asString(value)
	case "otherSocialMedia":
		s.form.OtherSocialMedia = asString(value)
	case "additionalInfo":
		s.form.AdditionalInfo = asString(value)
	case "assistantName":
		s.form.AssistantName = asString(value)
	case "personality":
		s.form.Personality = asString(value)
	case "language":
		s.form.Language = asString(value)
	case "frequentQuestions":
		s.form.FrequentQuestions = asString(value)
	case "customRestrictions":
		s.form.CustomRestrictions = asString(value)
	case "confidentialityLevel":
		s.form.ConfidentialityLevel = asString(value)
	case "webhookUrl":
		s.form.WebhookURL = asString(value)
	case "appointmentDuration":
		s.form.AppointmentDuration = asInt(value)
	case "bufferTime":
		s.form.BufferTime = asInt(value)
	case "calendarIntegration":
		s.form.CalendarIntegration = asBool(value)
	default:
		return false
	}
	return true
}

// ToggleInArray adds item to the named array field if absent, removes it if
// present. Used for the working-day and restricted-topic checkbox groups.
func (s *Store) ToggleInArray(field, item string) {
	switch field {
	case "workingDays":
		s.form.WorkingDays = toggle(s.form.WorkingDays, item)
	case "commonRestrictions":
		s.form.CommonRestrictions = toggle(s.form.CommonRestrictions, item)
	case "breakTimes":
		s.form.BreakTimes = toggle(s.form.BreakTimes, item)
	case "holidays":
		s.form.Holidays = toggle(s.form.Holidays, item)
	default:
		logger.Warn("ToggleInArray: unknown field %q", field)
	}
}

func toggle(arr []string, item string) []string {
	for i, v := range arr {
		if v == item {
			return append(arr[:i:i], arr[i+1:]...)
		}
	}
	return append(arr, item)
}

// SetKnowledgeFiles replaces the knowledge file list. The file intake calls
// this after every add/remove so FormState stays authoritative.
func (s *Store) SetKnowledgeFiles(files []intake.UploadedFile) {
	s.form.KnowledgeFiles = files
	delete(s.errors, "knowledgeFiles")
}

// ValidateCurrentStep validates the current step, replacing the error map
// wholesale, and reports validity.
func (s *Store) ValidateCurrentStep() bool {
	res := ValidateStep(s.currentStep, &s.form)
	s.errors = res.Errors
	return res.IsValid
}

// NextStep validates the current step. On success it advances and clears
// errors; on failure it populates the error map and stays put.
func (s *Store) NextStep() bool {
	if !s.ValidateCurrentStep() {
		return false
	}
	if s.currentStep < StepCount-1 {
		s.currentStep++
	}
	s.errors = map[string]string{}
	return true
}

// PrevStep moves back one step, floored at 0, and always clears errors.
func (s *Store) PrevStep() {
	if s.currentStep > 0 {
		s.currentStep--
	}
	s.errors = map[string]string{}
}

// GoToStep jumps to a step without validation and clears errors.
func (s *Store) GoToStep(step int) {
	if step < 0 || step >= StepCount {
		return
	}
	s.currentStep = step
	s.errors = map[string]string{}
}

// ResetForm restores all fields to their defaults and returns to step 0.
func (s *Store) ResetForm() {
	s.form = NewFormState()
	s.errors = map[string]string{}
	s.currentStep = 0
}

// CompletionPercentage reports wizard progress as a whole percentage.
func (s *Store) CompletionPercentage() int {
	return s.currentStep * 100 / StepCount
}

// IsComplete reports whether the wizard is on the final step and that step
// validates.
func (s *Store) IsComplete() bool {
	return s.currentStep >= StepCount-1 && s.ValidateCurrentStep()
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}
