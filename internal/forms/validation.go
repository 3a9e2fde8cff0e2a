package forms

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Result reports the outcome of a step validation. Errors maps field name to
// a human-readable message and fully replaces the previous map on each run.
type Result struct {
	IsValid bool
	Errors  map[string]string
}

var (
	emailRe      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe      = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
	phoneStripRe = regexp.MustCompile(`[\s\-()]`)
)

// ValidateEmail reports whether s looks like an email address.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// ValidatePhone reports whether s is a plausible phone number after
// stripping spaces, dashes and parentheses.
func ValidatePhone(s string) bool {
	return phoneRe.MatchString(phoneStripRe.ReplaceAllString(s, ""))
}

// ValidateURL reports whether s parses as an absolute URL.
func ValidateURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ValidateTimeRange reports whether start precedes end, both "HH:MM".
func ValidateTimeRange(start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	s, err := time.Parse("15:04", start)
	if err != nil {
		return false
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return false
	}
	return s.Before(e)
}

// ValidateCompanyDetails validates the company details step.
func ValidateCompanyDetails(f *FormState) Result {
	errs := map[string]string{}

	if strings.TrimSpace(f.CompanyName) == "" {
		errs["companyName"] = "Company name is required"
	}

	if strings.TrimSpace(f.PhoneNumber) == "" {
		errs["phoneNumber"] = "Phone number is required"
	} else if !ValidatePhone(f.PhoneNumber) {
		errs["phoneNumber"] = "Please enter a valid phone number (e.g., +1 555-123-4567)"
	}

	if f.ContactEmail != "" && !ValidateEmail(f.ContactEmail) {
		errs["contactEmail"] = "Please enter a valid email address"
	}

	if f.Industry == "" {
		errs["industry"] = "Industry selection is required"
	}

	if strings.TrimSpace(f.Description) == "" {
		errs["description"] = "Business description is required"
	} else if len(f.Description) > MaxDescriptionLength {
		errs["description"] = fmt.Sprintf("Description must be less than %d characters", MaxDescriptionLength)
	}

	if strings.TrimSpace(f.Services) == "" {
		errs["services"] = "Primary services/products are required"
	}

	if strings.TrimSpace(f.TargetAudience) == "" {
		errs["targetAudience"] = "Target audience is required"
	}

	if f.CompanySize == "" {
		errs["companySize"] = "Company size is required"
	}

	if strings.TrimSpace(f.Location) == "" {
		errs["location"] = "Location is required"
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateAssistantConfig validates the assistant configuration step.
func ValidateAssistantConfig(f *FormState) Result {
	errs := map[string]string{}

	if strings.TrimSpace(f.AssistantName) == "" {
		errs["assistantName"] = "Assistant name is required"
	}

	if f.Personality == "" {
		errs["personality"] = "Personality type is required"
	}

	if f.Language == "" {
		errs["language"] = "Language selection is required"
	}

	if f.WorkingHours.Start == "" {
		errs["workingHoursStart"] = "Start time is required"
	}

	if f.WorkingHours.End == "" {
		errs["workingHoursEnd"] = "End time is required"
	}

	if f.WorkingHours.Timezone == "" {
		errs["timezone"] = "Timezone is required"
	}

	if len(f.WorkingDays) == 0 {
		errs["workingDays"] = "At least one working day must be selected"
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateKnowledgeBase validates the knowledge base step.
func ValidateKnowledgeBase(f *FormState) Result {
	errs := map[string]string{}

	if len(f.KnowledgeFiles) == 0 {
		errs["knowledgeFiles"] = "At least one knowledge base file is required"
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateIntegrationSettings validates the integration settings step.
func ValidateIntegrationSettings(f *FormState) Result {
	errs := map[string]string{}

	if f.WebhookURL != "" && !ValidateURL(f.WebhookURL) {
		errs["webhookUrl"] = "Please enter a valid webhook URL"
	}

	if f.AppointmentDuration == 0 {
		errs["appointmentDuration"] = "Appointment duration is required"
	}

	if f.BufferTime < 0 || f.BufferTime > 60 {
		errs["bufferTime"] = "Buffer time must be between 0 and 60 minutes"
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// ValidateStep runs the validator for the given step index.
func ValidateStep(step int, f *FormState) Result {
	switch step {
	case StepCompanyDetails:
		return ValidateCompanyDetails(f)
	case StepAssistantConfig:
		return ValidateAssistantConfig(f)
	case StepKnowledgeBase:
		return ValidateKnowledgeBase(f)
	case StepIntegration:
		return ValidateIntegrationSettings(f)
	default:
		return Result{IsValid: true, Errors: map[string]string{}}
	}
}
