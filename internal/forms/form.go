// Package forms holds the wizard's form state, navigation and per-step
// validation for configuring a voice assistant.
package forms

import "github.com/voicedeck/voicedeck/internal/intake"

// Wizard steps, in order. Steps are never skipped and completion means the
// last step validates.
const (
	StepCompanyDetails = iota
	StepAssistantConfig
	StepKnowledgeBase
	StepIntegration

	StepCount = 4
)

// stepTitles maps step index to display title.
var stepTitles = [StepCount]string{
	"Company Details",
	"Assistant Configuration",
	"Knowledge Base & Restrictions",
	"Integration Settings",
}

// WorkingHours is the assistant's availability window.
type WorkingHours struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Timezone string `json:"timezone"`
}

// FormState carries every wizard field. Field identity is stable for the
// wizard's lifetime; fields are only ever reset, never removed.
type FormState struct {
	// Company details
	CompanyName      string `json:"companyName"`
	CompanyWebsite   string `json:"companyWebsite"`
	PhoneNumber      string `json:"phoneNumber"`
	ContactEmail     string `json:"contactEmail"`
	Industry         string `json:"industry"`
	Description      string `json:"description"`
	Services         string `json:"services"`
	TargetAudience   string `json:"targetAudience"`
	CompanySize      string `json:"companySize"`
	Location         string `json:"location"`
	BusinessHours    string `json:"businessHours"`
	BusinessTimezone string `json:"businessTimezone"`

	// Company policies
	RefundPolicy      string `json:"refundPolicy"`
	ServiceGuarantees string `json:"serviceGuarantees"`
	CompanyPolicies   string `json:"companyPolicies"`

	// Social media links
	FacebookURL      string `json:"facebookUrl"`
	LinkedinURL      string `json:"linkedinUrl"`
	TwitterURL       string `json:"twitterUrl"`
	InstagramURL     string `json:"instagramUrl"`
	OtherSocialMedia string `json:"otherSocialMedia"`

	AdditionalInfo string `json:"additionalInfo"`

	// Assistant configuration
	AssistantName string       `json:"assistantName"`
	Personality   string       `json:"personality"`
	Language      string       `json:"language"`
	WorkingHours  WorkingHours `json:"workingHours"`
	WorkingDays   []string     `json:"workingDays"`
	BreakTimes    []string     `json:"breakTimes"`
	Holidays      []string     `json:"holidays"`

	// Knowledge base & FAQs
	KnowledgeFiles    []intake.UploadedFile `json:"-"`
	FrequentQuestions string                `json:"frequentQuestions"`

	// Restricted topics
	CommonRestrictions   []string `json:"commonRestrictions"`
	CustomRestrictions   string   `json:"customRestrictions"`
	ConfidentialityLevel string   `json:"confidentialityLevel"`

	// Integration settings
	WebhookURL          string `json:"webhookUrl"`
	AppointmentDuration int    `json:"appointmentDuration"`
	BufferTime          int    `json:"bufferTime"`
	CalendarIntegration bool   `json:"calendarIntegration"`
}

// NewFormState returns a FormState with documented defaults: empty strings
// and arrays, medium confidentiality, 30 minute appointments, 15 minute
// buffer, calendar integration on.
func NewFormState() FormState {
	return FormState{
		WorkingDays:          []string{},
		BreakTimes:           []string{},
		Holidays:             []string{},
		KnowledgeFiles:       []intake.UploadedFile{},
		CommonRestrictions:   []string{},
		ConfidentialityLevel: "medium",
		AppointmentDuration:  30,
		BufferTime:           15,
		CalendarIntegration:  true,
	}
}

// StepTitle returns the display title for a step, or "" if out of range.
func StepTitle(step int) string {
	if step < 0 || step >= StepCount {
		return ""
	}
	return stepTitles[step]
}
