package forms

// MaxDescriptionLength caps the business description field.
const MaxDescriptionLength = 500

// Industries available in the company details step.
var Industries = []string{
	"Technology",
	"Healthcare",
	"Finance",
	"Education",
	"Retail",
	"Real Estate",
	"Legal",
	"Consulting",
	"Manufacturing",
	"Hospitality",
	"Other",
}

// Option is a value/label pair for select fields.
type Option struct {
	Value string
	Label string
}

// PersonalityTypes the assistant can adopt.
var PersonalityTypes = []Option{
	{Value: "professional", Label: "Professional"},
	{Value: "friendly", Label: "Friendly"},
	{Value: "casual", Label: "Casual"},
	{Value: "formal", Label: "Formal"},
}

// Languages supported by the platform's transcriber.
var Languages = []Option{
	{Value: "en-US", Label: "English (US)"},
	{Value: "en-GB", Label: "English (UK)"},
	{Value: "es-ES", Label: "Spanish"},
	{Value: "fr-FR", Label: "French"},
	{Value: "de-DE", Label: "German"},
	{Value: "it-IT", Label: "Italian"},
}

// AppointmentDurations in minutes.
var AppointmentDurations = []int{15, 30, 45, 60}

// CompanySizes for the company details step.
var CompanySizes = []string{"1-10", "11-50", "51-200", "201-500", "500+"}

// CommonRestrictions are the preset restricted-topic checkboxes.
var CommonRestrictions = []string{
	"Pricing information",
	"Competitor information",
	"Internal processes",
	"Financial details",
	"Personal employee information",
	"Confidential client data",
}

// WorkingDays in week order.
var WorkingDays = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}
