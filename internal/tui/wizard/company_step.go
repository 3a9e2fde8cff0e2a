package wizard

import (
	"github.com/voicedeck/voicedeck/internal/forms"
)

// NewCompanyStep builds step 1: company identity and contact details.
func NewCompanyStep(store *forms.Store) *FieldStep {
	form := store.Form()
	return NewFieldStep(store, []Field{
		NewTextField(store, "companyName", "Company name *", "Acme Corp", form.CompanyName),
		NewSelectField(store, "industry", "Industry *", StringOptions(forms.Industries), form.Industry),
		NewTextAreaField(store, "description", "What does your company do? *", "We make...", form.Description, 500),
		NewTextField(store, "contactEmail", "Contact email", "you@company.com", form.ContactEmail),
		NewTextField(store, "phoneNumber", "Phone number *", "+1 555 123 4567", form.PhoneNumber),
		NewTextField(store, "companyWebsite", "Website", "https://company.com", form.CompanyWebsite),
		NewTextField(store, "services", "Primary services or products *", "Sales, support, scheduling", form.Services),
		NewTextField(store, "targetAudience", "Target audience *", "Small business owners", form.TargetAudience),
		NewSelectField(store, "companySize", "Company size *", StringOptions(forms.CompanySizes), form.CompanySize),
		NewTextField(store, "location", "Location *", "Austin, TX", form.Location),
	})
}
