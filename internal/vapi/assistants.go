package vapi

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Matches "calling from Acme Corp." style introductions in a greeting.
	companyFromGreetingRe = regexp.MustCompile(`(?i)(?:from|at|representing|with)\s+([A-Z][a-zA-Z\s&.,-]+?)(?:\.|!|\?|,|$)`)
	// Matches "Acme Corp Assistant" style assistant names.
	companyFromNameRe = regexp.MustCompile(`(?i)^([A-Z][a-zA-Z\s&.,-]+?)\s+(?:Assistant|AI|Bot|Support)$`)
)

// Summarize derives the dashboard display model from a raw assistant record.
// publicKeySet feeds the call-readiness check: voice calls need a public key
// on top of the assistant's own configuration.
func Summarize(a Assistant, publicKeySet bool) AssistantSummary {
	s := AssistantSummary{
		ID:           a.ID,
		Name:         a.Name,
		CompanyName:  extractCompanyName(a),
		Personality:  inferPersonality(a),
		Language:     inferLanguage(a),
		Industry:     inferIndustry(a),
		Status:       "active",
		FirstMessage: a.FirstMessage,
		CreatedAt:    formatDate(a),
		CallReady:    checkCallReady(a, publicKeySet),
	}
	if s.Name == "" {
		s.Name = "Unnamed Assistant"
	}
	if a.Voice != nil {
		s.Voice = *a.Voice
	}
	if a.Model != nil {
		s.Model = *a.Model
	}
	if !a.UpdatedAt.IsZero() {
		s.UpdatedAt = a.UpdatedAt.Format("Jan 2, 2006")
	}
	return s
}

// SummarizeAll maps a full listing, preserving order.
func SummarizeAll(assistants []Assistant, publicKeySet bool) []AssistantSummary {
	summaries := make([]AssistantSummary, len(assistants))
	for i, a := range assistants {
		summaries[i] = Summarize(a, publicKeySet)
	}
	return summaries
}

// extractCompanyName tries progressively weaker sources: explicit metadata,
// a "Company - Role" name, a "Support for Company" name, the greeting's
// introduction phrase, then a "Company Assistant" name pattern.
func extractCompanyName(a Assistant) string {
	if name := strings.TrimSpace(a.Metadata["companyName"]); name != "" {
		return name
	}
	if before, _, found := strings.Cut(a.Name, " - "); found {
		if trimmed := strings.TrimSpace(before); trimmed != "" {
			return trimmed
		}
	}
	if _, after, found := strings.Cut(a.Name, " for "); found {
		if trimmed := strings.TrimSpace(after); trimmed != "" {
			return trimmed
		}
	}
	if m := companyFromGreetingRe.FindStringSubmatch(a.FirstMessage); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			return trimmed
		}
	}
	if m := companyFromNameRe.FindStringSubmatch(a.Name); m != nil {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			return trimmed
		}
	}
	return "Unknown Company"
}

func inferPersonality(a Assistant) string {
	if p := strings.TrimSpace(a.Metadata["personality"]); p != "" {
		return p
	}
	name := strings.ToLower(a.Name)
	for _, p := range []string{"professional", "friendly", "casual", "formal"} {
		if strings.Contains(name, p) {
			return p
		}
	}
	return "professional"
}

func inferLanguage(a Assistant) string {
	if a.Transcriber != nil && a.Transcriber.Language != "" {
		return a.Transcriber.Language
	}
	if a.Voice != nil && a.Voice.Voice != "" {
		return a.Voice.Voice
	}
	return "en"
}

func inferIndustry(a Assistant) string {
	if industry := strings.TrimSpace(a.Metadata["industry"]); industry != "" {
		return industry
	}
	for _, entry := range a.KnowledgeBase {
		if strings.Contains(strings.ToLower(entry.Name), "industry") {
			if trimmed := strings.TrimSpace(entry.Content); trimmed != "" {
				return trimmed
			}
		}
	}
	return "General"
}

func formatDate(a Assistant) string {
	if a.CreatedAt.IsZero() {
		return "Unknown"
	}
	return a.CreatedAt.Format("Jan 2, 2006")
}

func checkCallReady(a Assistant, publicKeySet bool) CallReadiness {
	var issues []string
	if a.Voice == nil || a.Voice.Provider == "" || a.Voice.VoiceID == "" {
		issues = append(issues, "voice is not fully configured")
	}
	if a.Model == nil || a.Model.Provider == "" || a.Model.Model == "" {
		issues = append(issues, "language model is not fully configured")
	}
	if !publicKeySet {
		issues = append(issues, "public key is missing")
	}
	return CallReadiness{Ready: len(issues) == 0, Issues: issues}
}

// DescribeVoice renders a short voice label for list rows.
func DescribeVoice(v Voice) string {
	if v.Provider == "" {
		return "no voice"
	}
	if v.VoiceID == "" {
		return v.Provider
	}
	return fmt.Sprintf("%s/%s", v.Provider, v.VoiceID)
}
