package wizard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/voicedeck/voicedeck/internal/config"
	"github.com/voicedeck/voicedeck/internal/forms"
	"github.com/voicedeck/voicedeck/internal/intake"
	"github.com/voicedeck/voicedeck/internal/vapi"
)

type recordingSender struct {
	msgs []tea.Msg
}

func (r *recordingSender) Send(msg tea.Msg) { r.msgs = append(r.msgs, msg) }

func TestPrefillFormFromSummary(t *testing.T) {
	f := prefillForm(vapi.AssistantSummary{
		ID:          "asst-1",
		Name:        "Acme Receptionist",
		CompanyName: "Acme Corp",
		Personality: "friendly",
		Language:    "en",
		Industry:    "Technology",
	})

	if f.CompanyName != "Acme Corp" {
		t.Errorf("Expected company name seeded, got %q", f.CompanyName)
	}
	if f.AssistantName != "Acme Receptionist" {
		t.Errorf("Expected assistant name seeded, got %q", f.AssistantName)
	}
	if f.Personality != "friendly" {
		t.Errorf("Expected personality seeded, got %q", f.Personality)
	}
	if f.Industry != "Technology" {
		t.Errorf("Expected industry seeded, got %q", f.Industry)
	}
	// "en" resolves to the first en-* platform language.
	if f.Language != "en-US" {
		t.Errorf("Expected en-US language, got %q", f.Language)
	}
}

func TestPrefillFormSkipsUnknownCompany(t *testing.T) {
	f := prefillForm(vapi.AssistantSummary{
		Name:        "Mystery Bot",
		CompanyName: "Unknown Company",
	})

	if f.CompanyName != "" {
		t.Errorf("Expected placeholder company dropped, got %q", f.CompanyName)
	}
}

func TestPrefillFormKeepsDefaultsForMissingFields(t *testing.T) {
	f := prefillForm(vapi.AssistantSummary{Name: "Bot"})

	if f.ConfidentialityLevel != "medium" {
		t.Errorf("Expected default confidentiality, got %q", f.ConfidentialityLevel)
	}
	if f.AppointmentDuration != 30 {
		t.Errorf("Expected default duration, got %d", f.AppointmentDuration)
	}
}

// newSubmitModel wires just enough of the wizard to run its submission
// command outside a terminal.
func newSubmitModel(cfg *config.Config, form forms.FormState) *Model {
	m := &Model{
		ctx:     context.Background(),
		cfg:     cfg,
		store:   forms.NewStoreFrom(form),
		program: &recordingSender{},
	}
	m.files = intake.New(nil)
	return m
}

func TestSubmitPostsToConfiguredEndpoint(t *testing.T) {
	var payload map[string]any
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Parsing submission: %v", err)
			return
		}
		if err := json.Unmarshal([]byte(r.MultipartForm.Value["formData"][0]), &payload); err != nil {
			t.Errorf("Parsing formData: %v", err)
			return
		}
		w.Write([]byte(`{"assistantId":"a-1"}`))
	}))
	defer endpoint.Close()

	userHits := 0
	userEntered := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userHits++
	}))
	defer userEntered.Close()

	form := forms.NewFormState()
	form.WebhookURL = userEntered.URL
	m := newSubmitModel(&config.Config{WebhookURL: endpoint.URL}, form)

	msg := m.submit()()
	done, ok := msg.(SubmitDoneMsg)
	if !ok {
		t.Fatalf("Expected SubmitDoneMsg, got %T", msg)
	}
	if done.AssistantID != "a-1" {
		t.Errorf("Expected assistant id from the endpoint, got %q", done.AssistantID)
	}
	if userHits != 0 {
		t.Error("The user-entered webhook field must never receive the submission")
	}
	// The field rides along inside formData for the workflow to call back on.
	if payload["webhookUrl"] != userEntered.URL {
		t.Errorf("Expected webhookUrl payload field preserved, got %v", payload["webhookUrl"])
	}
}

func TestSubmitDefaultsWebhookFieldToEndpoint(t *testing.T) {
	var payload map[string]any
	endpoint := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Parsing submission: %v", err)
			return
		}
		if err := json.Unmarshal([]byte(r.MultipartForm.Value["formData"][0]), &payload); err != nil {
			t.Errorf("Parsing formData: %v", err)
		}
	}))
	defer endpoint.Close()

	m := newSubmitModel(&config.Config{WebhookURL: endpoint.URL}, forms.NewFormState())

	if _, ok := m.submit()().(SubmitDoneMsg); !ok {
		t.Fatal("Expected a successful submission")
	}
	if payload["webhookUrl"] != endpoint.URL {
		t.Errorf("Expected blank webhookUrl defaulted to the endpoint, got %v", payload["webhookUrl"])
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(0, 20)
	if !strings.Contains(bar, "  0%") {
		t.Errorf("Expected 0%% label, got %q", bar)
	}
	if strings.Contains(bar, "█") {
		t.Error("Expected no fill at 0%")
	}

	bar = renderProgressBar(100, 20)
	if !strings.Contains(bar, "100%") {
		t.Errorf("Expected 100%% label, got %q", bar)
	}
	if strings.Contains(bar, "░") {
		t.Error("Expected full bar at 100%")
	}
}
