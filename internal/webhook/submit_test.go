package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicedeck/voicedeck/internal/forms"
	"github.com/voicedeck/voicedeck/internal/intake"
)

func writeTestFile(t *testing.T, name, content string) intake.UploadedFile {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	return intake.UploadedFile{
		ID:           name,
		Name:         name,
		Size:         int64(len(content)),
		Type:         filepath.Ext(name),
		Status:       intake.StatusCompleted,
		Path:         path,
		LastModified: info.ModTime(),
	}
}

func TestSubmit(t *testing.T) {
	files := []intake.UploadedFile{
		writeTestFile(t, "handbook.pdf", "pdf bytes"),
		writeTestFile(t, "faq.txt", "plain text"),
	}

	var received *http.Request
	var parsed map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r
		require.NoError(t, r.ParseMultipartForm(32<<20))
		parsed = r.MultipartForm.Value
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"created","assistantId":"a-9"}`))
	}))
	defer srv.Close()

	form := forms.NewFormState()
	form.CompanyName = "Acme Corp"
	form.ContactEmail = "ops@acme.test"

	var updates []Progress
	result, err := Submit(context.Background(), srv.URL, form, files, func(p Progress) {
		updates = append(updates, p)
	})
	require.NoError(t, err)
	require.NotNil(t, received)

	assert.True(t, strings.HasPrefix(received.Header.Get("Content-Type"), "multipart/form-data"))

	// One formData field plus exactly one metadata/content/base64 triple per file.
	assert.Equal(t, []string{"2"}, parsed["fileCount"])
	for i, f := range files {
		var meta map[string]any
		require.NoError(t, json.Unmarshal([]byte(parsed[fmt.Sprintf("fileMetadata_%d", i)][0]), &meta))
		assert.Equal(t, f.Name, meta["originalName"])
		assert.Equal(t, float64(f.LastModified.UnixMilli()), meta["lastModified"])
		assert.Greater(t, meta["lastModified"], float64(0), "lastModified must be the file's mtime")

		content := parsed[fmt.Sprintf("fileContent_%d", i)][0]
		assert.True(t, strings.HasPrefix(content, "data:"), "content should be a data URL")
		assert.Contains(t, content, ";base64,")
		assert.NotEmpty(t, parsed[fmt.Sprintf("fileBase64_%d", i)][0])
		assert.Empty(t, parsed[fmt.Sprintf("fileError_%d", i)])
	}
	assert.True(t, strings.HasPrefix(parsed["fileContent_0"][0], "data:application/pdf;base64,"))
	assert.True(t, strings.HasPrefix(parsed["fileContent_1"][0], "data:text/plain;base64,"))

	var snapshot map[string]any
	require.NoError(t, json.Unmarshal([]byte(parsed["formData"][0]), &snapshot))
	assert.Equal(t, "Acme Corp", snapshot["companyName"])
	assert.Equal(t, float64(2), snapshot["totalFiles"])
	assert.NotEmpty(t, snapshot["submittedAt"])
	assert.NotContains(t, parsed["formData"][0], ";base64,", "binaries must not leak into formData")

	assert.Equal(t, "created", result.Response["status"])

	require.NotEmpty(t, updates)
	last := updates[len(updates)-1]
	assert.Equal(t, StageComplete, last.Stage)
	assert.Equal(t, 100, last.Percent)

	sawUploading := false
	for _, u := range updates {
		if u.Stage == StageProcessing {
			assert.LessOrEqual(t, u.Percent, 50)
		}
		if u.Stage == StageUploading {
			sawUploading = true
			assert.Equal(t, 75, u.Percent)
		}
	}
	assert.True(t, sawUploading)
}

func TestSubmitUnreadableFile(t *testing.T) {
	files := []intake.UploadedFile{
		{ID: "gone", Name: "gone.pdf", Size: 10, Type: ".pdf", Path: filepath.Join(t.TempDir(), "missing.pdf")},
	}

	var parsed map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		parsed = r.MultipartForm.Value
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := Submit(context.Background(), srv.URL, forms.NewFormState(), files, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, parsed["fileError_0"])
	assert.Empty(t, parsed["fileContent_0"])
	assert.Empty(t, parsed["fileBase64_0"])
}

func TestSubmitServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := Submit(context.Background(), srv.URL, forms.NewFormState(), nil, nil)
	require.Error(t, err)
	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindServer, subErr.Kind)
	assert.Equal(t, http.StatusBadGateway, subErr.StatusCode)
}

func TestSubmitNetworkError(t *testing.T) {
	_, err := Submit(context.Background(), "http://127.0.0.1:1", forms.NewFormState(), nil, nil)
	require.Error(t, err)
	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindNetwork, subErr.Kind)
}
