package webhook

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/voicedeck/voicedeck/internal/forms"
	"github.com/voicedeck/voicedeck/internal/intake"
	"github.com/voicedeck/voicedeck/internal/logger"
)

const submitTimeout = 30 * time.Second

// Stage names a phase of the submission pipeline.
type Stage string

const (
	StageProcessing Stage = "processing"
	StageUploading  Stage = "uploading"
	StageComplete   Stage = "complete"
	StageError      Stage = "error"
)

// Progress is one pipeline status update. Percent runs 0-50 while files are
// encoded, 75 once the request is in flight, 100 on success.
type Progress struct {
	Stage   Stage
	Percent int
	Detail  string
}

// Result is the provisioning endpoint's reply.
type Result struct {
	StatusCode int
	Body       []byte
	Response   map[string]any
}

// Kind classifies a submission failure.
type Kind string

const (
	KindServer  Kind = "server"
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
)

// Error is a classified submission failure with a user-facing message.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// encodedFile is one knowledge document prepared for the wire.
type encodedFile struct {
	meta    intake.UploadedFile
	dataURL string
	base64  string
	readErr string
}

// Submit sends the completed configuration and its knowledge documents to
// the provisioning endpoint as one multipart request. Files are base64
// encoded sequentially; a file that cannot be read is reported in its error
// field rather than failing the whole submission. onProgress may be nil.
func Submit(ctx context.Context, url string, form forms.FormState, files []intake.UploadedFile, onProgress func(Progress)) (*Result, error) {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	encoded := encodeFiles(files, report)

	body, contentType, err := buildRequest(form, encoded)
	if err != nil {
		return nil, err
	}

	report(Progress{Stage: StageUploading, Percent: 75, Detail: "Uploading configuration"})

	ctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("building submission: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			report(Progress{Stage: StageError, Detail: "timeout"})
			return nil, &Error{Kind: KindTimeout, Message: "Request timeout. The server took too long to respond, please try again."}
		}
		logger.Warn("webhook: network error: %v", err)
		report(Progress{Stage: StageError, Detail: "network"})
		return nil, &Error{Kind: KindNetwork, Message: "Network error. Please check your connection and try again."}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("webhook: submission failed with %d: %s", resp.StatusCode, raw)
		report(Progress{Stage: StageError, Detail: fmt.Sprintf("status %d", resp.StatusCode)})
		return nil, &Error{
			Kind:       KindServer,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Submission failed with status %d. Please try again.", resp.StatusCode),
		}
	}

	result := &Result{StatusCode: resp.StatusCode, Body: raw}
	var parsed map[string]any
	if json.Unmarshal(raw, &parsed) == nil {
		result.Response = parsed
	}

	logger.Info("webhook: submission accepted with status %d", resp.StatusCode)
	report(Progress{Stage: StageComplete, Percent: 100, Detail: "Submission complete"})
	return result, nil
}

// encodeFiles reads and base64 encodes each document in order, reporting
// progress across the 0-50 range.
func encodeFiles(files []intake.UploadedFile, report func(Progress)) []encodedFile {
	encoded := make([]encodedFile, 0, len(files))
	for i, f := range files {
		ef := encodedFile{meta: f}
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			logger.Warn("webhook: reading %s: %v", f.Name, err)
			ef.readErr = fmt.Sprintf("could not read file: %v", err)
		} else {
			ef.base64 = base64.StdEncoding.EncodeToString(raw)
			ef.dataURL = fmt.Sprintf("data:%s;base64,%s", mimeTypeFor(f.Name), ef.base64)
		}
		encoded = append(encoded, ef)
		report(Progress{
			Stage:   StageProcessing,
			Percent: (i + 1) * 50 / len(files),
			Detail:  fmt.Sprintf("Processing %s", f.Name),
		})
	}
	return encoded
}

// buildRequest assembles the multipart form: one formData JSON field with
// the business configuration, a fileCount field, then per-file metadata,
// data-URL content, raw base64, and read-error fields.
func buildRequest(form forms.FormState, encoded []encodedFile) (*bytes.Buffer, string, error) {
	snapshot, err := formSnapshot(form, encoded)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("formData", string(snapshot)); err != nil {
		return nil, "", fmt.Errorf("writing form data: %w", err)
	}
	if err := w.WriteField("fileCount", fmt.Sprintf("%d", len(encoded))); err != nil {
		return nil, "", fmt.Errorf("writing file count: %w", err)
	}

	for i, ef := range encoded {
		meta, err := json.Marshal(map[string]any{
			"originalName": ef.meta.Name,
			"size":         ef.meta.Size,
			"type":         ef.meta.Type,
			"lastModified": ef.meta.LastModified.UnixMilli(),
		})
		if err != nil {
			return nil, "", fmt.Errorf("encoding file metadata: %w", err)
		}
		if err := w.WriteField(fmt.Sprintf("fileMetadata_%d", i), string(meta)); err != nil {
			return nil, "", fmt.Errorf("writing file metadata: %w", err)
		}
		if ef.readErr != "" {
			if err := w.WriteField(fmt.Sprintf("fileError_%d", i), ef.readErr); err != nil {
				return nil, "", fmt.Errorf("writing file error: %w", err)
			}
			continue
		}
		if err := w.WriteField(fmt.Sprintf("fileContent_%d", i), ef.dataURL); err != nil {
			return nil, "", fmt.Errorf("writing file content: %w", err)
		}
		if err := w.WriteField(fmt.Sprintf("fileBase64_%d", i), ef.base64); err != nil {
			return nil, "", fmt.Errorf("writing file base64: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// formSnapshot serializes the business configuration plus submission
// bookkeeping. File binaries never appear here, only counts and sizes.
func formSnapshot(form forms.FormState, encoded []encodedFile) ([]byte, error) {
	raw, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("encoding form state: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("reshaping form state: %w", err)
	}

	var totalSize int64
	for _, ef := range encoded {
		totalSize += ef.meta.Size
	}
	fields["submittedAt"] = time.Now().UTC().Format(time.RFC3339)
	fields["totalFiles"] = len(encoded)
	fields["totalFileSize"] = totalSize

	return json.Marshal(fields)
}

func mimeTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}
