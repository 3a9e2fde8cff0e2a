// Package intake accepts knowledge-base files for the wizard, enforcing the
// platform's type and size constraints and tracking per-file status.
package intake

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxFileSize is the per-file upload limit (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// AllowedFileTypes are the accepted knowledge-base extensions.
var AllowedFileTypes = []string{".pdf", ".docx", ".txt"}

// Status is the upload lifecycle state of a file. Transitions are monotonic:
// pending -> uploading -> completed, or -> error.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// UploadedFile is one accepted knowledge-base file. Path is the opaque
// handle to the underlying content; bytes are only read at submission time.
type UploadedFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	Type         string    `json:"type"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"` // 0..100
	Path         string    `json:"-"`
	LastModified time.Time `json:"lastModified"`
	UploadedAt   time.Time `json:"uploadedAt,omitempty"`
}

// Validation is the outcome of validating a single candidate file.
type Validation struct {
	IsValid bool
	Errors  []string
}

// ValidateFile checks a candidate against the size limit and the allowed
// extension list. The extension check is case-insensitive.
func ValidateFile(name string, size int64) Validation {
	var errs []string

	if size > MaxFileSize {
		errs = append(errs, fmt.Sprintf("File size must be less than %dMB", MaxFileSize/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, t := range AllowedFileTypes {
		if ext == t {
			allowed = true
			break
		}
	}
	if !allowed {
		errs = append(errs, fmt.Sprintf("File type must be one of: %s", strings.Join(AllowedFileTypes, ", ")))
	}

	return Validation{IsValid: len(errs) == 0, Errors: errs}
}

// FileInfo describes a candidate file before validation.
type FileInfo struct {
	Name    string
	Size    int64
	Path    string
	ModTime time.Time
}

// AddResult reports which candidates were accepted and which failed
// validation, keyed by file name.
type AddResult struct {
	AddedFiles []UploadedFile
	Errors     map[string][]string
}

// Intake owns the wizard's file list. Every successful add or remove
// notifies the owning form through the onChange callback so the form's
// knowledge-file field stays authoritative.
type Intake struct {
	files        []UploadedFile
	pickerActive bool
	onChange     func([]UploadedFile)
}

// New creates an Intake. onChange may be nil.
func New(onChange func([]UploadedFile)) *Intake {
	return &Intake{onChange: onChange}
}

// Files returns a copy of the current file list.
func (in *Intake) Files() []UploadedFile {
	out := make([]UploadedFile, len(in.files))
	copy(out, in.files)
	return out
}

// AddFiles validates each candidate independently. Valid files are assigned
// an identifier and the given initial status (completed when the transfer is
// deferred to the submission pipeline, pending when a per-file upload will
// follow); invalid files are reported but not added.
func (in *Intake) AddFiles(candidates []FileInfo, status Status) AddResult {
	res := AddResult{Errors: map[string][]string{}}

	for _, c := range candidates {
		v := ValidateFile(c.Name, c.Size)
		if !v.IsValid {
			res.Errors[c.Name] = v.Errors
			continue
		}

		f := UploadedFile{
			ID:           uuid.NewString(),
			Name:         c.Name,
			Size:         c.Size,
			Type:         strings.ToLower(filepath.Ext(c.Name)),
			Status:       status,
			Path:         c.Path,
			LastModified: c.ModTime,
		}
		if f.LastModified.IsZero() {
			f.LastModified = time.Now()
		}
		if status == StatusCompleted {
			f.Progress = 100
			f.UploadedAt = time.Now()
		}
		res.AddedFiles = append(res.AddedFiles, f)
	}

	if len(res.AddedFiles) > 0 {
		in.files = append(in.files, res.AddedFiles...)
		in.notify()
	}

	return res
}

// AddPaths stats each path and adds the results. Stat failures are reported
// alongside validation failures.
func (in *Intake) AddPaths(paths []string, status Status) AddResult {
	var candidates []FileInfo
	statErrors := map[string][]string{}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			statErrors[filepath.Base(p)] = []string{fmt.Sprintf("Failed to read file: %v", err)}
			continue
		}
		candidates = append(candidates, FileInfo{Name: info.Name(), Size: info.Size(), Path: p, ModTime: info.ModTime()})
	}

	res := in.AddFiles(candidates, status)
	for name, errs := range statErrors {
		res.Errors[name] = errs
	}
	return res
}

// RemoveFile removes a file by identifier. No side effects beyond the list
// update and the form notification.
func (in *Intake) RemoveFile(id string) {
	for i, f := range in.files {
		if f.ID == id {
			in.files = append(in.files[:i], in.files[i+1:]...)
			in.notify()
			return
		}
	}
}

// ClearFiles removes all files.
func (in *Intake) ClearFiles() {
	in.files = nil
	in.notify()
}

// UpdateProgress sets a file's progress and derives its status: 0 is
// pending, 100 is completed, anything between is uploading.
func (in *Intake) UpdateProgress(id string, progress int) {
	for i := range in.files {
		if in.files[i].ID != id {
			continue
		}
		in.files[i].Progress = progress
		switch {
		case progress >= 100:
			in.files[i].Status = StatusCompleted
			in.files[i].UploadedAt = time.Now()
		case progress <= 0:
			in.files[i].Status = StatusPending
		default:
			in.files[i].Status = StatusUploading
		}
		in.notify()
		return
	}
}

// SetFileError marks a file as failed.
func (in *Intake) SetFileError(id string) {
	for i := range in.files {
		if in.files[i].ID == id {
			in.files[i].Status = StatusError
			in.notify()
			return
		}
	}
}

// SetPickerActive toggles the file-picker-open indicator. It plays the role
// the drag-over highlight plays in a pointer UI: on only while a pick is in
// progress over the drop target.
func (in *Intake) SetPickerActive(active bool) {
	in.pickerActive = active
}

// PickerActive reports whether the file picker overlay is open.
func (in *Intake) PickerActive() bool {
	return in.pickerActive
}

// Stats summarizes the file list.
type Stats struct {
	Total                int
	Completed            int
	Pending              int
	Uploading            int
	Errors               int
	TotalSize            int64
	CompletionPercentage int
}

// GetStats computes aggregate statistics over the current file list.
func (in *Intake) GetStats() Stats {
	var st Stats
	st.Total = len(in.files)
	for _, f := range in.files {
		st.TotalSize += f.Size
		switch f.Status {
		case StatusCompleted:
			st.Completed++
		case StatusPending:
			st.Pending++
		case StatusUploading:
			st.Uploading++
		case StatusError:
			st.Errors++
		}
	}
	if st.Total > 0 {
		st.CompletionPercentage = st.Completed * 100 / st.Total
	}
	return st
}

// FormatFileSize renders a byte count for display.
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	size := float64(bytes)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}

func (in *Intake) notify() {
	if in.onChange != nil {
		in.onChange(in.Files())
	}
}
