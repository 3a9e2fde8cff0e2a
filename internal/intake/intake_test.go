package intake

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFile(t *testing.T) {
	t.Run("rejects exe regardless of size", func(t *testing.T) {
		v := ValidateFile("setup.exe", 10)
		assert.False(t, v.IsValid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], ".pdf, .docx, .txt")
	})

	t.Run("rejects oversized pdf", func(t *testing.T) {
		v := ValidateFile("manual.pdf", 11*1024*1024)
		assert.False(t, v.IsValid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], "10MB")
	})

	t.Run("accepts pdf at the limit", func(t *testing.T) {
		v := ValidateFile("manual.pdf", MaxFileSize)
		assert.True(t, v.IsValid)
	})

	t.Run("extension check is case-insensitive", func(t *testing.T) {
		v := ValidateFile("NOTES.TXT", 100)
		assert.True(t, v.IsValid)
	})

	t.Run("oversized exe reports both errors", func(t *testing.T) {
		v := ValidateFile("setup.exe", 11*1024*1024)
		assert.False(t, v.IsValid)
		assert.Len(t, v.Errors, 2)
	})
}

func TestAddFiles(t *testing.T) {
	in := New(nil)

	res := in.AddFiles([]FileInfo{
		{Name: "faq.txt", Size: 100},
		{Name: "virus.exe", Size: 100},
		{Name: "handbook.docx", Size: 2048},
	}, StatusCompleted)

	assert.Len(t, res.AddedFiles, 2)
	assert.Contains(t, res.Errors, "virus.exe")
	assert.Len(t, in.Files(), 2)

	for _, f := range res.AddedFiles {
		assert.NotEmpty(t, f.ID)
		assert.Equal(t, StatusCompleted, f.Status)
		assert.Equal(t, 100, f.Progress)
	}
}

func TestAddFilesPendingStatus(t *testing.T) {
	in := New(nil)

	res := in.AddFiles([]FileInfo{{Name: "faq.txt", Size: 100}}, StatusPending)

	require.Len(t, res.AddedFiles, 1)
	assert.Equal(t, StatusPending, res.AddedFiles[0].Status)
	assert.Equal(t, 0, res.AddedFiles[0].Progress)
}

func TestRemoveFile(t *testing.T) {
	in := New(nil)
	res := in.AddFiles([]FileInfo{
		{Name: "a.txt", Size: 1},
		{Name: "b.txt", Size: 2},
	}, StatusCompleted)
	require.Len(t, res.AddedFiles, 2)

	in.RemoveFile(res.AddedFiles[0].ID)

	files := in.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "b.txt", files[0].Name)

	// Removing an unknown id is a no-op.
	in.RemoveFile("nope")
	assert.Len(t, in.Files(), 1)
}

func TestOnChangeNotification(t *testing.T) {
	var calls int
	var last []UploadedFile
	in := New(func(files []UploadedFile) {
		calls++
		last = files
	})

	res := in.AddFiles([]FileInfo{{Name: "a.txt", Size: 1}}, StatusCompleted)
	require.Len(t, res.AddedFiles, 1)
	assert.Equal(t, 1, calls)
	assert.Len(t, last, 1)

	in.RemoveFile(res.AddedFiles[0].ID)
	assert.Equal(t, 2, calls)
	assert.Empty(t, last)

	// Rejected adds must not notify.
	in.AddFiles([]FileInfo{{Name: "bad.exe", Size: 1}}, StatusCompleted)
	assert.Equal(t, 2, calls)
}

func TestAddPaths(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("hello"), 0644))

	in := New(nil)
	res := in.AddPaths([]string{good, filepath.Join(dir, "missing.txt")}, StatusCompleted)

	require.Len(t, res.AddedFiles, 1)
	assert.Equal(t, "notes.txt", res.AddedFiles[0].Name)
	assert.Equal(t, int64(5), res.AddedFiles[0].Size)
	assert.Equal(t, good, res.AddedFiles[0].Path)
	assert.Contains(t, res.Errors, "missing.txt")

	info, err := os.Stat(good)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), res.AddedFiles[0].LastModified, "lastModified tracks the file's mtime")
}

func TestUpdateProgress(t *testing.T) {
	in := New(nil)
	res := in.AddFiles([]FileInfo{{Name: "a.txt", Size: 1}}, StatusPending)
	id := res.AddedFiles[0].ID

	in.UpdateProgress(id, 50)
	assert.Equal(t, StatusUploading, in.Files()[0].Status)

	in.UpdateProgress(id, 100)
	assert.Equal(t, StatusCompleted, in.Files()[0].Status)

	in.SetFileError(id)
	assert.Equal(t, StatusError, in.Files()[0].Status)
}

func TestGetStats(t *testing.T) {
	in := New(nil)
	in.AddFiles([]FileInfo{
		{Name: "a.txt", Size: 100},
		{Name: "b.pdf", Size: 200},
	}, StatusCompleted)
	in.AddFiles([]FileInfo{{Name: "c.docx", Size: 50}}, StatusPending)

	st := in.GetStats()
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 2, st.Completed)
	assert.Equal(t, 1, st.Pending)
	assert.Equal(t, int64(350), st.TotalSize)
	assert.Equal(t, 66, st.CompletionPercentage)
}

func TestPickerActive(t *testing.T) {
	in := New(nil)
	assert.False(t, in.PickerActive())
	in.SetPickerActive(true)
	assert.True(t, in.PickerActive())
	in.SetPickerActive(false)
	assert.False(t, in.PickerActive())
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512.00 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.00 KB", FormatFileSize(1024))
	assert.Equal(t, "1.50 MB", FormatFileSize(3*1024*1024/2))
}
