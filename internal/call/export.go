package call

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// ExportTranscript writes the timeline to a text file in dir and returns
// the path. The filename is derived from the assistant name, so
// "Acme Corp - Receptionist" exports as acme-corp-receptionist-transcript-*.
func ExportTranscript(messages []Message, assistantName, dir string) (string, error) {
	name := slug.Make(assistantName)
	if name == "" {
		name = "assistant"
	}
	filename := fmt.Sprintf("%s-transcript-%s.txt", name, time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, filename)

	var b strings.Builder
	fmt.Fprintf(&b, "Transcript with %s\nExported %s\n\n", assistantName, time.Now().Format(time.RFC1123))
	for _, m := range messages {
		if m.Partial {
			continue
		}
		tag := strings.ToUpper(m.Role)
		if m.Source == SourceVoice {
			tag += " (voice)"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", m.At.Format("15:04:05"), tag, m.Text)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing transcript: %w", err)
	}
	return path, nil
}
