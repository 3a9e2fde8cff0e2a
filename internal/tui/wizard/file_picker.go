package wizard

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/voicedeck/voicedeck/internal/intake"
)

// fileItem is a file or directory row in the picker.
type fileItem struct {
	name  string
	path  string
	isDir bool
}

func (f *fileItem) render(width int) string {
	icon := "📄"
	if f.isDir {
		icon = "📁"
	}
	display := icon + " " + f.name
	if len(display) > width-2 && width > 5 {
		display = display[:width-5] + "..."
	}
	return display
}

// FilePicker browses the filesystem for knowledge documents. Only the
// accepted document extensions are listed; directories always show for
// navigation.
type FilePicker struct {
	currentPath string
	items       []*fileItem
	selectedIdx int
	width       int
	height      int
}

func NewFilePicker() *FilePicker {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	fp := &FilePicker{currentPath: cwd, width: 60, height: 12}
	fp.loadDirectory(cwd)
	return fp
}

func (f *FilePicker) SetSize(width, height int) {
	f.width = width
	f.height = height
}

func (f *FilePicker) loadDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	f.items = make([]*fileItem, 0)

	absPath, err := filepath.Abs(path)
	if err == nil && absPath != filepath.Dir(absPath) {
		f.items = append(f.items, &fileItem{name: "..", path: filepath.Dir(absPath), isDir: true})
	}

	var dirs []*fileItem
	var files []*fileItem
	for _, entry := range entries {
		fullPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, &fileItem{name: entry.Name(), path: fullPath, isDir: true})
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, allowed := range intake.AllowedFileTypes {
			if ext == allowed {
				files = append(files, &fileItem{name: entry.Name(), path: fullPath})
				break
			}
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].name) < strings.ToLower(dirs[j].name)
	})
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
	})

	f.items = append(f.items, dirs...)
	f.items = append(f.items, files...)
	f.currentPath = path
	f.selectedIdx = 0
	return nil
}

func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch keyMsg.String() {
	case "up", "k":
		if len(f.items) > 0 && f.selectedIdx > 0 {
			f.selectedIdx--
		}
	case "down", "j":
		if len(f.items) > 0 && f.selectedIdx < len(f.items)-1 {
			f.selectedIdx++
		}
	case "enter":
		if f.selectedIdx < 0 || f.selectedIdx >= len(f.items) {
			return nil
		}
		item := f.items[f.selectedIdx]
		if item.isDir {
			f.loadDirectory(item.path)
			return nil
		}
		return func() tea.Msg {
			return FileSelectedMsg{Path: item.path}
		}
	case "backspace":
		parent := filepath.Dir(f.currentPath)
		if parent != f.currentPath {
			f.loadDirectory(parent)
		}
	}
	return nil
}

func (f *FilePicker) View() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Foreground(colorSubtext0).Render(f.currentPath))
	b.WriteString("\n\n")

	hasFiles := false
	for _, item := range f.items {
		if item.name != ".." {
			hasFiles = true
			break
		}
	}

	emptyStyle := lipgloss.NewStyle().Foreground(colorSurface2).Italic(true)
	selectedStyle := lipgloss.NewStyle().
		Foreground(colorPrimary).
		Background(colorSurface0).
		Bold(true)

	switch {
	case len(f.items) == 0:
		b.WriteString(emptyStyle.Render("Directory is empty"))
		b.WriteString("\n")
	case !hasFiles:
		b.WriteString(emptyStyle.Render("No " + strings.Join(intake.AllowedFileTypes, "/") + " files in this directory"))
		b.WriteString("\n\n")
		if f.items[0].name == ".." {
			b.WriteString(selectedStyle.Render("▸ " + f.items[0].render(f.width)))
			b.WriteString("\n")
		}
	default:
		for i, item := range f.items {
			line := item.render(f.width)
			if i == f.selectedIdx {
				line = selectedStyle.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓/j/k", "navigate",
		"enter", "select",
		"backspace", "up",
		"esc", "close",
	))
	return b.String()
}
