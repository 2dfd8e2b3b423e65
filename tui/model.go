// Package tui is an interactive browser for converted liztrack files.
package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lizconv/liztrack"
	"lizconv/theme"
)

// Track is one liztrack file shown in the browser
type Track struct {
	Path    string
	Records []liztrack.Record
	Err     error
}

// LoadTracks decodes the named files in dir
func LoadTracks(dir string, names []string) []Track {
	tracks := make([]Track, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		records, err := liztrack.ReadFile(path)
		tracks = append(tracks, Track{Path: path, Records: records, Err: err})
	}
	return tracks
}

type Model struct {
	Tracks []Track
	Theme  *theme.Theme

	selected int
	offset   int // first record row shown
	height   int
	quitting bool
}

func NewModel(tracks []Track, th *theme.Theme) Model {
	return Model{
		Tracks: tracks,
		Theme:  th,
		height: 20,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.offset = 0
			}

		case "down", "j":
			if m.selected < len(m.Tracks)-1 {
				m.selected++
				m.offset = 0
			}

		case "pgdown", "l", " ":
			m.offset = min(m.offset+m.rows(), max(0, m.recordCount()-m.rows()))

		case "pgup", "h":
			m.offset = max(0, m.offset-m.rows())

		case "g":
			m.offset = 0
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
	}

	return m, nil
}

func (m Model) rows() int {
	// header, blank, help
	return max(1, m.height-4)
}

func (m Model) recordCount() int {
	if len(m.Tracks) == 0 {
		return 0
	}
	return len(m.Tracks[m.selected].Records)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	th := m.Theme
	headerStyle := th.Style(th.Accent()).Bold(true)
	dimStyle := th.Style(th.Muted())
	cursorStyle := th.Style(th.Cursor()).Bold(true)
	errStyle := th.Style(th.Error())

	if len(m.Tracks) == 0 {
		return headerStyle.Render("lizconv browse") + "\n\n" + dimStyle.Render("no liztrack files found") + "\n"
	}

	// File list
	var list strings.Builder
	for i, tr := range m.Tracks {
		name := filepath.Base(tr.Path)
		line := fmt.Sprintf("  %s", name)
		style := dimStyle
		if i == m.selected {
			line = fmt.Sprintf("▶ %s", name)
			style = cursorStyle
		}
		if tr.Err != nil {
			style = errStyle
		}
		list.WriteString(style.Render(line))
		list.WriteString("\n")
	}

	// Record view
	tr := m.Tracks[m.selected]
	var body strings.Builder
	if tr.Err != nil {
		body.WriteString(errStyle.Render(tr.Err.Error()))
	} else {
		body.WriteString(dimStyle.Render(fmt.Sprintf("%d records, %s", len(tr.Records), formatMs(liztrack.Duration(tr.Records)))))
		body.WriteString("\n")

		var at int64
		for i, r := range tr.Records {
			at += int64(r.Delay)
			if i < m.offset {
				continue
			}
			if i >= m.offset+m.rows() {
				break
			}
			state := "off"
			if r.On {
				state = "on "
			}
			noteStyle := th.Style(th.NoteColor(r.Note))
			body.WriteString(fmt.Sprintf("%10s  +%-7d %s %s\n",
				formatMs(at), r.Delay, state, noteStyle.Render(fmt.Sprintf("%3d", r.Note))))
		}
	}

	listView := lipgloss.NewStyle().PaddingRight(3).Render(list.String())
	content := lipgloss.JoinHorizontal(lipgloss.Top, listView, body.String())

	header := headerStyle.Render(fmt.Sprintf("lizconv browse  %d/%d", m.selected+1, len(m.Tracks)))
	help := dimStyle.Render("j/k:file  space/h:scroll  g:top  q:quit")

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(content)
	out.WriteString("\n")
	out.WriteString(help)
	return out.String()
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}
