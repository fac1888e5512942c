package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/router"
	"github.com/abhisek/h5play/internal/screen"
	"github.com/abhisek/h5play/internal/store"
	"github.com/abhisek/h5play/internal/ui/layout"
	"github.com/abhisek/h5play/internal/ui/theme"
)

// Limit is the number of completions loaded.
const Limit = 50

type historyLoadedMsg struct {
	Records []store.CompletionRecord
	Err     error
}

// HistoryScreen displays recorded completions, newest first.
type HistoryScreen struct {
	repo     store.CompletionRepo
	records  []store.CompletionRecord
	filter   string // activity id, "" for all
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo store.CompletionRepo) *HistoryScreen {
	return &HistoryScreen{repo: repo}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.load()
}

func (s *HistoryScreen) load() tea.Cmd {
	filter := s.filter
	return func() tea.Msg {
		recs, err := s.repo.Query(context.Background(), store.QueryOpts{Limit: Limit, ActivityID: filter})
		return historyLoadedMsg{Records: recs, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "f", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.records = msg.Records
		}
		s.loaded = true
		s.selected = 0
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
			return s, nil
		case "f":
			s.filter = nextFilter(s.filter)
			s.loaded = false
			return s, s.load()
		}
	}
	return s, nil
}

// nextFilter cycles through all activities, then each catalog entry.
func nextFilter(current string) string {
	cat := activity.Catalog()
	if current == "" {
		return cat[0].ID
	}
	for i, a := range cat {
		if a.ID == current && i+1 < len(cat) {
			return cat[i+1].ID
		}
	}
	return ""
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}

	var b strings.Builder
	b.WriteString("\n")
	filterLabel := "All activities"
	if a, err := activity.Lookup(s.filter); err == nil {
		filterLabel = a.Label
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Subtitle.Render(filterLabel)))
	b.WriteString("\n\n")

	if len(s.records) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No completions yet. Finish an activity in the player!"))
		return b.String()
	}

	for i, rec := range s.records {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		label := rec.ActivityID
		if a, err := activity.Lookup(rec.ActivityID); err == nil {
			label = a.Label
		}
		score := ""
		if rec.CorrectAnswers != nil {
			score = fmt.Sprintf("  %d correct", *rec.CorrectAnswers)
		}

		line := fmt.Sprintf("%s%s  %-12s  %-9s  %s%s",
			prefix, rec.RecordedAt.Format("Jan 02 15:04"), label, rec.Verb, rec.Elapsed, score)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
