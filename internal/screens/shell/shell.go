// Package shell is the root screen: it holds the selected activity, owns
// the Host playing it and renders the derived results.
package shell

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/host"
	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/router"
	"github.com/abhisek/h5play/internal/screen"
	"github.com/abhisek/h5play/internal/screens/history"
	"github.com/abhisek/h5play/internal/store"
	"github.com/abhisek/h5play/internal/ui/components"
	"github.com/abhisek/h5play/internal/ui/layout"
	"github.com/abhisek/h5play/internal/ui/theme"
)

// Options configures the shell.
type Options struct {
	Runtime player.Runtime
	// Initial is the activity mounted at startup. Zero means activity.Default().
	Initial activity.Activity
	Host    host.Config
	// Repo records completions and backs the history screen. Optional.
	Repo   store.CompletionRepo
	Logger *zap.Logger
	// Titles maps activity ids to content package titles. Optional.
	Titles map[string]string
}

// hostUpdateMsg carries a snapshot from a host's update stream. closed is
// set once the stream ends.
type hostUpdateMsg struct {
	host   *host.Host
	snap   host.Snapshot
	closed bool
}

// selectMsg asks the shell to switch activity.
type selectMsg struct {
	act activity.Activity
}

type keyMap struct {
	History key.Binding
}

// Shell is the activity selector and playback view.
type Shell struct {
	ctx    context.Context
	opts   Options
	logger *zap.Logger
	keys   keyMap

	selector components.Selector
	spinner  spinner.Model

	host   *host.Host
	snap   host.Snapshot
	errMsg string
}

var _ screen.Screen = (*Shell)(nil)
var _ screen.KeyHintProvider = (*Shell)(nil)
var _ router.Closer = (*Shell)(nil)
var _ router.Background = (*Shell)(nil)

// New creates the shell. ctx bounds every player mount.
func New(ctx context.Context, opts Options) *Shell {
	if opts.Initial.ID == "" {
		opts.Initial = activity.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	choices := make([]components.Option, 0, len(activity.Catalog()))
	for _, a := range activity.Catalog() {
		choices = append(choices, components.Option{ID: a.ID, Label: a.Label})
	}

	s := &Shell{
		ctx:    ctx,
		opts:   opts,
		logger: logger,
		keys: keyMap{
			History: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "History")),
		},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		snap: host.Snapshot{
			Activity:           opts.Initial,
			ShowCorrectAnswers: opts.Initial.Scored(),
		},
	}
	s.selector = components.NewSelector(choices, opts.Initial.ID, func(o components.Option) tea.Cmd {
		act, err := activity.Lookup(o.ID)
		if err != nil {
			return nil
		}
		return func() tea.Msg { return selectMsg{act: act} }
	})
	return s
}

func (s *Shell) Init() tea.Cmd {
	return tea.Batch(s.mount(s.opts.Initial), s.spinner.Tick)
}

func (s *Shell) Title() string {
	return "Player"
}

func (s *Shell) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: fmt.Sprintf("1-%d", len(activity.Catalog())), Description: "Activity"},
		{Key: "←→", Description: "Move"},
		{Key: "Enter", Description: "Select"},
	}
	if s.opts.Repo != nil {
		hints = append(hints, layout.KeyHint{Key: "h", Description: "History"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Activity returns the selected activity.
func (s *Shell) Activity() activity.Activity {
	return s.snap.Activity
}

// Snapshot returns the last snapshot received from the current host.
func (s *Shell) Snapshot() host.Snapshot {
	return s.snap
}

// mount replaces the current host with a fresh one for act. Derived state
// starts over.
func (s *Shell) mount(act activity.Activity) tea.Cmd {
	if s.host != nil {
		if err := s.host.Close(); err != nil {
			s.logger.Warn("error closing host", zap.String("activity", s.host.Activity().ID), zap.Error(err))
		}
	}

	h := host.New(s.opts.Runtime, act,
		host.WithConfig(s.opts.Host),
		host.WithLogger(s.logger),
		host.WithRecorder(s.opts.Repo),
	)
	s.host = h
	s.snap = h.Snapshot()
	s.errMsg = ""

	if err := h.Mount(s.ctx); err != nil {
		s.errMsg = err.Error()
		return nil
	}
	return waitForUpdate(h)
}

func waitForUpdate(h *host.Host) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-h.Updates()
		return hostUpdateMsg{host: h, snap: snap, closed: !ok}
	}
}

// Owns reports whether msg belongs to the shell even while it is covered:
// host updates and spinner ticks each keep a single command chain alive.
func (s *Shell) Owns(msg tea.Msg) bool {
	switch msg.(type) {
	case hostUpdateMsg, spinner.TickMsg:
		return true
	}
	return false
}

func (s *Shell) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case hostUpdateMsg:
		// Updates from a replaced host are dropped.
		if msg.host != s.host || msg.closed {
			return s, nil
		}
		s.snap = msg.snap
		return s, waitForUpdate(msg.host)

	case selectMsg:
		if msg.act.ID == s.snap.Activity.ID {
			return s, nil
		}
		return s, s.mount(msg.act)

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		if key.Matches(msg, s.keys.History) && s.opts.Repo != nil {
			return s, func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(s.opts.Repo)}
			}
		}
		var cmd tea.Cmd
		s.selector, cmd = s.selector.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Shell) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.selector.View()))
	b.WriteString("\n\n")

	center := func(str string) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, str))
		b.WriteString("\n")
	}

	act := s.snap.Activity
	heading := act.Label
	if title := s.opts.Titles[act.ID]; title != "" && title != act.Label {
		heading += " · " + title
	}
	center(theme.Title.Render(heading))
	b.WriteString("\n")

	if s.errMsg != "" {
		center(lipgloss.NewStyle().Foreground(theme.Error).Render("Error: " + s.errMsg))
		return b.String()
	}

	center(s.stateLine())

	if s.snap.HasElapsedTime() {
		b.WriteString("\n")
		center(theme.Body.Render("Time  ") + theme.Correct.Render(s.snap.ElapsedTime))
	}
	if s.snap.ShowCorrectAnswers {
		center(theme.Body.Render("Correct answers  ") + theme.Correct.Render(fmt.Sprintf("%d", s.snap.CorrectAnswers)))
	}
	return b.String()
}

func (s *Shell) stateLine() string {
	switch s.snap.State {
	case host.Loading:
		line := s.spinner.View() + " Loading"
		if l, ok := s.opts.Runtime.(player.Linker); ok && s.snap.MountID != "" {
			line += "  " + l.MountURL(s.snap.MountID)
		}
		return theme.StateLoading.Render(line)
	case host.Ready:
		return theme.StateReady.Render("Ready. Play in the browser window.")
	case host.Completed:
		label := "Completed"
		if s.snap.Completions > 1 {
			label = fmt.Sprintf("Completed ×%d", s.snap.Completions)
		}
		return theme.StateCompleted.Render(label)
	default:
		return theme.StateIdle.Render("Not loaded")
	}
}

// Close releases the current host.
func (s *Shell) Close() error {
	if s.host == nil {
		return nil
	}
	return s.host.Close()
}
