package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/host"
	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/router"
	"github.com/abhisek/h5play/internal/screen"
	"github.com/abhisek/h5play/internal/screens/shell"
	"github.com/abhisek/h5play/internal/store"
	"github.com/abhisek/h5play/internal/ui/layout"
)

// Options holds the dependencies the TUI is built from.
type Options struct {
	Runtime  player.Runtime
	Activity activity.Activity
	Host     host.Config
	Repo     store.CompletionRepo
	Logger   *zap.Logger
	Titles   map[string]string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	shell  *shell.Shell
	width  int
	height int
}

// newAppModel creates a new AppModel with the shell as the root screen.
func newAppModel(ctx context.Context, opts Options) AppModel {
	sh := shell.New(ctx, shell.Options{
		Runtime: opts.Runtime,
		Initial: opts.Activity,
		Host:    opts.Host,
		Repo:    opts.Repo,
		Logger:  opts.Logger,
		Titles:  opts.Titles,
	})
	return AppModel{
		router: router.New(sh),
		shell:  sh,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	status := ""
	if m.shell != nil {
		snap := m.shell.Snapshot()
		status = snap.Activity.Label + " · " + snap.State.String()
	}
	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and releases every screen when it exits.
func Run(ctx context.Context, opts Options) error {
	m := newAppModel(ctx, opts)
	defer m.router.Close()

	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
