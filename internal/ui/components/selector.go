package components

import (
	"strconv"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// SelectorKeys are the bindings a Selector responds to.
type SelectorKeys struct {
	Prev   key.Binding
	Next   key.Binding
	Choose key.Binding
}

// DefaultSelectorKeys returns arrow, tab and enter bindings.
func DefaultSelectorKeys() SelectorKeys {
	return SelectorKeys{
		Prev:   key.NewBinding(key.WithKeys("left", "shift+tab"), key.WithHelp("←→", "Move")),
		Next:   key.NewBinding(key.WithKeys("right", "tab"), key.WithHelp("←→", "Move")),
		Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Select")),
	}
}

// Option is one choice offered by a Selector.
type Option struct {
	ID    string
	Label string
}

// Selector is a horizontal row of buttons with one chosen option and a
// cursor. Number keys 1..9 choose directly.
type Selector struct {
	Options  []Option
	Cursor   int
	Chosen   int
	OnChoose func(Option) tea.Cmd
	Keys     SelectorKeys
}

// NewSelector creates a selector with chosen as the initially chosen id.
// An unknown id chooses the first option.
func NewSelector(opts []Option, chosen string, onChoose func(Option) tea.Cmd) Selector {
	idx := 0
	for i, o := range opts {
		if o.ID == chosen {
			idx = i
			break
		}
	}
	return Selector{
		Options:  opts,
		Cursor:   idx,
		Chosen:   idx,
		OnChoose: onChoose,
		Keys:     DefaultSelectorKeys(),
	}
}

// Selected returns the chosen option.
func (s Selector) Selected() Option {
	return s.Options[s.Chosen]
}

// Update handles keyboard navigation. OnChoose runs only when the chosen
// option changes.
func (s Selector) Update(msg tea.Msg) (Selector, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(s.Options) == 0 {
		return s, nil
	}

	switch {
	case key.Matches(kmsg, s.Keys.Prev):
		if s.Cursor > 0 {
			s.Cursor--
		}
		return s, nil
	case key.Matches(kmsg, s.Keys.Next):
		if s.Cursor < len(s.Options)-1 {
			s.Cursor++
		}
		return s, nil
	case key.Matches(kmsg, s.Keys.Choose):
		return s.choose(s.Cursor)
	}

	if n, err := strconv.Atoi(kmsg.String()); err == nil && n >= 1 && n <= len(s.Options) {
		s.Cursor = n - 1
		return s.choose(n - 1)
	}
	return s, nil
}

func (s Selector) choose(i int) (Selector, tea.Cmd) {
	if i == s.Chosen {
		return s, nil
	}
	s.Chosen = i
	if s.OnChoose == nil {
		return s, nil
	}
	return s, s.OnChoose(s.Options[i])
}

// View renders the options as buttons on one line.
func (s Selector) View() string {
	parts := make([]string, 0, 2*len(s.Options))
	for i, o := range s.Options {
		if i > 0 {
			parts = append(parts, "  ")
		}
		b := NewButton(strconv.Itoa(i+1)+" "+o.Label, i == s.Chosen)
		b.Focused = i == s.Cursor
		parts = append(parts, b.View())
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}
