package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func testOptions() []Option {
	return []Option{
		{ID: "memory-game", Label: "Memory Game"},
		{ID: "vocabulary", Label: "Vocabulary"},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestNewSelector_ChoosesByID(t *testing.T) {
	s := NewSelector(testOptions(), "vocabulary", nil)
	if s.Chosen != 1 || s.Cursor != 1 {
		t.Errorf("expected chosen=1 cursor=1, got %d %d", s.Chosen, s.Cursor)
	}
	if id := s.Selected().ID; id != "vocabulary" {
		t.Errorf("Selected() = %q", id)
	}

	s = NewSelector(testOptions(), "unknown", nil)
	if id := s.Selected().ID; id != "memory-game" {
		t.Errorf("unknown id should fall back to first option, got %q", id)
	}
}

func TestSelector_NumberKeyChooses(t *testing.T) {
	var got []string
	s := NewSelector(testOptions(), "vocabulary", func(o Option) tea.Cmd {
		got = append(got, o.ID)
		return nil
	})

	s, _ = s.Update(keyPress('1'))
	if id := s.Selected().ID; id != "memory-game" {
		t.Errorf("Selected() = %q", id)
	}
	if len(got) != 1 || got[0] != "memory-game" {
		t.Errorf("choices = %v", got)
	}

	// Re-choosing the current option does nothing.
	s, _ = s.Update(keyPress('1'))
	if len(got) != 1 {
		t.Errorf("re-choosing fired again: %v", got)
	}

	// Out of range.
	s, _ = s.Update(keyPress('9'))
	if id := s.Selected().ID; id != "memory-game" {
		t.Errorf("out of range key changed selection to %q", id)
	}
}

func TestSelector_ArrowsThenEnter(t *testing.T) {
	called := 0
	s := NewSelector(testOptions(), "vocabulary", func(Option) tea.Cmd {
		called++
		return func() tea.Msg { return nil }
	})

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0", s.Cursor)
	}
	if s.Chosen != 1 {
		t.Error("moving the cursor should not choose")
	}

	s, _ = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.Cursor != 0 {
		t.Errorf("cursor should stop at the first option, got %d", s.Cursor)
	}

	s, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command from enter")
	}
	if s.Chosen != 0 || called != 1 {
		t.Errorf("expected chosen=0 called=1, got %d %d", s.Chosen, called)
	}
}

func TestSelector_ViewShowsLabels(t *testing.T) {
	s := NewSelector(testOptions(), "vocabulary", nil)
	v := s.View()
	for _, want := range []string{"1 Memory Game", "2 Vocabulary"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
}
