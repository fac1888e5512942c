package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/xapi"
)

func newTestModel(t *testing.T, rt player.Runtime) AppModel {
	t.Helper()
	m := newAppModel(context.Background(), Options{Runtime: rt, Activity: activity.MemoryGame})
	t.Cleanup(m.router.Close)
	return m
}

func TestAppModel_RendersFrame(t *testing.T) {
	m := newTestModel(t, player.NewMockRuntime())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	frame := updated.(AppModel).render()

	for _, want := range []string{"h5play", "Player", "Memory Game", "Enter"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q:\n%s", want, frame)
		}
	}
}

func TestAppModel_TooSmall(t *testing.T) {
	m := newTestModel(t, player.NewMockRuntime())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	if frame := updated.(AppModel).render(); !strings.Contains(frame, "Terminal too small") {
		t.Errorf("expected size warning, got:\n%s", frame)
	}
}

func TestAppModel_Quit(t *testing.T) {
	m := newTestModel(t, player.NewMockRuntime())

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestAppModel_RouterCloseReleasesHost(t *testing.T) {
	rt := player.NewMockRuntime()
	m := newAppModel(context.Background(), Options{Runtime: rt})

	// Init mounts the default activity.
	if m.Init() == nil {
		t.Fatal("expected an init command")
	}
	deadline := time.Now().Add(time.Second)
	for rt.Dispatcher().Listeners(xapi.EventName) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the activity to mount")
		}
		time.Sleep(5 * time.Millisecond)
	}

	m.router.Close()
	if n := rt.Dispatcher().Listeners(xapi.EventName); n != 0 {
		t.Errorf("expected no listeners, got %d", n)
	}
	mounts := rt.Mounts()
	if len(mounts) != 1 {
		t.Fatalf("expected 1 mount, got %d", len(mounts))
	}
	if r := rt.Released(); len(r) != 1 || r[0] != mounts[0].ID {
		t.Errorf("expected %q released, got %v", mounts[0].ID, r)
	}
}
