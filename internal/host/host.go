// Package host binds one activity to one player mount and derives the
// elapsed time and correct-answer count from the player's completion events.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/results"
	"github.com/abhisek/h5play/internal/store"
	"github.com/abhisek/h5play/internal/xapi"
)

var (
	ErrAlreadyMounted = errors.New("host already mounted")
	ErrClosed         = errors.New("host closed")
)

// Option configures a Host.
type Option func(*Host)

// WithConfig sets the player locations and load timeout.
func WithConfig(cfg Config) Option {
	return func(h *Host) { h.cfg = cfg }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRecorder records every handled completion.
func WithRecorder(r store.CompletionRepo) Option {
	return func(h *Host) { h.recorder = r }
}

// Host owns one mount of the player for one activity. A Host is used once:
// switching activity means closing it and creating a new one.
type Host struct {
	runtime  player.Runtime
	act      activity.Activity
	cfg      Config
	logger   *zap.Logger
	recorder store.CompletionRepo

	mu      sync.Mutex
	snap    Snapshot
	closed  bool
	sub     *player.Subscription
	cancel  context.CancelFunc
	updates chan Snapshot
	loadWG  sync.WaitGroup
}

// New creates an unmounted Host for act on the given runtime.
func New(rt player.Runtime, act activity.Activity, opts ...Option) *Host {
	h := &Host{
		runtime: rt,
		act:     act,
		cfg:     DefaultConfig(),
		logger:  zap.NewNop(),
		updates: make(chan Snapshot, 1),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.snap = Snapshot{
		Activity:           act,
		State:              Unmounted,
		ShowCorrectAnswers: act.Scored(),
	}
	return h
}

// Activity returns the activity this host was created for.
func (h *Host) Activity() activity.Activity {
	return h.act
}

// Snapshot returns the current derived state.
func (h *Host) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snap
}

// Updates returns a stream of snapshots. Only the latest undelivered
// snapshot is kept. The channel is closed by Close.
func (h *Host) Updates() <-chan Snapshot {
	return h.updates
}

// PlayerOptions returns the options the runtime receives for this activity.
func (h *Host) PlayerOptions() player.Options {
	return player.Options{
		H5PJSONPath: h.act.ContentPath(h.cfg.ContentBase),
		FrameJS:     h.cfg.FrameJS,
		FrameCSS:    h.cfg.FrameCSS,
	}
}

// Mount starts instantiating the player and returns without waiting for it.
// The host moves to Loading now and to Ready once the player has loaded.
func (h *Host) Mount(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.snap.State != Unmounted {
		return ErrAlreadyMounted
	}

	var loadCtx context.Context
	var cancel context.CancelFunc
	if h.cfg.LoadTimeout > 0 {
		loadCtx, cancel = context.WithTimeout(ctx, h.cfg.LoadTimeout)
	} else {
		loadCtx, cancel = context.WithCancel(ctx)
	}
	h.cancel = cancel

	mount := player.Mount{ID: uuid.New().String(), ActivityID: h.act.ID}
	h.snap.MountID = mount.ID
	h.snap.State = Loading
	h.publishLocked()

	h.loadWG.Add(1)
	go h.load(loadCtx, mount, h.PlayerOptions())
	return nil
}

func (h *Host) load(ctx context.Context, mount player.Mount, opts player.Options) {
	defer h.loadWG.Done()

	if err := h.runtime.Instantiate(ctx, mount, opts); err != nil {
		if errors.Is(err, context.Canceled) && h.isClosed() {
			return
		}
		// The host stays in Loading; the failure is only logged.
		h.logger.Error("error loading content",
			zap.String("activity", h.act.ID),
			zap.String("mount", mount.ID),
			zap.Error(err),
		)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.sub = h.runtime.Events().On(xapi.EventName, h.handleEvent)
	h.snap.State = Ready
	h.publishLocked()
}

func (h *Host) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Host) handleEvent(ev player.Event) {
	st := ev.Statement
	if st == nil || !st.IsCompletion() {
		return
	}

	h.mu.Lock()
	if h.closed || (ev.MountID != "" && ev.MountID != h.snap.MountID) {
		h.mu.Unlock()
		return
	}

	elapsed, err := results.MinutesSeconds(st.Duration())
	if err != nil {
		h.mu.Unlock()
		h.logger.Warn("dropping completion with unreadable duration",
			zap.String("mount", ev.MountID), zap.Error(err))
		return
	}

	rec := store.CompletionRecord{
		MountID:       h.snap.MountID,
		ActivityID:    h.act.ID,
		Verb:          st.VerbDisplay(xapi.DefaultLocale),
		DurationToken: st.Duration(),
		Elapsed:       elapsed,
		Statement:     string(st.Raw()),
	}

	h.snap.ElapsedTime = elapsed
	if h.act.Scored() {
		if n, err := scoreStatement(st); err != nil {
			h.logger.Warn("completion not scored", zap.String("mount", ev.MountID), zap.Error(err))
		} else {
			h.snap.CorrectAnswers = n
			rec.CorrectAnswers = &n
		}
	}
	h.snap.State = Completed
	h.snap.Completions++
	h.publishLocked()
	recorder := h.recorder
	h.mu.Unlock()

	if recorder != nil {
		if err := recorder.Append(context.Background(), rec); err != nil {
			h.logger.Warn("failed to record completion", zap.Error(err))
		}
	}
}

func scoreStatement(st *xapi.Statement) (int, error) {
	response, ok := st.Response()
	if !ok {
		return 0, fmt.Errorf("statement has no response")
	}
	patterns := st.CorrectResponsesPattern()
	if len(patterns) == 0 {
		return 0, fmt.Errorf("statement has no correct responses pattern")
	}
	return results.CountCorrectAnswers(response, patterns[0]), nil
}

// publishLocked offers the current snapshot to the update stream, replacing
// any snapshot not yet received. Callers hold h.mu.
func (h *Host) publishLocked() {
	if h.closed {
		return
	}
	select {
	case h.updates <- h.snap:
		return
	default:
	}
	select {
	case <-h.updates:
	default:
	}
	h.updates <- h.snap
}

// Close tears the mount down: pending instantiation is cancelled, the event
// subscription is released, the runtime discards the mount and the update
// stream is closed. Close is idempotent.
func (h *Host) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	sub := h.sub
	h.sub = nil
	cancel := h.cancel
	mountID := h.snap.MountID
	close(h.updates)
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.loadWG.Wait()

	if err := sub.Close(); err != nil {
		return fmt.Errorf("release subscription: %w", err)
	}
	if mountID != "" {
		h.runtime.Release(mountID)
	}
	return nil
}
