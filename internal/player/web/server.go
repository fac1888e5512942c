// Package web serves the H5P standalone player to a browser and relays its
// xAPI statements back onto a player.Dispatcher.
package web

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/player"
)

//go:embed page.html.tmpl
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// Config configures the web runtime.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:8080".
	Addr string
	// PublicURL prefixes mount URLs. Defaults to "http://" + Addr.
	PublicURL string

	ContentDir   string // served under ContentRoute
	ContentRoute string // "/h5p"
	AssetsDir    string // served under /assets
	PlayerScript string // h5p-standalone main bundle

	AllowedOrigins []string
}

// DefaultConfig returns the layout of the bundled public/ directory.
func DefaultConfig() Config {
	return Config{
		Addr:         "127.0.0.1:8080",
		ContentDir:   "public/h5p",
		ContentRoute: "/h5p",
		AssetsDir:    "public/assets",
		PlayerScript: "/assets/main.bundle.js",
	}
}

// Launcher opens a mount page, typically in the system browser.
type Launcher func(url string) error

// Option configures a Server.
type Option func(*Server)

// WithLauncher sets the function used to open mount pages.
func WithLauncher(l Launcher) Option {
	return func(s *Server) { s.launch = l }
}

// WithDispatcher shares an existing dispatcher instead of creating one.
func WithDispatcher(d *player.Dispatcher) Option {
	return func(s *Server) { s.dispatcher = d }
}

type pendingMount struct {
	mount  player.Mount
	opts   player.Options
	loaded chan error
	done   bool
}

// Server is a player.Runtime backed by browser pages.
type Server struct {
	cfg        Config
	logger     *zap.Logger
	dispatcher *player.Dispatcher
	launch     Launcher

	mu     sync.Mutex
	mounts map[string]*pendingMount
	order  []string

	handler http.Handler
}

var _ player.Runtime = (*Server)(nil)
var _ player.Linker = (*Server)(nil)

// NewServer creates a Server. It does not listen until Start is called.
func NewServer(cfg Config, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ContentRoute == "" {
		cfg.ContentRoute = "/h5p"
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://" + cfg.Addr
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mounts: make(map[string]*pendingMount),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dispatcher == nil {
		s.dispatcher = player.NewDispatcher()
	}
	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler serving pages, content and the API.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Dispatcher returns the dispatcher statements are emitted on.
func (s *Server) Dispatcher() *player.Dispatcher {
	return s.dispatcher
}

// Events implements player.Runtime.
func (s *Server) Events() player.EventSource {
	return s.dispatcher
}

// MountURL implements player.Linker.
func (s *Server) MountURL(mountID string) string {
	return strings.TrimRight(s.cfg.PublicURL, "/") + "/play/" + mountID
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("player server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Instantiate registers the mount, opens its page and waits for the page to
// report that the player loaded.
func (s *Server) Instantiate(ctx context.Context, mount player.Mount, opts player.Options) error {
	pm := &pendingMount{mount: mount, opts: opts, loaded: make(chan error, 1)}

	s.mu.Lock()
	s.mounts[mount.ID] = pm
	s.order = append(s.order, mount.ID)
	s.mu.Unlock()

	url := s.MountURL(mount.ID)
	if s.launch != nil {
		if err := s.launch(url); err != nil {
			s.logger.Warn("could not open player page", zap.String("url", url), zap.Error(err))
		}
	}

	select {
	case err := <-pm.loaded:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release implements player.Runtime.
func (s *Server) Release(mountID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.mounts, mountID)
	for i, id := range s.order {
		if id == mountID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Server) lookup(mountID string) (*pendingMount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pm, ok := s.mounts[mountID]
	return pm, ok
}

// newest returns the most recently registered live mount id.
func (s *Server) newest() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return ""
	}
	return s.order[len(s.order)-1]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}

	r.Get("/", s.handleIndex)
	r.Get("/play/{mountID}", s.handlePlay)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/mounts/{mountID}/loaded", s.handleLoaded)
		r.Post("/mounts/{mountID}/xapi", s.handleStatement)
	})

	route := strings.TrimRight(s.cfg.ContentRoute, "/")
	r.Handle(route+"/*", http.StripPrefix(route, http.FileServer(http.Dir(s.cfg.ContentDir))))
	r.Handle("/assets/*", http.StripPrefix("/assets", http.FileServer(http.Dir(s.cfg.AssetsDir))))

	return r
}
