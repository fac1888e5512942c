package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/abhisek/h5play/internal/activity"
	"github.com/abhisek/h5play/internal/config"
	"github.com/abhisek/h5play/internal/player"
	"github.com/abhisek/h5play/internal/player/web"
)

// playerServer is a started web runtime. Wait blocks until it has shut down.
type playerServer struct {
	runtime player.Runtime
	errCh   chan error
}

// startPlayer binds the player server and serves it until ctx is done.
// Binding happens before returning so the first mount never races the
// listener.
func startPlayer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*playerServer, error) {
	var opts []web.Option
	if cfg.Server.OpenBrowser {
		opts = append(opts, web.WithLauncher(web.OpenBrowser))
	} else {
		opts = append(opts, web.WithLauncher(func(url string) error {
			logger.Info("open the player page", zap.String("url", url))
			return nil
		}))
	}
	srv := web.NewServer(cfg.Web(), logger.Named("web"), opts...)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", cfg.Server.Addr, err)
	}

	ps := &playerServer{
		runtime: player.WithLogging(srv, logger.Named("player")),
		errCh:   make(chan error, 1),
	}
	go func() { ps.errCh <- srv.Serve(ctx, ln) }()
	return ps, nil
}

// Wait returns the server's exit error. ctx must already be done.
func (p *playerServer) Wait() error {
	err := <-p.errCh
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// manifestTitles reads the title of every catalog package that has a
// readable manifest.
func manifestTitles(contentDir string, logger *zap.Logger) map[string]string {
	titles := make(map[string]string)
	for _, a := range activity.Catalog() {
		m, err := activity.ReadManifest(contentDir, a.ID)
		if err != nil {
			logger.Debug("no manifest", zap.String("activity", a.ID), zap.Error(err))
			continue
		}
		titles[a.ID] = m.Title
	}
	return titles
}
