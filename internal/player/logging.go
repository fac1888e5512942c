package player

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// LoggingRuntime is a decorator that logs every instantiation.
type LoggingRuntime struct {
	inner  Runtime
	logger *zap.Logger
}

// WithLogging wraps a Runtime with instantiation logging.
func WithLogging(rt Runtime, logger *zap.Logger) Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingRuntime{inner: rt, logger: logger}
}

func (l *LoggingRuntime) Instantiate(ctx context.Context, mount Mount, opts Options) error {
	start := time.Now()
	l.logger.Debug("instantiating player",
		zap.String("mount", mount.ID),
		zap.String("activity", mount.ActivityID),
		zap.String("h5p_json_path", opts.H5PJSONPath),
	)

	err := l.inner.Instantiate(ctx, mount, opts)

	fields := []zap.Field{
		zap.String("mount", mount.ID),
		zap.Duration("latency", time.Since(start)),
	}
	if err != nil {
		l.logger.Debug("player instantiation ended", append(fields, zap.Error(err))...)
		return err
	}
	l.logger.Info("player ready", fields...)
	return nil
}

func (l *LoggingRuntime) Release(mountID string) {
	l.logger.Debug("releasing mount", zap.String("mount", mountID))
	l.inner.Release(mountID)
}

func (l *LoggingRuntime) Events() EventSource {
	return l.inner.Events()
}

// MountURL forwards to the wrapped runtime when it implements Linker.
func (l *LoggingRuntime) MountURL(mountID string) string {
	if lk, ok := l.inner.(Linker); ok {
		return lk.MountURL(mountID)
	}
	return ""
}
