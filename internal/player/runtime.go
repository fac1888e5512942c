// Package player defines the boundary to the embedded H5P player runtime.
package player

import "context"

// Mount identifies one player instance bound to a container.
type Mount struct {
	ID         string
	ActivityID string
}

// Options configures a player instance. Field names follow the
// h5p-standalone constructor options.
type Options struct {
	H5PJSONPath string
	FrameJS     string
	FrameCSS    string
}

// Runtime instantiates players and exposes the runtime-wide event dispatcher.
type Runtime interface {
	// Instantiate loads the content described by opts into mount. It blocks
	// until the content is loaded, loading fails or ctx is done.
	Instantiate(ctx context.Context, mount Mount, opts Options) error

	// Release discards the mount and its player instance.
	Release(mountID string)

	// Events returns the dispatcher shared by every mount.
	Events() EventSource
}

// Linker is implemented by runtimes whose mounts are reachable by URL.
type Linker interface {
	MountURL(mountID string) string
}
