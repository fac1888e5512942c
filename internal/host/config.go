package host

import "time"

// Config holds the player locations a Host passes to the runtime.
type Config struct {
	// ContentBase is joined with the activity id to form the content path.
	ContentBase string
	FrameJS     string
	FrameCSS    string

	// LoadTimeout bounds instantiation. Zero waits until Close.
	LoadTimeout time.Duration
}

// DefaultConfig returns the locations used by the bundled web player.
func DefaultConfig() Config {
	return Config{
		ContentBase: "/h5p",
		FrameJS:     "/assets/frame.bundle.js",
		FrameCSS:    "/assets/h5p.css",
	}
}
