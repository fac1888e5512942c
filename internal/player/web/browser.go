package web

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens url in the default browser. It is the Launcher used
// unless browser launching is disabled.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("open browser: unsupported platform %s", runtime.GOOS)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	// Reap the launcher process without blocking the caller.
	go func() { _ = cmd.Wait() }()
	return nil
}
