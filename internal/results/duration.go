// Package results derives display values from completion statements.
package results

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrNoDigits is returned when a duration token carries no digit run.
var ErrNoDigits = errors.New("duration token has no digits")

var digitRun = regexp.MustCompile(`\d+`)

// MinutesSeconds converts a duration token such as "PT95S" into "MM:SS".
// Only the first digit run is read and it is taken as whole seconds.
// Minutes are not capped at 59.
func MinutesSeconds(token string) (string, error) {
	run := digitRun.FindString(token)
	if run == "" {
		return "", fmt.Errorf("%w: %q", ErrNoDigits, token)
	}

	seconds, err := strconv.Atoi(run)
	if err != nil {
		return "", fmt.Errorf("parse seconds %q: %w", run, err)
	}

	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60), nil
}
