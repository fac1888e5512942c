package player

import (
	"errors"
	"fmt"
)

// ErrUnknownMount indicates a mount id the runtime does not hold.
var ErrUnknownMount = errors.New("unknown mount")

// ErrLoadFailed indicates the player rejected the content.
type ErrLoadFailed struct {
	MountID string
	Reason  string
}

func (e *ErrLoadFailed) Error() string {
	return fmt.Sprintf("player load failed for mount %s: %s", e.MountID, e.Reason)
}
