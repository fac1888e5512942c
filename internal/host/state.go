package host

import "github.com/abhisek/h5play/internal/activity"

// State is the lifecycle phase of a Host.
type State int

const (
	Unmounted State = iota
	Loading
	Ready
	Completed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case Unmounted:
		return "unmounted"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Snapshot is the derived session state of one mount.
type Snapshot struct {
	Activity activity.Activity
	MountID  string
	State    State

	// ElapsedTime is "MM:SS", or "" until a completion arrives.
	ElapsedTime string

	// CorrectAnswers is meaningful only when ShowCorrectAnswers is true.
	CorrectAnswers     int
	ShowCorrectAnswers bool

	// Completions counts the completion events handled by this mount.
	Completions int
}

// HasElapsedTime reports whether an elapsed time has been derived.
func (s Snapshot) HasElapsedTime() bool {
	return s.ElapsedTime != ""
}
