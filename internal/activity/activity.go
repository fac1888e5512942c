// Package activity names the bundled H5P content packages.
package activity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownActivity is returned by Lookup for ids outside the catalog.
var ErrUnknownActivity = errors.New("unknown activity")

// Kind tells the host which derived values an activity produces.
type Kind int

const (
	// KindStandard activities report elapsed time only.
	KindStandard Kind = iota
	// KindResponseMatching activities also report a scored response.
	KindResponseMatching
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindResponseMatching:
		return "response-matching"
	default:
		return "unknown"
	}
}

// Activity references one bundled content package.
type Activity struct {
	ID    string
	Label string
	Kind  Kind
}

var (
	MemoryGame = Activity{ID: "memory-game", Label: "Memory Game", Kind: KindStandard}
	Vocabulary = Activity{ID: "vocabulary", Label: "Vocabulary", Kind: KindResponseMatching}
)

// Catalog returns the selectable activities in display order.
func Catalog() []Activity {
	return []Activity{MemoryGame, Vocabulary}
}

// Default returns the activity selected at startup.
func Default() Activity {
	return Vocabulary
}

// Lookup returns the catalog activity with the given id.
func Lookup(id string) (Activity, error) {
	for _, a := range Catalog() {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, fmt.Errorf("%w: %q", ErrUnknownActivity, id)
}

// Scored reports whether completions of this activity carry a response to score.
func (a Activity) Scored() bool {
	return a.Kind == KindResponseMatching
}

// ContentPath returns "<base>/<id>", the location the player loads from.
func (a Activity) ContentPath(base string) string {
	return strings.TrimRight(base, "/") + "/" + a.ID
}
