// Package xapi reads the xAPI statements emitted by the H5P player.
package xapi

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// EventName is the dispatcher event the H5P runtime uses for statements.
const EventName = "xAPI"

// DefaultLocale is the language map key used to classify verbs.
const DefaultLocale = "en-US"

// Verb display labels that mark an activity as finished.
const (
	VerbCompleted = "completed"
	VerbAnswered  = "answered"
)

var finishVerbs = []string{VerbCompleted, VerbAnswered}

// IsFinishVerb reports whether label is one of the recognized completion labels.
func IsFinishVerb(label string) bool {
	for _, v := range finishVerbs {
		if v == label {
			return true
		}
	}
	return false
}

// Statement is a validated H5P xAPI event payload ({"statement": {...}}).
type Statement struct {
	raw  []byte
	root gjson.Result
}

// Parse validates data against the statement schema and returns a Statement.
func Parse(data []byte) (*Statement, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ErrInvalidStatement{Err: fmt.Errorf("invalid JSON")}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ErrInvalidStatement{Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	raw := make([]byte, len(data))
	copy(raw, data)
	return &Statement{raw: raw, root: gjson.ParseBytes(raw)}, nil
}

// Raw returns the payload bytes the statement was parsed from.
func (s *Statement) Raw() []byte {
	return s.raw
}

// VerbDisplay returns the verb label for locale, or "" when absent.
func (s *Statement) VerbDisplay(locale string) string {
	return s.root.Get("statement.verb.display." + gjson.Escape(locale)).String()
}

// VerbID returns the verb IRI.
func (s *Statement) VerbID() string {
	return s.root.Get("statement.verb.id").String()
}

// ObjectID returns the activity IRI the statement is about.
func (s *Statement) ObjectID() string {
	return s.root.Get("statement.object.id").String()
}

// Duration returns the result duration token, e.g. "PT95S".
func (s *Statement) Duration() string {
	return s.root.Get("statement.result.duration").String()
}

// Response returns the learner's comma-separated response.
func (s *Statement) Response() (string, bool) {
	r := s.root.Get("statement.result.response")
	return r.String(), r.Exists()
}

// CorrectResponsesPattern returns the expected-response patterns.
func (s *Statement) CorrectResponsesPattern() []string {
	var out []string
	s.root.Get("statement.object.definition.correctResponsesPattern").ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.String())
		return true
	})
	return out
}

// IsCompletion reports whether the en-US verb label is a finish verb.
func (s *Statement) IsCompletion() bool {
	return IsFinishVerb(s.VerbDisplay(DefaultLocale))
}
