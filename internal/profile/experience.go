package profile

import (
	"encoding/json"
	"strings"
)

type experienceKind int

const (
	experienceUnset experienceKind = iota
	experienceNone
	experienceDescribed
)

// Experience is the working_experience slot: unset, "none" (serialized as the
// integer 0), or a free-text duration such as "about 3 years".
type Experience struct {
	kind experienceKind
	text string
}

// NoExperience is the value forced for students and sector shifters.
func NoExperience() Experience {
	return Experience{kind: experienceNone}
}

// DescribedExperience returns a described duration. The text is trimmed; sentinel
// or empty text yields an unset Experience.
func DescribedExperience(text string) Experience {
	text = strings.TrimSpace(text)
	if text == "" || isSentinel(text) {
		return Experience{}
	}
	return Experience{kind: experienceDescribed, text: text}
}

// IsUnset reports whether no experience has been recorded.
func (e Experience) IsUnset() bool { return e.kind == experienceUnset }

// IsNone reports whether the experience is the "none" value.
func (e Experience) IsNone() bool { return e.kind == experienceNone }

// IsDescribed reports whether a described duration is recorded.
func (e Experience) IsDescribed() bool { return e.kind == experienceDescribed }

// Text returns the described duration, or "" for the other variants.
func (e Experience) Text() string { return e.text }

func (e Experience) String() string {
	switch e.kind {
	case experienceNone:
		return "0"
	case experienceDescribed:
		return e.text
	default:
		return NotProvided
	}
}

// MarshalJSON encodes unset as null, none as 0 and described as a string.
func (e Experience) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case experienceNone:
		return []byte("0"), nil
	case experienceDescribed:
		return json.Marshal(e.text)
	default:
		return []byte("null"), nil
	}
}

var sentinels = []string{NotProvided, "unknown"}

func isSentinel(text string) bool {
	for _, s := range sentinels {
		if text == s {
			return true
		}
	}
	return false
}
