package profile

import (
	"fmt"
	"strings"
)

// CorrectionEntry records one user-issued correction. Entries are never modified
// once appended.
type CorrectionEntry struct {
	Slot      Slot   `json:"slot"`
	OldValue  string `json:"old_value"`
	NewValue  string `json:"new_value"`
	TurnIndex int    `json:"turn_index"`
}

func (c CorrectionEntry) String() string {
	return fmt.Sprintf("Changed %s from %s to %s", c.Slot, c.OldValue, c.NewValue)
}

// CorrectionLog is the append-only list of corrections made in a conversation.
type CorrectionLog struct {
	entries []CorrectionEntry
}

// Append adds an entry to the end of the log.
func (l *CorrectionLog) Append(e CorrectionEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy of the logged corrections in order.
func (l *CorrectionLog) Entries() []CorrectionEntry {
	out := make([]CorrectionEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of logged corrections.
func (l *CorrectionLog) Len() int { return len(l.entries) }

// Trigger maps a correction phrase to the slot it revises.
type Trigger struct {
	Phrase string
	Slot   Slot
}

// DefaultTriggers is the recognised correction vocabulary, tested in order.
var DefaultTriggers = []Trigger{
	{"correct age", SlotAge},
	{"modify age", SlotAge},
	{"change age", SlotAge},
	{"correct education", SlotEducation},
	{"modify education", SlotEducation},
	{"change education", SlotEducation},
	{"correct occupation", SlotOccupation},
	{"modify occupation", SlotOccupation},
	{"change occupation", SlotOccupation},
	{"correct experience", SlotExperience},
	{"modify experience", SlotExperience},
	{"change experience", SlotExperience},
}

// CorrectionInterpreter detects explicit requests to revise a slot.
type CorrectionInterpreter struct {
	triggers []Trigger
}

// NewCorrectionInterpreter returns an interpreter over the given triggers, or over
// DefaultTriggers when none are given.
func NewCorrectionInterpreter(triggers ...Trigger) *CorrectionInterpreter {
	if len(triggers) == 0 {
		triggers = DefaultTriggers
	}
	return &CorrectionInterpreter{triggers: triggers}
}

// Interpret checks input against the trigger table using a case-insensitive prefix
// match. On a match it logs the correction with the slot's current value, clears
// the experience when the occupation is being corrected, and returns the slot and
// the proposed value. turnIndex is the conversation history length at the time of
// the correction.
func (ci *CorrectionInterpreter) Interpret(input string, p *Profile, log *CorrectionLog, turnIndex int) (Slot, string, bool) {
	for _, t := range ci.triggers {
		if len(input) < len(t.Phrase) || !strings.EqualFold(input[:len(t.Phrase)], t.Phrase) {
			continue
		}
		value := strings.TrimSpace(input[len(t.Phrase):])
		log.Append(CorrectionEntry{
			Slot:      t.Slot,
			OldValue:  p.correctionValue(t.Slot),
			NewValue:  value,
			TurnIndex: turnIndex,
		})
		if t.Slot == SlotOccupation {
			p.Experience = Experience{}
		}
		return t.Slot, value, true
	}
	return "", "", false
}

// Instruction rewrites a detected correction as an explicit instruction for the
// extraction prompt.
func Instruction(slot Slot, value string) string {
	return fmt.Sprintf("I want to update my %s to %s", slot, value)
}

// correctionValue is the old value recorded in the log: the raw slot value, or
// "None" when the slot is unset.
func (p *Profile) correctionValue(slot Slot) string {
	if !p.isSet(slot) {
		return "None"
	}
	return p.Value(slot)
}
