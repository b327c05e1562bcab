package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ExtractedInfo is the extracted_info mapping returned by the model. Values are
// whatever the JSON decoder produced: json.Number, float64, string, bool, nil.
type ExtractedInfo map[string]any

// Rejection records an extracted value that Apply dropped.
type Rejection struct {
	Slot   Slot
	Value  any
	Reason string
}

func (r Rejection) String() string {
	return fmt.Sprintf("%s=%v: %s", r.Slot, r.Value, r.Reason)
}

// Apply merges extracted values into the profile one slot at a time, in the fixed
// order age, education, occupation, experience. Each value is validated against
// the profile as it stands when that slot is processed, so an occupation accepted
// in this call governs the experience handled after it. Invalid values never
// modify the profile; they are returned as rejections.
func (p *Profile) Apply(info ExtractedInfo) []Rejection {
	var rejected []Rejection
	reject := func(slot Slot, v any, reason string) {
		rejected = append(rejected, Rejection{Slot: slot, Value: v, Reason: reason})
	}

	for _, slot := range Slots {
		v, ok := info[string(slot)]
		if !ok || v == nil {
			continue
		}

		switch slot {
		case SlotAge:
			age, ok := asInt(v)
			if !ok {
				reject(slot, v, "not an integer")
				continue
			}
			if !validAge(age) {
				reject(slot, v, "out of range")
				continue
			}
			p.SetAge(age)

		case SlotEducation:
			s, ok := v.(string)
			if !ok || strings.TrimSpace(s) == "" {
				reject(slot, v, "not a non-empty string")
				continue
			}
			p.SetEducation(strings.TrimSpace(s))

		case SlotOccupation:
			n, ok := asInt(v)
			if !ok || !Occupation(n).Valid() {
				reject(slot, v, "not one of 0, 1, 2, 3")
				continue
			}
			p.assignOccupation(Occupation(n))

		case SlotExperience:
			if p.Occupation == nil {
				reject(slot, v, "occupation not yet known")
				continue
			}
			if !p.Occupation.RequiresExperience() {
				p.Experience = NoExperience()
				continue
			}
			s, ok := v.(string)
			if !ok {
				reject(slot, v, "not a string")
				continue
			}
			exp := DescribedExperience(s)
			if !exp.IsDescribed() {
				reject(slot, v, "empty or placeholder value")
				continue
			}
			p.Experience = exp
		}
	}

	return rejected
}

// assignOccupation sets the occupation and restores the experience invariant:
// students and sector shifters have no experience, while the other categories keep
// a described experience if one exists and must otherwise be asked again.
func (p *Profile) assignOccupation(o Occupation) {
	p.SetOccupation(o)
	if !o.RequiresExperience() {
		p.Experience = NoExperience()
		return
	}
	if !p.Experience.IsDescribed() {
		p.Experience = Experience{}
	}
}

// asInt converts integral JSON numbers and numeric strings to int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(n)
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
