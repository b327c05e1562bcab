// Package profile holds the structured user profile collected during elicitation,
// the rules that govern how extracted values may change it, and the correction
// interpreter that lets users revise an earlier answer.
package profile

import (
	"strconv"
	"strings"
)

// Slot names the four profile fields. The string values are the keys used in the
// model's extracted_info mapping.
type Slot string

// Profile slots.
const (
	SlotAge        Slot = "age"
	SlotEducation  Slot = "education_background"
	SlotOccupation Slot = "occupation_status"
	SlotExperience Slot = "working_experience"
)

// Slots lists every slot in collection order.
var Slots = []Slot{SlotAge, SlotEducation, SlotOccupation, SlotExperience}

// Occupation is the user's occupation category.
type Occupation int

// Occupation categories.
const (
	Student                 Occupation = 0
	SectorShifter           Occupation = 1
	ReturningOrRetired      Occupation = 2
	ExperiencedProfessional Occupation = 3
)

// Valid reports whether o is one of the four known categories.
func (o Occupation) Valid() bool {
	return o >= Student && o <= ExperiencedProfessional
}

// RequiresExperience reports whether the category must supply a described experience.
func (o Occupation) RequiresExperience() bool {
	return o == ReturningOrRetired || o == ExperiencedProfessional
}

// String returns the category label shown to users.
func (o Occupation) String() string {
	switch o {
	case Student:
		return "Student"
	case SectorShifter:
		return "Sector Shifter"
	case ReturningOrRetired:
		return "Returning or Retired Workforce"
	case ExperiencedProfessional:
		return "Experienced Professional"
	default:
		return "Unknown"
	}
}

// NotProvided is the display value of an unset slot.
const NotProvided = "Not provided"

// Profile is the mutable slot structure for one conversation. It is passive state:
// the invariants tying occupation and experience together are enforced by Apply
// and by the correction interpreter, not by the setters.
type Profile struct {
	Age                 *int        `json:"age"`
	EducationBackground *string     `json:"education_background"`
	Occupation          *Occupation `json:"occupation_status"`
	Experience          Experience  `json:"working_experience"`
}

// New returns a profile with every slot unset.
func New() *Profile {
	return &Profile{}
}

// SetAge stores an age without validation.
func (p *Profile) SetAge(age int) { p.Age = &age }

// SetEducation stores an education background without validation.
func (p *Profile) SetEducation(education string) { p.EducationBackground = &education }

// SetOccupation stores an occupation category without validation.
func (p *Profile) SetOccupation(o Occupation) { p.Occupation = &o }

// IsComplete reports whether every slot holds a usable value: an age, a non-empty
// education, a known occupation, and an experience consistent with the occupation.
func (p *Profile) IsComplete() bool {
	if p.Age == nil || !validAge(*p.Age) {
		return false
	}
	if p.EducationBackground == nil || strings.TrimSpace(*p.EducationBackground) == "" {
		return false
	}
	if p.Occupation == nil || !p.Occupation.Valid() {
		return false
	}
	if p.Occupation.RequiresExperience() {
		return p.Experience.IsDescribed()
	}
	return p.Experience.IsNone()
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	c := &Profile{Experience: p.Experience}
	if p.Age != nil {
		c.SetAge(*p.Age)
	}
	if p.EducationBackground != nil {
		c.SetEducation(*p.EducationBackground)
	}
	if p.Occupation != nil {
		c.SetOccupation(*p.Occupation)
	}
	return c
}

// Value returns the display form of a slot, NotProvided when unset.
func (p *Profile) Value(slot Slot) string {
	switch slot {
	case SlotAge:
		if p.Age != nil {
			return strconv.Itoa(*p.Age)
		}
	case SlotEducation:
		if p.EducationBackground != nil {
			return *p.EducationBackground
		}
	case SlotOccupation:
		if p.Occupation != nil {
			return strconv.Itoa(int(*p.Occupation))
		}
	case SlotExperience:
		if !p.Experience.IsUnset() {
			return p.Experience.String()
		}
	}
	return NotProvided
}

// isSet reports whether slot holds a value, whatever that value renders as.
func (p *Profile) isSet(slot Slot) bool {
	switch slot {
	case SlotAge:
		return p.Age != nil
	case SlotEducation:
		return p.EducationBackground != nil
	case SlotOccupation:
		return p.Occupation != nil
	case SlotExperience:
		return !p.Experience.IsUnset()
	}
	return false
}

func validAge(age int) bool {
	return age > 0 && age < 120
}

// Display returns the display value of every slot keyed by slot name.
func (p *Profile) Display() map[Slot]string {
	out := make(map[Slot]string, len(Slots))
	for _, s := range Slots {
		out[s] = p.Value(s)
	}
	return out
}
