package observability

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jonathan/career-guide/internal/knowledge"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/search"
	"github.com/jonathan/career-guide/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	prof := profile.New()
	prof.SetAge(45)
	prof.SetEducation("Diploma in HVAC")
	prof.SetOccupation(profile.ExperiencedProfessional)
	prof.Experience = profile.DescribedExperience("10 years installing heat pumps")

	p.PrintProfile(prof)
	output := buf.String()

	assert.Contains(t, output, "USER PROFILE")
	assert.Contains(t, output, "45")
	assert.Contains(t, output, "Diploma in HVAC")
	assert.Contains(t, output, "3 (Experienced Professional)")
	assert.Contains(t, output, "10 years installing heat pumps")
	assert.Contains(t, output, "Status: complete")
}

func TestPrintProfile_Incomplete(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile(profile.New())

	output := buf.String()
	assert.Contains(t, output, profile.NotProvided)
	assert.Contains(t, output, "Status: incomplete")
}

func TestPrintProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCorrections(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCorrections([]profile.CorrectionEntry{
		{Slot: profile.SlotAge, OldValue: "25", NewValue: "26", TurnIndex: 3},
	})
	output := buf.String()

	assert.Contains(t, output, "CORRECTIONS (1)")
	assert.Contains(t, output, "[turn 3] Changed age from 25 to 26")
}

func TestPrintCorrections_ShowsNewest(t *testing.T) {
	var buf bytes.Buffer
	var entries []profile.CorrectionEntry
	for i := 0; i < 7; i++ {
		entries = append(entries, profile.CorrectionEntry{Slot: profile.SlotAge, OldValue: fmt.Sprint(20 + i), NewValue: fmt.Sprint(21 + i), TurnIndex: i})
	}

	NewPrinter(&buf).PrintCorrections(entries)
	output := buf.String()

	assert.NotContains(t, output, "[turn 0]")
	assert.Contains(t, output, "[turn 6]")
	assert.Contains(t, output, "... and 2 earlier")
}

func TestPrintCorrections_None(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCorrections(nil)

	assert.Contains(t, buf.String(), "No corrections made")
}

func TestPrintTemplate(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintTemplate(&templates.Template{
		ID:          templates.StudentK12,
		Name:        "K-12 STEM Education Path",
		Description: "For school students exploring clean energy.",
	})

	output := buf.String()
	assert.Contains(t, output, "SELECTED TEMPLATE")
	assert.Contains(t, output, templates.StudentK12)
	assert.Contains(t, output, "K-12 STEM Education Path")
}

func TestPrintTemplates(t *testing.T) {
	r, err := templates.Builtin(nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf).PrintTemplates(r)
	output := buf.String()

	assert.Contains(t, output, "TEMPLATES (5)")
	assert.Contains(t, output, "* "+templates.StudentHigherEd)
	assert.Contains(t, output, "  "+templates.StudentK12)
}

func TestPrintPassages(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPassages([]knowledge.Passage{{Index: 4, Content: "Wind   technicians\nrepair turbines.", Score: 2.5}})

	output := buf.String()
	assert.Contains(t, output, "RETRIEVED PASSAGES (1)")
	assert.Contains(t, output, "[chunk 4, score 2.500]")
	assert.Contains(t, output, "Wind technicians repair turbines.")

	buf.Reset()
	NewPrinter(&buf).PrintPassages(nil)
	assert.Contains(t, buf.String(), knowledge.NoResults)
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRecords("JOB LISTINGS", []search.Record{
		{Title: "Solar Installer", Company: "SunCo", Location: "Denver, CO", Link: "https://j/1"},
	})

	output := buf.String()
	assert.Contains(t, output, "JOB LISTINGS (1)")
	assert.Contains(t, output, "SunCo, Denver, CO")
}

func TestPrintBox_LongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	prof := profile.New()
	prof.SetEducation("A Very Long Education Background That Should Be Truncated To Fit The Box")
	p.PrintProfile(prof)
	output := buf.String()

	assert.True(t, strings.Contains(output, "┌"))
	assert.True(t, strings.Contains(output, "└"))
	assert.Contains(t, output, "...")
	for _, line := range strings.Split(strings.TrimRight(output, "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
}
