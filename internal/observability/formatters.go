// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/career-guide/internal/knowledge"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/search"
	"github.com/jonathan/career-guide/internal/templates"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// snippetLength caps one-line previews of long text
	snippetLength = 120
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, inner))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes.
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) > snippetLength {
		return string([]rune(s)[:snippetLength-3]) + "..."
	}
	return s
}

// PrintProfile outputs the collected profile slot by slot.
func (p *Printer) PrintProfile(prof *profile.Profile) {
	if prof == nil {
		return
	}

	var sb strings.Builder
	values := prof.Display()
	sb.WriteString(fmt.Sprintf("Age:        %s\n", values[profile.SlotAge]))
	sb.WriteString(fmt.Sprintf("Education:  %s\n", values[profile.SlotEducation]))
	occupation := values[profile.SlotOccupation]
	if prof.Occupation != nil {
		occupation = fmt.Sprintf("%s (%s)", occupation, prof.Occupation.String())
	}
	sb.WriteString(fmt.Sprintf("Occupation: %s\n", occupation))
	sb.WriteString(fmt.Sprintf("Experience: %s\n", values[profile.SlotExperience]))
	sb.WriteString("\n")
	if prof.IsComplete() {
		sb.WriteString("Status: complete\n")
	} else {
		sb.WriteString("Status: incomplete\n")
	}

	p.printBox("USER PROFILE", sb.String())
}

// PrintCorrections outputs the correction log, newest last.
func (p *Printer) PrintCorrections(entries []profile.CorrectionEntry) {
	if len(entries) == 0 {
		p.printBox("CORRECTIONS", "No corrections made")
		return
	}

	var sb strings.Builder
	count := min(len(entries), maxItemsToShow)
	for _, e := range entries[len(entries)-count:] {
		sb.WriteString(fmt.Sprintf("  • [turn %d] %s\n", e.TurnIndex, e.String()))
	}
	if len(entries) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d earlier\n", len(entries)-maxItemsToShow))
	}

	p.printBox(fmt.Sprintf("CORRECTIONS (%d)", len(entries)), sb.String())
}

// PrintTemplate outputs the selected persona template.
func (p *Printer) PrintTemplate(tmpl *templates.Template) {
	if tmpl == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:   %s\n", tmpl.ID))
	sb.WriteString(fmt.Sprintf("Name: %s\n", tmpl.Name))
	if tmpl.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(snippet(tmpl.Description))
		sb.WriteString("\n")
	}

	p.printBox("SELECTED TEMPLATE", sb.String())
}

// PrintTemplates lists registered templates, marking the default.
func (p *Printer) PrintTemplates(r *templates.Registry) {
	if r == nil {
		return
	}

	var sb strings.Builder
	for _, id := range r.IDs() {
		tmpl, _ := r.Get(id)
		marker := " "
		if id == r.DefaultID() {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n    %s\n", marker, id, tmpl.Name))
	}

	p.printBox(fmt.Sprintf("TEMPLATES (%d)", r.Len()), sb.String())
}

// PrintPassages outputs retrieved knowledge passages with their scores.
func (p *Printer) PrintPassages(passages []knowledge.Passage) {
	if len(passages) == 0 {
		p.printBox("RETRIEVED PASSAGES", knowledge.NoResults)
		return
	}

	var sb strings.Builder
	for i, ps := range passages {
		sb.WriteString(fmt.Sprintf("%d. [chunk %d, score %.3f]\n   %s\n", i+1, ps.Index, ps.Score, snippet(ps.Content)))
	}

	p.printBox(fmt.Sprintf("RETRIEVED PASSAGES (%d)", len(passages)), sb.String())
}

// PrintRecords outputs search records under a title.
func (p *Printer) PrintRecords(title string, records []search.Record) {
	if len(records) == 0 {
		p.printBox(title, "No results")
		return
	}

	var sb strings.Builder
	for i, r := range records {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, r.Title))
		if r.Company != "" {
			sb.WriteString(fmt.Sprintf("   %s, %s\n", r.Company, r.Location))
		}
		sb.WriteString(fmt.Sprintf("   %s\n", r.Link))
	}

	p.printBox(fmt.Sprintf("%s (%d)", title, len(records)), sb.String())
}
