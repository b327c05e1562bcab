package advisor

import (
	"testing"

	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt(t *testing.T) {
	p := profile.New()
	p.SetAge(34)
	p.SetEducation("BSc Electrical Engineering")
	p.SetOccupation(profile.ExperiencedProfessional)
	p.Experience = profile.DescribedExperience("6 years in grid operations")

	tmpl := &templates.Template{
		ID:                  templates.WorkerWithExperience,
		Name:                "Experienced Professional Development Path",
		StyleGuide:          "Be concise and technical.",
		ToolUsageGuidelines: "Use LinkedInJobSearcher for senior roles.",
	}

	got, err := SystemPrompt(p, tmpl)

	require.NoError(t, err)
	assert.Contains(t, got, "- Age: 34")
	assert.Contains(t, got, "- Education level: BSc Electrical Engineering")
	assert.Contains(t, got, "- Occupation status: Experienced Professional Development Path")
	assert.Contains(t, got, "- Clean energy working experience: 6 years in grid operations")
	assert.Contains(t, got, "Be concise and technical.")
	assert.Contains(t, got, "Use LinkedInJobSearcher for senior roles.")
	assert.NotContains(t, got, "{{.")
}

func TestSystemPrompt_Empty(t *testing.T) {
	got, err := SystemPrompt(nil, nil)

	require.NoError(t, err)
	assert.Contains(t, got, "- Age: "+profile.NotProvided)
	assert.Contains(t, got, "- Occupation status: "+profile.NotProvided)
	assert.NotContains(t, got, "{{.")
}
