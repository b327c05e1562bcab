package advisor

import (
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/prompts"
	"github.com/jonathan/career-guide/internal/templates"
)

const systemPromptKey = "advisor-system"

// SystemPrompt renders the advisor's system prompt from the collected profile
// and the selected template. A nil template leaves its fields as NotProvided.
func SystemPrompt(p *profile.Profile, tmpl *templates.Template) (string, error) {
	if p == nil {
		p = profile.New()
	}
	values := p.Display()
	data := map[string]string{
		"Age":                 values[profile.SlotAge],
		"EducationBackground": values[profile.SlotEducation],
		"WorkingExperience":   values[profile.SlotExperience],
		"TemplateName":        profile.NotProvided,
		"StyleGuide":          profile.NotProvided,
		"ToolUsageGuidelines": profile.NotProvided,
	}
	if tmpl != nil {
		data["TemplateName"] = tmpl.Name
		data["StyleGuide"] = tmpl.StyleGuide
		data["ToolUsageGuidelines"] = tmpl.ToolUsageGuidelines
	}
	return prompts.Render(prompts.AdvisorFile, systemPromptKey, data)
}
