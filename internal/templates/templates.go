// Package templates holds the advisor persona templates and the rule that picks one
// for a completed profile.
package templates

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/schemas"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Template ids.
const (
	WorkerWithExperience    = "worker_with_experience_template"
	ReturningWorkforce      = "returning_workforce_template"
	WorkerWithoutExperience = "worker_without_experience_template"
	StudentK12              = "student_k12_template"
	StudentHigherEd         = "student_higher_ed_template"
)

// adultAge is the first age routed to the higher-education student template.
const adultAge = 18

//go:embed templates.yaml
var builtin []byte

// Template is a persona record handed to the advisor.
type Template struct {
	ID                  string `yaml:"id" json:"id" validate:"required"`
	Name                string `yaml:"name" json:"name" validate:"required"`
	Description         string `yaml:"description" json:"description"`
	StyleGuide          string `yaml:"style_guide" json:"style_guide" validate:"required"`
	ToolUsageGuidelines string `yaml:"tool_usage_guidelines" json:"tool_usage_guidelines" validate:"required"`
}

type registryFile struct {
	Default   string     `yaml:"default" validate:"required"`
	Templates []Template `yaml:"templates" validate:"required,min=1,dive"`
}

// Registry maps template ids to templates. It is read-only after loading.
type Registry struct {
	byID      map[string]*Template
	defaultID string
	logger    *zap.Logger
}

// Load parses and validates a YAML registry.
func Load(data []byte, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return nil, fmt.Errorf("invalid templates: %w", err)
	}

	r := &Registry{
		byID:      make(map[string]*Template, len(file.Templates)),
		defaultID: file.Default,
		logger:    logger,
	}
	for i := range file.Templates {
		t := file.Templates[i]
		if err := schemas.ValidateGo(schemas.CareerTemplate, t); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		if _, dup := r.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		r.byID[t.ID] = &t
	}
	if _, ok := r.byID[r.defaultID]; !ok {
		logger.Warn("default template is not registered", zap.String("default", r.defaultID))
	}
	return r, nil
}

// Builtin returns the registry compiled into the binary.
func Builtin(logger *zap.Logger) (*Registry, error) {
	return Load(builtin, logger)
}

// NewRegistry builds a registry from templates. An empty defaultID means
// StudentHigherEd.
func NewRegistry(defaultID string, logger *zap.Logger, ts ...Template) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultID == "" {
		defaultID = StudentHigherEd
	}
	r := &Registry{byID: make(map[string]*Template, len(ts)), defaultID: defaultID, logger: logger}
	for i := range ts {
		t := ts[i]
		r.byID[t.ID] = &t
	}
	return r
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.byID) }

// DefaultID returns the id used when no rule matches.
func (r *Registry) DefaultID() string { return r.defaultID }

// IDFor returns the template id the selection rule assigns to a profile,
// without consulting any registry.
func IDFor(p *profile.Profile) string {
	if p == nil || p.Occupation == nil {
		return StudentHigherEd
	}
	switch *p.Occupation {
	case profile.ExperiencedProfessional:
		return WorkerWithExperience
	case profile.ReturningOrRetired:
		return ReturningWorkforce
	case profile.SectorShifter:
		return WorkerWithoutExperience
	case profile.Student:
		if p.Age != nil && *p.Age < adultAge {
			return StudentK12
		}
		return StudentHigherEd
	default:
		return StudentHigherEd
	}
}

// Select picks the template for a profile. Ids missing from the registry fall back
// to the registry default, and a missing default falls back to the first template
// by id with a logged warning. Only an empty registry yields false.
func (r *Registry) Select(p *profile.Profile) (*Template, bool) {
	id := IDFor(p)
	if t, ok := r.byID[id]; ok {
		return t, true
	}
	if t, ok := r.byID[r.defaultID]; ok {
		r.logger.Debug("template not registered, using default",
			zap.String("template_id", id),
			zap.String("default", r.defaultID))
		return t, true
	}

	ids := r.IDs()
	if len(ids) == 0 {
		r.logger.Error("template registry is empty")
		return nil, false
	}
	r.logger.Warn("default template missing from registry, using first available",
		zap.String("template_id", id),
		zap.String("default", r.defaultID),
		zap.String("fallback", ids[0]))
	return r.byID[ids[0]], true
}

// Select is Registry.Select with a nil-safe registry.
func Select(p *profile.Profile, r *Registry) (*Template, bool) {
	if r == nil {
		return nil, false
	}
	return r.Select(p)
}
