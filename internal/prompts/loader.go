// Package prompts holds the model prompts used by the elicitation dialogue and the
// advisor. Each embedded JSON file maps a prompt key to its text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"slices"
	"strings"
	"sync"
)

// Prompt files.
const (
	ElicitationFile = "elicitation.json"
	AdvisorFile     = "advisor.json"
)

//go:embed *.json
var promptFiles embed.FS

type library map[string]map[string]string

// loadLibrary parses every embedded file on first use.
var loadLibrary = sync.OnceValues(func() (library, error) {
	names, err := fs.Glob(promptFiles, "*.json")
	if err != nil {
		return nil, err
	}
	lib := make(library, len(names))
	for _, name := range names {
		raw, err := promptFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var entries map[string]string
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib[name] = entries
	}
	return lib, nil
})

func file(filename string) (map[string]string, error) {
	lib, err := loadLibrary()
	if err != nil {
		return nil, err
	}
	entries, ok := lib[filename]
	if !ok {
		return nil, fmt.Errorf("failed to read prompt file %s: not embedded", filename)
	}
	return entries, nil
}

// Get returns the prompt stored under key in filename.
func Get(filename, key string) (string, error) {
	entries, err := file(filename)
	if err != nil {
		return "", err
	}
	text, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for prompts required at startup. It panics on a missing prompt.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return text
}

// Format substitutes {{.Key}} placeholders with values from data in a single pass,
// so substituted values are never expanded again. Unknown placeholders stay as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render loads a prompt and fills its placeholders.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	entries, err := file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys, nil
}
