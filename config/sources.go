package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/aluiziolira/go-scrape-headlines/models"
	"gopkg.in/yaml.v3"
)

type sourcesFile struct {
	Primary  *sourceSpec `yaml:"primary"`
	Fallback *sourceSpec `yaml:"fallback"`
}

type sourceSpec struct {
	Name      string         `yaml:"name"`
	URL       string         `yaml:"url"`
	Selectors []selectorSpec `yaml:"selectors"`
}

type selectorSpec struct {
	Pattern string `yaml:"pattern"`
	Kind    string `yaml:"kind"`
}

// UnmarshalYAML accepts either a bare CSS selector string or a {pattern, kind} mapping.
func (s *selectorSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.Pattern = value.Value
		return nil
	}
	type plain selectorSpec
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = selectorSpec(p)
	return nil
}

func (s sourceSpec) toSource(defaultName string) models.Source {
	name := s.Name
	if name == "" {
		name = defaultName
	}
	selectors := make([]models.Selector, 0, len(s.Selectors))
	for _, sel := range s.Selectors {
		kind := models.SelectorKind(strings.ToLower(strings.TrimSpace(sel.Kind)))
		if kind == "" {
			kind = models.SelectorCSS
		}
		selectors = append(selectors, models.Selector{Pattern: sel.Pattern, Kind: kind})
	}
	return models.Source{Name: name, URL: s.URL, Selectors: selectors}
}

// LoadSources reads a YAML sources file and replaces the sources it defines.
// A source missing from the file keeps its current value.
func (c *Config) LoadSources(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse sources file: %w", err)
	}
	if file.Primary == nil && file.Fallback == nil {
		return fmt.Errorf("sources file %q defines neither primary nor fallback", path)
	}

	if file.Primary != nil {
		c.Primary = file.Primary.toSource("primary")
	}
	if file.Fallback != nil {
		c.Fallback = file.Fallback.toSource("fallback")
	}
	return nil
}
