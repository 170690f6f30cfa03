// Package harness runs end-to-end conformance scenarios: YAML files
// describing input documents and a pipeline configuration, with the
// surviving output compared against golden files.
package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a set of documents pushed
// through the batch pipeline with the given targets and scrub list.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Documents are the inputs, in processing order.
	Documents []DocumentSpec `yaml:"documents"`

	// Targets prunes each document to subtrees containing these leaf
	// types. Empty disables pruning.
	Targets []string `yaml:"targets,omitempty"`

	// ScrubFields are dropped from every leaf before pruning.
	ScrubFields []string `yaml:"scrub_fields,omitempty"`
}

// DocumentSpec is one input document.
type DocumentSpec struct {
	ID   string `yaml:"id"`
	Text string `yaml:"text"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadScenarios loads every *.yaml scenario under dir, sorted by file
// name for deterministic test order.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Documents) == 0 {
		return fmt.Errorf("documents list is required and must be non-empty")
	}
	for i, doc := range s.Documents {
		if doc.ID == "" {
			return fmt.Errorf("documents[%d]: id is required", i)
		}
		if doc.Text == "" {
			return fmt.Errorf("documents[%d]: text is required", i)
		}
	}
	return nil
}
