// Package agent defines the specialist team roster tickets are routed to.
package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Agent is one specialist team. Static configuration, read-only for the
// duration of a run.
type Agent struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Specialties []string `yaml:"specialties" json:"specialties"`
}

// Roster is the ordered set of configured teams. The first entry is the
// default routing target.
type Roster struct {
	Agents []Agent `yaml:"agents"`
}

// Load reads the roster from a YAML file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read agents file: %w", err)
	}

	var r Roster
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(r.Agents) == 0 {
		return nil, fmt.Errorf("%s: no agents configured", path)
	}
	for i, a := range r.Agents {
		if a.Name == "" {
			return nil, fmt.Errorf("%s: agent %d has no name", path, i)
		}
	}
	return &r, nil
}

// Default returns the fallback team used when routing fails or returns an
// unrecognized name.
func (r *Roster) Default() Agent {
	return r.Agents[0]
}

// Contains reports whether name matches a configured team exactly.
func (r *Roster) Contains(name string) bool {
	for _, a := range r.Agents {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Names returns the configured team names in order.
func (r *Roster) Names() []string {
	names := make([]string, len(r.Agents))
	for i, a := range r.Agents {
		names[i] = a.Name
	}
	return names
}
