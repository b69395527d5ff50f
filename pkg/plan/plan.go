// Package plan provides the views.yaml plan file that describes the
// views and materialized views trellis applies to a database.
//
// The main entry point is the views.yaml file users provide to specify
// which views to create or update. A plan entry carries the view's
// definition inline or points at a .sql file; `trellis dump` emits a
// manifest of the same shape, so a dump can be applied back as a plan.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Plan represents the complete views.yaml plan file.
type Plan struct {
	// Views is the ordered list of views to apply. Order matters:
	// entries are applied first to last, so base views go before
	// views that select from them.
	Views []Entry `yaml:"views"`
}

// Entry represents configuration for a single view.
type Entry struct {
	// Name is the relation name of the view (required, unique).
	Name string `yaml:"name"`

	// Definition is the SELECT statement the view is defined as.
	// Exactly one of Definition and DefinitionFile must be set.
	Definition string `yaml:"definition,omitempty"`

	// DefinitionFile is a path to a .sql file holding the SELECT
	// statement, resolved relative to the plan file's directory.
	DefinitionFile string `yaml:"definition_file,omitempty"`

	// Materialized marks the entry as a materialized view.
	Materialized bool `yaml:"materialized,omitempty"`

	// Cascade requests cascade-safe reapplication when the view
	// already exists: dependent views dropped by the replacement are
	// recreated together with their indexes and triggers.
	Cascade bool `yaml:"cascade,omitempty"`

	// Indexes holds full CREATE INDEX statements to run after a
	// materialized view is created. Dumps of materialized views fill
	// this in so reapplying a dump restores the indexes too.
	Indexes []string `yaml:"indexes,omitempty"`
}

// Load reads a plan from a YAML file, validates it, and resolves
// definition_file references relative to the plan's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file: %w", err)
	}

	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := p.resolveDefinitions(filepath.Dir(path)); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks the plan for errors. It does not touch the file
// system; definition files are resolved separately.
func (p *Plan) Validate() error {
	if len(p.Views) == 0 {
		return fmt.Errorf("no views specified in plan")
	}

	seen := make(map[string]struct{}, len(p.Views))
	for i := range p.Views {
		if err := p.Views[i].Validate(); err != nil {
			return fmt.Errorf("view %d: %w", i+1, err)
		}
		name := p.Views[i].Name
		if _, ok := seen[name]; ok {
			return fmt.Errorf("view %d: duplicate name %q", i+1, name)
		}
		seen[name] = struct{}{}
	}

	return nil
}

// Validate checks a single plan entry.
func (e *Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("name is required")
	}

	hasDef := strings.TrimSpace(e.Definition) != ""
	hasFile := strings.TrimSpace(e.DefinitionFile) != ""
	switch {
	case hasDef && hasFile:
		return fmt.Errorf(
			"%q: definition and definition_file are mutually exclusive",
			e.Name,
		)
	case !hasDef && !hasFile:
		return fmt.Errorf(
			"%q: either definition or definition_file is required",
			e.Name,
		)
	}

	for i, idx := range e.Indexes {
		if strings.TrimSpace(idx) == "" {
			return fmt.Errorf("%q: index %d is empty", e.Name, i+1)
		}
	}

	return nil
}

// resolveDefinitions reads every definition_file into its entry's
// Definition. Relative paths are resolved against dir.
func (p *Plan) resolveDefinitions(dir string) error {
	for i := range p.Views {
		e := &p.Views[i]
		if e.DefinitionFile == "" {
			continue
		}

		path := e.DefinitionFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf(
				"view %d (%s): failed to read definition file: %w",
				i+1, e.Name, err,
			)
		}

		e.Definition = NormalizeDefinition(string(data))
		if e.Definition == "" {
			return fmt.Errorf(
				"view %d (%s): definition file %s is empty",
				i+1, e.Name, e.DefinitionFile,
			)
		}
	}

	return nil
}

// NormalizeDefinition trims surrounding whitespace and a trailing
// semicolon from a view definition. CREATE VIEW statements embed the
// definition after AS, where a terminator would end the statement
// early.
func NormalizeDefinition(def string) string {
	def = strings.TrimSpace(def)
	def = strings.TrimSuffix(def, ";")
	return strings.TrimSpace(def)
}
