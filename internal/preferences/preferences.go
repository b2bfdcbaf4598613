package preferences

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/polyglot/internal/domain"
)

// Wildcard is the reserved language key matching any language.
const Wildcard = "xx"

// Table maps a source language to a target language to an ordered engine list.
type Table map[string]map[string][]string

// Preferences is a validated preference table.
type Preferences struct {
	Table   Table
	Default []string
}

// Load reads and validates the preference file at path against the registered engine names.
func Load(path string, known []string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read language preferences %s: %w", path, err)
	}

	return Parse(data, known)
}

// Parse validates raw YAML preferences against the registered engine names.
func Parse(data []byte, known []string) (*Preferences, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfigSyntax, err)
	}

	ordering, ok := table[Wildcard][Wildcard]
	if !ok {
		return nil, domain.ErrConfigMissingDefault
	}

	if missing := missingNames(known, ordering); len(missing) > 0 {
		return nil, fmt.Errorf("%w - missing %s", domain.ErrConfigIncomplete, strings.Join(missing, ", "))
	}

	if err := checkKnown(table, known); err != nil {
		return nil, err
	}

	return &Preferences{
		Table:   table,
		Default: ordering,
	}, nil
}

// missingNames returns the known names absent from ordering, in registration order.
func missingNames(known, ordering []string) []string {
	present := make(map[string]struct{}, len(ordering))
	for _, name := range ordering {
		present[name] = struct{}{}
	}

	var missing []string
	for _, name := range known {
		if _, ok := present[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

func checkKnown(table Table, known []string) error {
	registered := make(map[string]struct{}, len(known))
	for _, name := range known {
		registered[name] = struct{}{}
	}

	for from, targets := range table {
		for to, ordering := range targets {
			for _, name := range ordering {
				if _, ok := registered[name]; !ok {
					return fmt.Errorf("%w: %q in %s.%s", domain.ErrConfigUnknownEngine, name, from, to)
				}
			}
		}
	}
	return nil
}
