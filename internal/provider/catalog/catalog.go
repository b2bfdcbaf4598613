package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/polyglot/internal/domain"
)

// Constructor builds an engine. It returns a ProviderError of kind NotConfigured when
// credentials are missing and APIError when the engine cannot be reached.
type Constructor func(ctx context.Context) (domain.Engine, error)

// Entry is one registered engine: its identity and how to build it.
type Entry struct {
	Descriptor domain.Descriptor
	New        Constructor
}

// Catalog is the static, ordered list of every engine the gateway knows about.
// Registration order is the final tie-break of engine resolution.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

// New validates the entries and creates a catalog.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}

	for _, entry := range entries {
		name := entry.Descriptor.Name
		if name == "" {
			return nil, errors.New("engine name cannot be empty")
		}
		if name == domain.BestEngine {
			return nil, fmt.Errorf("engine name %q is reserved", name)
		}
		if entry.New == nil {
			return nil, fmt.Errorf("engine %s has no constructor", name)
		}
		if _, exists := c.index[name]; exists {
			return nil, fmt.Errorf("engine %s registered twice", name)
		}

		c.index[name] = len(c.entries)
		c.entries = append(c.entries, entry)
	}

	return c, nil
}

// Names returns every registered engine name in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, entry := range c.entries {
		names[i] = entry.Descriptor.Name
	}
	return names
}

// Descriptor returns the descriptor of a registered engine.
func (c *Catalog) Descriptor(name string) (domain.Descriptor, bool) {
	i, ok := c.index[name]
	if !ok {
		return domain.Descriptor{}, false
	}
	return c.entries[i].Descriptor, true
}

// Construct builds the named engine on demand.
func (c *Catalog) Construct(ctx context.Context, name string) (domain.Engine, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, &domain.UnknownProviderError{Name: name, Known: c.Names()}
	}

	engine, err := c.entries[i].New(ctx)
	if err != nil {
		return nil, err
	}
	if got := engine.Descriptor().Name; got != name {
		return nil, fmt.Errorf("engine %s constructed with mismatching name %q", name, got)
	}

	return engine, nil
}
