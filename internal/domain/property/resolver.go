package property

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/propquery/internal/domain"
)

// DefaultSuffix is the field suffix used by Convention when none is set.
const DefaultSuffix = "field"

// Convention resolves every name to "P:<name>.<suffix>".
type Convention struct {
	Suffix string
}

// ResolveField implements Resolver.
func (c Convention) ResolveField(name string) (string, error) {
	if name == "" {
		return "", domain.NewResolutionError(name, "empty property name")
	}
	suffix := c.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return fmt.Sprintf("P:%s.%s", name, suffix), nil
}

// Descriptor identifies how a property is stored in the search index.
type Descriptor struct {
	ID   int
	Type string // value type key, e.g. wpg, txt, num, dat
}

// NewDescriptor validates and creates a Descriptor.
func NewDescriptor(id int, typ string) (Descriptor, error) {
	if id < 0 {
		return Descriptor{}, fmt.Errorf("property id must be non-negative, got %d", id)
	}
	if typ == "" {
		return Descriptor{}, fmt.Errorf("property type is required")
	}
	return Descriptor{ID: id, Type: typ}, nil
}

// Field returns the index field for this descriptor, e.g. "P:0.wpgField".
func (d Descriptor) Field() string {
	return fmt.Sprintf("P:%d.%sField", d.ID, d.Type)
}

// Catalog is an immutable name -> Descriptor table.
type Catalog struct {
	entries map[string]Descriptor
}

// NewCatalog copies entries into a Catalog.
func NewCatalog(entries map[string]Descriptor) Catalog {
	m := make(map[string]Descriptor, len(entries))
	for k, v := range entries {
		m[k] = v
	}
	return Catalog{entries: m}
}

// Lookup returns the descriptor registered for name.
func (c Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.entries[name]
	return d, ok
}

// Len returns the number of registered properties.
func (c Catalog) Len() int { return len(c.entries) }

// Names returns the registered names in sorted order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveField implements Resolver.
func (c Catalog) ResolveField(name string) (string, error) {
	d, ok := c.entries[name]
	if !ok {
		return "", domain.NewResolutionError(name, "not in catalog")
	}
	return d.Field(), nil
}

// Chain tries resolvers in order; the first success wins.
func Chain(resolvers ...Resolver) Resolver {
	return chain(resolvers)
}

type chain []Resolver

func (c chain) ResolveField(name string) (string, error) {
	err := domain.NewResolutionError(name, "no resolvers")
	for _, r := range c {
		field, rerr := r.ResolveField(name)
		if rerr == nil {
			return field, nil
		}
		err = rerr
	}
	return "", err
}
