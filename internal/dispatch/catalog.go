package dispatch

import (
	"github.com/ironsheep/image-geometry-mcp/internal/features"
)

// Entry is the parameter-agnostic view of an Operation.
type Entry interface {
	Name() string
	Kinds() []features.Kind
	Supports(kind features.Kind) bool
}

// Catalog indexes operations by name. It is built once and never modified.
type Catalog struct {
	ops   map[string]Entry
	order []string
}

// NewCatalog builds a catalog. Names must be unique.
func NewCatalog(ops ...Entry) *Catalog {
	c := &Catalog{ops: make(map[string]Entry, len(ops))}
	for _, op := range ops {
		if _, dup := c.ops[op.Name()]; dup {
			panic("dispatch: duplicate operation " + op.Name())
		}
		c.ops[op.Name()] = op
		c.order = append(c.order, op.Name())
	}
	return c
}

// Lookup returns the operation with the given name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	op, ok := c.ops[name]
	return op, ok
}

// Names returns operation names in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Supports reports whether the named operation accepts kind.
func (c *Catalog) Supports(name string, kind features.Kind) bool {
	op, ok := c.ops[name]
	return ok && op.Supports(kind)
}

// Matrix returns, per operation name, the kinds it accepts.
func (c *Catalog) Matrix() map[string][]features.Kind {
	m := make(map[string][]features.Kind, len(c.ops))
	for name, op := range c.ops {
		m[name] = op.Kinds()
	}
	return m
}
