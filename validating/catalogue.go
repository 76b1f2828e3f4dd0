package validating

import (
	"sort"
	"sync"

	"github.com/codemix/modeling/obligations"
)

// Factory creates a configured validator.
type Factory func(props Properties) (Validator, error)

// Catalogue maps validator names to factories. Defining an existing name
// replaces it.
type Catalogue struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewCatalogue returns a catalogue holding the built-in validator kinds.
func NewCatalogue() *Catalogue {
	c := &Catalogue{factories: make(map[string]Factory, len(builtins))}
	for _, b := range builtins {
		c.factories[b.name] = b.factory
	}
	return c
}

// Define registers f under name.
func (c *Catalogue) Define(name string, f Factory) *Catalogue {
	obligations.MustPrecondition(name != "", "Validator name must be specified.")
	obligations.MustPrecondition(f != nil, "Validator factory must be specified.")
	c.mu.Lock()
	c.factories[name] = f
	c.mu.Unlock()
	return c
}

// DefineFunc registers a validator backed by fn. fn returns nil for valid
// values; any other error becomes the violation message.
func (c *Catalogue) DefineFunc(name string, fn func(any) error) *Catalogue {
	obligations.MustPrecondition(fn != nil, "Validator function must be specified.")
	return c.Define(name, func(Properties) (Validator, error) {
		return funcValidator{kind: name, fn: fn}, nil
	})
}

// Create instantiates the validator registered under name.
func (c *Catalogue) Create(name string, props Properties) (Validator, error) {
	c.mu.RLock()
	f, ok := c.factories[name]
	c.mu.RUnlock()
	if err := obligations.Preconditionf(ok, "Unknown validator: %s", name); err != nil {
		return nil, err
	}
	if props == nil {
		props = Properties{}
	}
	return f(props)
}

// Has reports whether name is registered.
func (c *Catalogue) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.factories[name]
	return ok
}

// Names lists registered names in sorted order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	names := make([]string, 0, len(c.factories))
	for n := range c.factories {
		names = append(names, n)
	}
	c.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Build resolves a rule into a validator.
func (c *Catalogue) Build(r Rule) (Validator, error) {
	if r.Func != nil {
		kind := r.Name
		if kind == "" {
			kind = "inline"
		}
		return funcValidator{kind: kind, fn: r.Func}, nil
	}
	if err := obligations.Precondition(r.Name != "", "Validator name must be specified."); err != nil {
		return nil, err
	}
	return c.Create(r.Name, r.Config)
}

// Default is the process-wide catalogue.
var Default = NewCatalogue()

// Define registers f on the Default catalogue.
func Define(name string, f Factory) *Catalogue { return Default.Define(name, f) }

// DefineFunc registers fn on the Default catalogue.
func DefineFunc(name string, fn func(any) error) *Catalogue { return Default.DefineFunc(name, fn) }

// Create instantiates a validator from the Default catalogue.
func Create(name string, props Properties) (Validator, error) { return Default.Create(name, props) }

// ForDescriptor compiles field rules against the Default catalogue.
func ForDescriptor(field string, rules []Rule) (FieldFunc, error) {
	return Default.ForDescriptor(field, rules)
}

// ForDescriptors compiles object rules against the Default catalogue.
func ForDescriptors(fields []FieldRules) (ObjectFunc, error) {
	return Default.ForDescriptors(fields)
}
