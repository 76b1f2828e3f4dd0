// Package schemafile loads model schemas from YAML or JSON documents.
//
// A file holds one model per YAML document, or a JSON/YAML list of them:
//
//	name: Person
//	extends: Thing
//	statics: {"@context": "http://schema.org/"}
//	properties:
//	  name: {type: string, label: Name, rules: [required]}
//	  age: {type: number, rules: [{name: number, min: 0, max: 150}]}
//
// Property order follows the file. A property given as a bare string is
// shorthand for its type.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/codemix/modeling"
	"github.com/codemix/modeling/casting"
	"github.com/codemix/modeling/obligations"
	"github.com/codemix/modeling/validating"
)

// Set is the result of a load: compiled models keyed by name, in file
// order.
type Set struct {
	order  []string
	models map[string]*modeling.Model
}

// Get returns the model called name.
func (s *Set) Get(name string) (*modeling.Model, bool) {
	m, ok := s.models[name]
	return m, ok
}

// Names lists the loaded models in file order.
func (s *Set) Names() []string { return append([]string(nil), s.order...) }

// Len is the number of loaded models.
func (s *Set) Len() int { return len(s.order) }

// Option configures a load.
type Option func(*loader)

// WithParents makes models available to extends without being part of the
// file.
func WithParents(models ...*modeling.Model) Option {
	return func(l *loader) {
		for _, m := range models {
			if m != nil {
				l.external[m.Name()] = m
			}
		}
	}
}

// WithCastRegistry compiles the loaded models against r.
func WithCastRegistry(r *casting.Registry) Option {
	return func(l *loader) { l.opts = append(l.opts, modeling.WithCastRegistry(r)) }
}

// WithCatalogue compiles the loaded models against c.
func WithCatalogue(c *validating.Catalogue) Option {
	return func(l *loader) { l.opts = append(l.opts, modeling.WithCatalogue(c)) }
}

// LoadFS reads and loads the file at name.
func LoadFS(fsys fs.FS, name string, opts ...Option) (*Set, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	set, err := Load(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return set, nil
}

// Load parses data and compiles every model it declares.
func Load(data []byte, opts ...Option) (*Set, error) {
	l := &loader{
		external: map[string]*modeling.Model{},
		docs:     map[string]*document{},
		state:    map[string]int{},
		set:      &Set{models: map[string]*modeling.Model{}},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if err := l.read(data); err != nil {
		return nil, err
	}
	for _, name := range l.set.order {
		if _, err := l.compile(name); err != nil {
			return nil, err
		}
	}
	return l.set, nil
}

type loader struct {
	external map[string]*modeling.Model
	opts     []modeling.Option
	docs     map[string]*document
	// state is 1 while a model is compiling and 2 once done.
	state map[string]int
	set   *Set
}

func (l *loader) read(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	for {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("schemafile: %w", err)
		}
		if len(node.Content) == 0 {
			continue
		}
		root := node.Content[0]
		switch root.Kind {
		case yaml.MappingNode:
			if err := l.add(root); err != nil {
				return err
			}
		case yaml.SequenceNode:
			for _, item := range root.Content {
				if err := l.add(item); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("schemafile: line %d: expected a model document", root.Line)
		}
	}
}

func (l *loader) add(n *yaml.Node) error {
	doc, err := parseDocument(n)
	if err != nil {
		return err
	}
	if _, dup := l.docs[doc.name]; dup {
		return &obligations.PreconditionError{Message: fmt.Sprintf("line %d: duplicate model %s", n.Line, doc.name)}
	}
	l.docs[doc.name] = doc
	l.set.order = append(l.set.order, doc.name)
	return nil
}

// compile builds name after its parent chain.
func (l *loader) compile(name string) (*modeling.Model, error) {
	if m, ok := l.set.models[name]; ok {
		return m, nil
	}
	doc, ok := l.docs[name]
	if !ok {
		if m, ok := l.external[name]; ok {
			return m, nil
		}
		return nil, &obligations.PreconditionError{Message: fmt.Sprintf("unknown model: %s", name)}
	}
	if l.state[name] == 1 {
		return nil, &obligations.PreconditionError{Message: fmt.Sprintf("line %d: inheritance cycle through %s", doc.line, name)}
	}
	l.state[name] = 1

	opts := append([]modeling.Option{modeling.WithStatics(doc.statics)}, l.opts...)
	var (
		m   *modeling.Model
		err error
	)
	if doc.extends != "" {
		parent, perr := l.compile(doc.extends)
		if perr != nil {
			return nil, fmt.Errorf("schemafile: %s extends %s: %w", name, doc.extends, perr)
		}
		m, err = parent.Extend(name, doc.schema, opts...)
	} else {
		m, err = modeling.Create(name, doc.schema, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("schemafile: line %d: %w", doc.line, err)
	}
	l.state[name] = 2
	l.set.models[name] = m
	return m, nil
}
