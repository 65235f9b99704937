package dataset

import (
	"fmt"
	"strings"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// Field is a named, typed column.
type Field struct {
	Name string
	Type Type
}

// Namespace returns the group part of the field name.
func (f Field) Namespace() string {
	return Namespace(f.Name)
}

// Namespace returns the group part of a "group/attribute" field name, or the
// whole name when it has no separator.
func Namespace(name string) string {
	if i := strings.Index(name, constants.NamespaceSeparator); i >= 0 {
		return name[:i]
	}
	return name
}

// Schema is an ordered set of uniquely named fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema creates a schema, rejecting duplicate names and invalid types.
func NewSchema(fields ...Field) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if err := s.add(f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. Intended for tests and
// static schemas.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) add(f Field) error {
	if f.Name == "" {
		return errors.NewValidationError("name", f.Name, "field name cannot be empty")
	}
	if _, dup := s.index[f.Name]; dup {
		return errors.NewValidationError("name", f.Name, "duplicate field name")
	}
	if err := f.Type.Validate(); err != nil {
		return fmt.Errorf("field %s: %w", f.Name, err)
	}
	s.index[f.Name] = len(s.fields)
	s.fields = append(s.fields, f)
	return nil
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the i-th field.
func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

// Fields returns a copy of the fields in order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the named field.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Lookup returns the named field.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Has reports whether the schema has the named field.
func (s *Schema) Has(name string) bool {
	_, ok := s.index[name]
	return ok
}

// InNamespace returns the fields whose namespace is ns, in schema order.
func (s *Schema) InNamespace(ns string) []Field {
	var out []Field
	for _, f := range s.fields {
		if f.Namespace() == ns {
			out = append(out, f)
		}
	}
	return out
}

// Require returns the named field or a SchemaError naming the dataset.
func (s *Schema) Require(dataset, name string) (Field, int, error) {
	i, ok := s.index[name]
	if !ok {
		err := errors.NewSchemaError(dataset, name, "field is missing")
		err.Available = s.Names()
		return Field{}, -1, err
	}
	return s.fields[i], i, nil
}

// Equal reports whether two schemas have the same fields in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i, f := range s.fields {
		g := o.fields[i]
		if f.Name != g.Name || !f.Type.Equal(g.Type) {
			return false
		}
	}
	return true
}
