package dataset

import (
	"fmt"

	"github.com/agentstation/csutil/pkg/errors"
)

// Row is one record, aligned with its dataset's schema.
type Row []any

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for i, v := range r {
		out[i] = Clone(v)
	}
	return out
}

// Dataset is an ordered sequence of rows sharing one schema.
type Dataset struct {
	schema *Schema
	rows   []Row
}

// New creates an empty dataset.
func New(schema *Schema) *Dataset {
	return &Dataset{schema: schema}
}

// NewWithCapacity creates an empty dataset with room for n rows.
func NewWithCapacity(schema *Schema, n int) *Dataset {
	return &Dataset{schema: schema, rows: make([]Row, 0, n)}
}

// Schema returns the dataset's schema.
func (d *Dataset) Schema() *Schema {
	return d.schema
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Row returns the i-th row. The row is shared, not copied.
func (d *Dataset) Row(i int) Row {
	return d.rows[i]
}

// Rows returns the underlying rows.
func (d *Dataset) Rows() []Row {
	return d.rows
}

// Append validates the row against the schema and appends it.
func (d *Dataset) Append(row Row) error {
	if len(row) != d.schema.Len() {
		return errors.NewValidationError("row", len(row),
			fmt.Sprintf("row has %d values, schema has %d fields", len(row), d.schema.Len()))
	}
	for i, v := range row {
		f := d.schema.Field(i)
		if err := f.Type.Check(v); err != nil {
			return errors.NewValidationError(f.Name, v, err.Error())
		}
	}
	d.rows = append(d.rows, row)
	return nil
}

// Value returns the named field of the i-th row.
func (d *Dataset) Value(i int, name string) (any, error) {
	j, ok := d.schema.Index(name)
	if !ok {
		return nil, errors.NewNotFoundError("field", name)
	}
	return d.rows[i][j], nil
}

// Column returns every row's value of the named field.
func (d *Dataset) Column(name string) ([]any, error) {
	j, ok := d.schema.Index(name)
	if !ok {
		return nil, errors.NewNotFoundError("field", name)
	}
	col := make([]any, len(d.rows))
	for i, r := range d.rows {
		col[i] = r[j]
	}
	return col, nil
}

// Floats returns a numeric scalar column widened to float64.
func (d *Dataset) Floats(name string) ([]float64, error) {
	f, j, err := d.schema.Require("input", name)
	if err != nil {
		return nil, err
	}
	if f.Type.IsVector() || f.Type.Kind == KindBytes {
		return nil, errors.NewSchemaError("input", name, fmt.Sprintf("%s is not a numeric scalar", f.Type))
	}
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i], _ = AsFloat64(r[j])
	}
	return out, nil
}

// Select returns a new dataset holding the rows at the given positions, in
// that order. Rows are shared with d.
func (d *Dataset) Select(indices []int) *Dataset {
	out := NewWithCapacity(d.schema, len(indices))
	for _, i := range indices {
		out.rows = append(out.rows, d.rows[i])
	}
	return out
}

// Filter returns a new dataset with the rows for which keep returns true.
func (d *Dataset) Filter(keep func(Row) bool) *Dataset {
	out := New(d.schema)
	for _, r := range d.rows {
		if keep(r) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}
