package align

import (
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// source says where an output field's value comes from.
type source struct {
	imported bool
	col      int
}

// plan is the output schema and, per output field, its source column.
type plan struct {
	schema      *dataset.Schema
	sources     []source
	transferred []string
}

// newPlan derives the output schema: the original fields in order, with
// namespace fields typed as on the imported side, followed by namespace
// fields only the imported side has.
func newPlan(namespace string, original, imported *dataset.Schema) (*plan, error) {
	p := &plan{}
	fields := make([]dataset.Field, 0, original.Len())

	for i, f := range original.Fields() {
		if f.Namespace() != namespace {
			fields = append(fields, f)
			p.sources = append(p.sources, source{col: i})
			continue
		}
		imp, j, err := imported.Require("imported", f.Name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, imp)
		p.sources = append(p.sources, source{imported: true, col: j})
		p.transferred = append(p.transferred, f.Name)
	}

	for _, f := range imported.InNamespace(namespace) {
		if original.Has(f.Name) {
			continue
		}
		j, _ := imported.Index(f.Name)
		fields = append(fields, f)
		p.sources = append(p.sources, source{imported: true, col: j})
		p.transferred = append(p.transferred, f.Name)
	}

	if len(p.transferred) == 0 {
		err := errors.NewSchemaError("imported", namespace+"/*", "no fields in the transferred namespace")
		err.Available = imported.Names()
		return nil, err
	}

	schema, err := dataset.NewSchema(fields...)
	if err != nil {
		return nil, err
	}
	p.schema = schema
	return p, nil
}

// transfer builds the output row of a pair: a copy of the original row with
// the namespace fields taken from the imported row. Neither source row is
// modified.
func (p *plan) transfer(pair Pair) dataset.Row {
	row := make(dataset.Row, len(p.sources))
	for i, s := range p.sources {
		if s.imported {
			row[i] = dataset.Clone(pair.Imported[s.col])
		} else {
			row[i] = dataset.Clone(pair.Original[s.col])
		}
	}
	return row
}
