package dataset

import (
	"fmt"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// InnerJoin merges right into left on the key field. The result keeps the
// left row order and the left schema, followed by the right fields the left
// side lacks. Where both sides carry a field the left value wins. Left rows
// without a right partner are dropped.
func InnerJoin(left, right *Dataset, key string) (*Dataset, error) {
	lf, li, err := left.schema.Require("left", key)
	if err != nil {
		return nil, err
	}
	_, ri, err := right.schema.Require("right", key)
	if err != nil {
		return nil, err
	}
	if lf.Type.IsVector() {
		return nil, errors.NewSchemaError("left", key, "join key must be a scalar")
	}

	// Index the right side by key, converted to the left key's type so that
	// e.g. <u8 and <i8 uids compare equal.
	byKey := make(map[any]int, right.Len())
	for i, r := range right.rows {
		k, err := lf.Type.Convert(r[ri])
		if err != nil {
			return nil, errors.NewIntegrityError("combine", fmt.Sprint(r[ri]), err.Error())
		}
		if _, dup := byKey[k]; dup {
			return nil, errors.NewIntegrityError("combine", fmt.Sprint(k), "duplicate join key on the right side")
		}
		byKey[k] = i
	}

	fields := left.schema.Fields()
	var extra []int
	for j, f := range right.schema.fields {
		if !left.schema.Has(f.Name) {
			fields = append(fields, f)
			extra = append(extra, j)
		}
	}
	schema, err := NewSchema(fields...)
	if err != nil {
		return nil, err
	}

	out := NewWithCapacity(schema, left.Len())
	for _, l := range left.rows {
		i, ok := byKey[l[li]]
		if !ok {
			continue
		}
		r := right.rows[i]
		row := make(Row, 0, len(fields))
		row = append(row, l...)
		for _, j := range extra {
			row = append(row, r[j])
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

// Combine merges a passthrough companion into the original dataset on uid.
// Both tables must have the same length and every original row must find
// its passthrough partner, so the combined length equals the original's.
func Combine(original, passthrough *Dataset) (*Dataset, error) {
	if original.Len() != passthrough.Len() {
		return nil, errors.NewIntegrityError("load", "",
			fmt.Sprintf("original has %d rows but passthrough has %d", original.Len(), passthrough.Len()))
	}
	combined, err := InnerJoin(original, passthrough, constants.FieldUID)
	if err != nil {
		return nil, err
	}
	if combined.Len() != original.Len() {
		return nil, errors.NewIntegrityError("combine", "",
			fmt.Sprintf("%d of %d original rows have no passthrough partner", original.Len()-combined.Len(), original.Len()))
	}
	return combined, nil
}
