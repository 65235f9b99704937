package csfile

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/agentstation/csutil/pkg/dataset"
)

// column is one field of a structured record plus its on-disk byte order.
type column struct {
	field dataset.Field
	order binary.ByteOrder
}

// parseDescr converts a NumPy structured descr list into columns.
func parseDescr(v any) ([]column, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("descr is %T, a structured record list is required", v)
	}
	cols := make([]column, 0, len(items))
	for _, item := range items {
		t, ok := item.(tuple)
		if !ok || len(t) < 2 || len(t) > 3 {
			return nil, fmt.Errorf("malformed descr entry %v", item)
		}
		name, ok := t[0].(string)
		if !ok {
			return nil, fmt.Errorf("unsupported field name %v", t[0])
		}
		code, ok := t[1].(string)
		if !ok {
			return nil, fmt.Errorf("field %s: nested record types are not supported", name)
		}
		typ, order, err := parseTypeCode(code)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if len(t) == 3 {
			shape, err := parseShape(t[2])
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			typ.Shape = shape
		}
		if err := typ.Validate(); err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		cols = append(cols, column{field: dataset.Field{Name: name, Type: typ}, order: order})
	}
	return cols, nil
}

// parseTypeCode parses an array-protocol type string such as "<f4" or "|S52".
func parseTypeCode(code string) (dataset.Type, binary.ByteOrder, error) {
	if len(code) < 2 {
		return dataset.Type{}, nil, fmt.Errorf("bad type code %q", code)
	}
	var order binary.ByteOrder = binary.LittleEndian
	switch code[0] {
	case '<', '|', '=':
		code = code[1:]
	case '>':
		order = binary.BigEndian
		code = code[1:]
	}
	if len(code) < 2 {
		return dataset.Type{}, nil, fmt.Errorf("bad type code %q", code)
	}
	size, err := strconv.Atoi(code[1:])
	if err != nil {
		return dataset.Type{}, nil, fmt.Errorf("bad type code %q", code)
	}
	var kind dataset.Kind
	switch code[0] {
	case 'i':
		kind = dataset.KindInt
	case 'u':
		kind = dataset.KindUint
	case 'f':
		kind = dataset.KindFloat
	case 'S':
		kind = dataset.KindBytes
	default:
		return dataset.Type{}, nil, fmt.Errorf("unsupported type code %q", code)
	}
	return dataset.Type{Kind: kind, Size: size}, order, nil
}

func parseShape(v any) ([]int, error) {
	switch s := v.(type) {
	case int:
		return []int{s}, nil
	case tuple:
		shape := make([]int, len(s))
		for i, d := range s {
			n, ok := d.(int)
			if !ok {
				return nil, fmt.Errorf("bad shape %v", v)
			}
			shape[i] = n
		}
		return shape, nil
	}
	return nil, fmt.Errorf("bad shape %v", v)
}

// formatDescr renders a schema as a NumPy descr list.
func formatDescr(schema *dataset.Schema) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range schema.Fields() {
		if i > 0 {
			b.WriteString(", ")
		}
		plain := f.Type
		plain.Shape = nil
		fmt.Fprintf(&b, "(%s, '%s'", quote(f.Name), plain)
		if f.Type.IsVector() {
			b.WriteString(", " + dataset.ShapeString(f.Type.Shape))
		}
		b.WriteByte(')')
	}
	b.WriteByte(']')
	return b.String()
}

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
