// Package csfile reads and writes cryoSPARC .cs tables. A .cs file is a
// NumPy .npy file holding a one-dimensional structured array; csfile maps
// its record descr onto a dataset.Schema and its records onto rows.
//
// Files ending in .zst or .lz4 are transparently (de)compressed.
package csfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

const (
	magic     = "\x93NUMPY"
	alignment = 64
)

// Header describes a table without its records.
type Header struct {
	Major  byte
	Minor  byte
	Schema *dataset.Schema
	Rows   int

	columns []column
}

// RowWidth returns the byte width of one record.
func (h *Header) RowWidth() int {
	n := 0
	for _, c := range h.columns {
		n += c.field.Type.Width()
	}
	return n
}

// ReadHeader reads the preamble and header dict.
func ReadHeader(r io.Reader) (*Header, error) {
	pre := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, fmt.Errorf("reading preamble: %w", err)
	}
	if string(pre[:len(magic)]) != magic {
		return nil, errors.New("not a NumPy file (bad magic)")
	}
	h := &Header{Major: pre[len(magic)], Minor: pre[len(magic)+1]}

	var size int
	switch h.Major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("reading header length: %w", err)
		}
		size = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("reading header length: %w", err)
		}
		size = int(n)
	default:
		return nil, fmt.Errorf("unsupported format version %d.%d", h.Major, h.Minor)
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	v, err := parseLiteral(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parsing header: %w", err)
	}
	dict, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("header is not a dict")
	}

	// fortran_order is irrelevant for one-dimensional arrays.
	shape, err := parseShape(dict["shape"])
	if err != nil {
		return nil, err
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("expected a one-dimensional array, got shape %v", shape)
	}
	h.Rows = shape[0]

	h.columns, err = parseDescr(dict["descr"])
	if err != nil {
		return nil, err
	}
	fields := make([]dataset.Field, len(h.columns))
	for i, c := range h.columns {
		fields[i] = c.field
	}
	if h.Schema, err = dataset.NewSchema(fields...); err != nil {
		return nil, err
	}
	return h, nil
}

// Read decodes a whole table.
func Read(r io.Reader) (*dataset.Dataset, error) {
	br := bufio.NewReader(r)
	h, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}

	d := dataset.NewWithCapacity(h.Schema, h.Rows)
	buf := make([]byte, h.RowWidth())
	for i := range h.Rows {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("reading record %d of %d: %w", i, h.Rows, err)
		}
		row, err := decodeRow(h.columns, buf)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := d.Append(row); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return d, nil
}

// Write encodes a table as a little-endian .npy file.
func Write(w io.Writer, d *dataset.Dataset) error {
	schema := d.Schema()
	header := fmt.Sprintf("{'descr': %s, 'fortran_order': False, 'shape': (%d,), }",
		formatDescr(schema), d.Len())

	var pre bytes.Buffer
	pre.WriteString(magic)
	lenWidth := 2
	version := []byte{1, 0}
	if len(header)+len(magic)+2+lenWidth+1 > math.MaxUint16 {
		lenWidth = 4
		version = []byte{2, 0}
	}
	pre.Write(version)

	total := len(magic) + 2 + lenWidth + len(header) + 1
	pad := (alignment - total%alignment) % alignment
	header += strings.Repeat(" ", pad) + "\n"
	if lenWidth == 2 {
		_ = binary.Write(&pre, binary.LittleEndian, uint16(len(header)))
	} else {
		_ = binary.Write(&pre, binary.LittleEndian, uint32(len(header)))
	}
	pre.WriteString(header)

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(pre.Bytes()); err != nil {
		return err
	}

	cols := make([]column, schema.Len())
	width := 0
	for i, f := range schema.Fields() {
		cols[i] = column{field: f, order: binary.LittleEndian}
		width += f.Type.Width()
	}
	buf := make([]byte, width)
	for i, row := range d.Rows() {
		if err := encodeRow(cols, row, buf); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func decodeRow(cols []column, buf []byte) (dataset.Row, error) {
	row := make(dataset.Row, len(cols))
	off := 0
	for i, c := range cols {
		t := c.field.Type
		w := t.Width()
		b := buf[off : off+w]
		off += w

		if t.Kind == dataset.KindBytes {
			row[i] = string(bytes.TrimRight(b, "\x00"))
			continue
		}
		if !t.IsVector() {
			row[i] = decodeScalar(t, c.order, b)
			continue
		}
		n := t.Elems()
		switch t.Kind {
		case dataset.KindInt:
			v := make([]int64, n)
			for j := range v {
				v[j] = decodeScalar(t, c.order, b[j*t.Size:]).(int64)
			}
			row[i] = v
		case dataset.KindUint:
			v := make([]uint64, n)
			for j := range v {
				v[j] = decodeScalar(t, c.order, b[j*t.Size:]).(uint64)
			}
			row[i] = v
		case dataset.KindFloat:
			v := make([]float64, n)
			for j := range v {
				v[j] = decodeScalar(t, c.order, b[j*t.Size:]).(float64)
			}
			row[i] = v
		default:
			return nil, fmt.Errorf("field %s: unsupported type %s", c.field.Name, t)
		}
	}
	return row, nil
}

func decodeScalar(t dataset.Type, order binary.ByteOrder, b []byte) any {
	var bits uint64
	switch t.Size {
	case 1:
		bits = uint64(b[0])
	case 2:
		bits = uint64(order.Uint16(b))
	case 4:
		bits = uint64(order.Uint32(b))
	case 8:
		bits = order.Uint64(b)
	}
	switch t.Kind {
	case dataset.KindInt:
		shift := 64 - 8*uint(t.Size)
		return int64(bits<<shift) >> shift
	case dataset.KindUint:
		return bits
	default:
		if t.Size == 4 {
			return float64(math.Float32frombits(uint32(bits)))
		}
		return math.Float64frombits(bits)
	}
}

func encodeRow(cols []column, row dataset.Row, buf []byte) error {
	if len(row) != len(cols) {
		return fmt.Errorf("row has %d values, schema has %d fields", len(row), len(cols))
	}
	off := 0
	for i, c := range cols {
		t := c.field.Type
		w := t.Width()
		b := buf[off : off+w]
		off += w

		var err error
		switch v := row[i].(type) {
		case string:
			if t.Kind != dataset.KindBytes || len(v) > t.Size {
				return fmt.Errorf("field %s: cannot store %q as %s", c.field.Name, v, t)
			}
			clear(b)
			copy(b, v)
		case []int64:
			for j, e := range v {
				if err = encodeScalar(t, c.order, b[j*t.Size:], e); err != nil {
					break
				}
			}
		case []uint64:
			for j, e := range v {
				if err = encodeScalar(t, c.order, b[j*t.Size:], e); err != nil {
					break
				}
			}
		case []float64:
			for j, e := range v {
				if err = encodeScalar(t, c.order, b[j*t.Size:], e); err != nil {
					break
				}
			}
		default:
			err = encodeScalar(t, c.order, b, v)
		}
		if err != nil {
			return fmt.Errorf("field %s: %w", c.field.Name, err)
		}
	}
	return nil
}

func encodeScalar(t dataset.Type, order binary.ByteOrder, b []byte, v any) error {
	var bits uint64
	switch t.Kind {
	case dataset.KindInt:
		x, ok := v.(int64)
		if !ok {
			return fmt.Errorf("cannot store %T as %s", v, t)
		}
		if t.Size < 8 {
			limit := int64(1) << (8*t.Size - 1)
			if x < -limit || x >= limit {
				return fmt.Errorf("%d overflows %s", x, t)
			}
		}
		bits = uint64(x)
	case dataset.KindUint:
		x, ok := v.(uint64)
		if !ok {
			return fmt.Errorf("cannot store %T as %s", v, t)
		}
		if t.Size < 8 && x >= uint64(1)<<(8*t.Size) {
			return fmt.Errorf("%d overflows %s", x, t)
		}
		bits = x
	case dataset.KindFloat:
		x, ok := v.(float64)
		if !ok {
			return fmt.Errorf("cannot store %T as %s", v, t)
		}
		if t.Size == 4 {
			bits = uint64(math.Float32bits(float32(x)))
		} else {
			bits = math.Float64bits(x)
		}
	default:
		return fmt.Errorf("cannot store %T as %s", v, t)
	}
	switch t.Size {
	case 1:
		b[0] = byte(bits)
	case 2:
		order.PutUint16(b, uint16(bits))
	case 4:
		order.PutUint32(b, uint32(bits))
	case 8:
		order.PutUint64(b, bits)
	}
	return nil
}
