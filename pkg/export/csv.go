// Package export writes particle tables in interchange formats.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// Header returns the CSV column names. Vector fields expand into one
// column per element named field/0, field/1, ...
func Header(schema *dataset.Schema) []string {
	var cols []string
	for _, f := range schema.Fields() {
		if !f.Type.IsVector() {
			cols = append(cols, f.Name)
			continue
		}
		for i := range f.Type.Elems() {
			cols = append(cols, f.Name+constants.NamespaceSeparator+strconv.Itoa(i))
		}
	}
	return cols
}

// WriteCSV writes the dataset with a header line.
func WriteCSV(w io.Writer, d *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	header := Header(d.Schema())
	if err := cw.Write(header); err != nil {
		return err
	}

	fields := d.Schema().Fields()
	record := make([]string, 0, len(header))
	for _, row := range d.Rows() {
		record = record[:0]
		for i, f := range fields {
			record = appendValue(record, f.Type, row[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the dataset to a CSV file.
func SaveCSV(path string, d *dataset.Dataset) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.WrapIO("close", path, cerr)
		}
	}()
	if err := WriteCSV(f, d); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func appendValue(record []string, t dataset.Type, v any) []string {
	switch x := v.(type) {
	case int64:
		return append(record, strconv.FormatInt(x, 10))
	case uint64:
		return append(record, strconv.FormatUint(x, 10))
	case float64:
		return append(record, formatFloat(x, t.Size))
	case string:
		return append(record, x)
	case []int64:
		for _, e := range x {
			record = append(record, strconv.FormatInt(e, 10))
		}
	case []uint64:
		for _, e := range x {
			record = append(record, strconv.FormatUint(e, 10))
		}
	case []float64:
		for _, e := range x {
			record = append(record, formatFloat(e, t.Size))
		}
	}
	return record
}

// formatFloat prints the shortest representation at the stored precision,
// so a float32 0.1 prints as 0.1 rather than 0.10000000149011612.
func formatFloat(f float64, size int) string {
	bits := 64
	if size == 4 {
		bits = 32
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
