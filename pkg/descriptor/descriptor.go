// Package descriptor reads, rewrites and writes cryoSPARC group descriptor
// (.csg) files. A descriptor is YAML of the shape
//
//	created: 2024-05-01 10:00:00.000000
//	group:
//	  description: ...
//	results:
//	  blob:
//	    metafile: '>J12_particles.cs'
//	    num_items: 1234
//	    type: particle.blob
//
// Documents keep key order and any keys csutil does not know about, so a
// rewrite only changes what it sets.
package descriptor

import (
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/errors"
)

// Keys of the descriptor document.
const (
	KeyCreated     = "created"
	KeyGroup       = "group"
	KeyDescription = "description"
	KeyResults     = "results"
	KeyMetafile    = "metafile"
	KeyNumItems    = "num_items"
	KeyType        = "type"
)

// MetafilePrefix marks a metafile path as relative to the descriptor.
const MetafilePrefix = ">"

// Document is a parsed descriptor.
type Document struct {
	root yaml.MapSlice
}

// Result is the typed view of one results entry.
type Result struct {
	Category string
	Metafile string
	NumItems int
	Type     string
}

// Parse decodes a descriptor.
func Parse(data []byte) (*Document, error) {
	var root yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, err
	}
	if v, ok := get(root, KeyResults); ok && v != nil {
		if _, ok := v.(yaml.MapSlice); !ok {
			return nil, fmt.Errorf("%s must be a mapping, got %T", KeyResults, v)
		}
	}
	for i, item := range root {
		if fmt.Sprint(item.Key) == KeyCreated {
			root[i].Value = toTimestamp(item.Value)
		}
	}
	return &Document{root: root}, nil
}

// Load reads a descriptor file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("descriptor", path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return doc, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.MarshalWithOptions(d.root,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
}

// Save writes the document to path.
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return errors.WrapParse("yaml", path, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// Description returns group.description.
func (d *Document) Description() string {
	group, _ := getMap(d.root, KeyGroup)
	s, _ := get(group, KeyDescription)
	return fmt.Sprint(orEmpty(s))
}

// Created returns the created timestamp, reporting false when the document
// has none or it is not a timestamp.
func (d *Document) Created() (Timestamp, bool) {
	v, _ := get(d.root, KeyCreated)
	ts, ok := v.(Timestamp)
	return ts, ok
}

// Results returns the results entries in document order.
func (d *Document) Results() []Result {
	results, _ := getMap(d.root, KeyResults)
	out := make([]Result, 0, len(results))
	for _, item := range results {
		entry, _ := item.Value.(yaml.MapSlice)
		r := Result{Category: fmt.Sprint(item.Key)}
		if v, ok := get(entry, KeyMetafile); ok {
			r.Metafile = fmt.Sprint(v)
		}
		if v, ok := get(entry, KeyNumItems); ok {
			r.NumItems = toInt(v)
		}
		if v, ok := get(entry, KeyType); ok {
			r.Type = fmt.Sprint(v)
		}
		out = append(out, r)
	}
	return out
}

// Result returns the entry of one category.
func (d *Document) Result(category string) (Result, bool) {
	for _, r := range d.Results() {
		if r.Category == category {
			return r, true
		}
	}
	return Result{}, false
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	root, _ := clone(d.root).(yaml.MapSlice)
	return &Document{root: root}
}

func get(m yaml.MapSlice, key string) (any, bool) {
	for _, item := range m {
		if fmt.Sprint(item.Key) == key {
			return item.Value, true
		}
	}
	return nil, false
}

func getMap(m yaml.MapSlice, key string) (yaml.MapSlice, bool) {
	v, ok := get(m, key)
	if !ok {
		return nil, false
	}
	ms, ok := v.(yaml.MapSlice)
	return ms, ok
}

// set replaces the value of key, appending it when absent.
func set(m yaml.MapSlice, key string, value any) yaml.MapSlice {
	for i, item := range m {
		if fmt.Sprint(item.Key) == key {
			m[i].Value = value
			return m
		}
	}
	return append(m, yaml.MapItem{Key: key, Value: value})
}

func clone(v any) any {
	switch x := v.(type) {
	case yaml.MapSlice:
		out := make(yaml.MapSlice, len(x))
		for i, item := range x {
			out[i] = yaml.MapItem{Key: item.Key, Value: clone(item.Value)}
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = clone(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = clone(e)
		}
		return out
	}
	return v
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case float64:
		return int(x)
	case string:
		n, _ := strconv.Atoi(x)
		return n
	}
	return 0
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
