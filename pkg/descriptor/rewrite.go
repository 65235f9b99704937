package descriptor

import (
	"path/filepath"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"
)

// RewriteOptions says what a rewrite changes. Zero-valued optional fields
// leave the document as it is.
type RewriteOptions struct {
	// Metafile is the path of the new table; only its base name is stored.
	Metafile string

	// NumItems is the new row count.
	NumItems int

	// Category is inserted into results when missing (optional).
	Category string

	// TypeTag is the type of an inserted category.
	TypeTag string

	// Description replaces group.description (optional).
	Description string

	// Created replaces the created timestamp (optional).
	Created utc.Time
}

// Rewrite returns a copy of doc pointing every results entry at the new
// table. The input document is not modified, and rewriting the output again
// with the same options yields an identical document.
func Rewrite(doc *Document, opts RewriteOptions) *Document {
	out := doc.Clone()
	ref := MetafilePrefix + filepath.Base(opts.Metafile)

	results, _ := getMap(out.root, KeyResults)
	for i, item := range results {
		entry, _ := item.Value.(yaml.MapSlice)
		entry = set(entry, KeyMetafile, ref)
		entry = set(entry, KeyNumItems, opts.NumItems)
		results[i].Value = entry
	}

	if opts.Category != "" {
		if _, ok := get(results, opts.Category); !ok {
			results = append(results, yaml.MapItem{Key: opts.Category, Value: yaml.MapSlice{
				{Key: KeyMetafile, Value: ref},
				{Key: KeyNumItems, Value: opts.NumItems},
				{Key: KeyType, Value: opts.TypeTag},
			}})
		}
	}
	if results != nil {
		out.root = set(out.root, KeyResults, results)
	}

	if opts.Description != "" {
		group, _ := getMap(out.root, KeyGroup)
		out.root = set(out.root, KeyGroup, set(group, KeyDescription, opts.Description))
	}
	if !opts.Created.IsZero() {
		out.root = set(out.root, KeyCreated, NewTimestamp(opts.Created.Time))
	}
	return out
}
