// Package blobpath derives the grouping key of a particle from its
// blob/path field. cryoSPARC prefixes stack file names with job UIDs, and an
// external round trip may add more, so the same stack can appear as
// "J12/extract/001_stack_42.mrc" on one side and "imported/077_001_stack_42.mrcs"
// on the other. Stripping the leading tokens yields the shared basename.
package blobpath

import (
	"fmt"
	"path"
	"strings"

	"github.com/agentstation/csutil/pkg/errors"
)

// TokenSeparator splits a file name into UID tokens.
const TokenSeparator = "_"

// Normalizer strips a fixed number of leading tokens from path basenames.
type Normalizer struct {
	strip int
}

// New returns a Normalizer that drops the first strip tokens.
func New(strip int) (Normalizer, error) {
	if strip < 0 {
		return Normalizer{}, errors.NewValidationError("strip", strip, "must not be negative")
	}
	return Normalizer{strip: strip}, nil
}

// Strip returns the number of tokens removed.
func (n Normalizer) Strip() int {
	return n.strip
}

// Basename returns the final path segment without its extension and without
// the first Strip underscore-delimited tokens. A name that would be left with
// no tokens is rejected rather than collapsing into an empty key.
func (n Normalizer) Basename(p string) (string, error) {
	// Paths come from either OS, so treat both separators alike.
	name := path.Base(strings.ReplaceAll(p, `\`, "/"))
	name = strings.TrimSuffix(name, path.Ext(name))

	tokens := strings.Split(name, TokenSeparator)
	if name == "" || len(tokens) <= n.strip {
		return "", errors.NewValidationError("blob/path", p,
			fmt.Sprintf("name %q has %d token(s), cannot strip %d", name, len(tokens), n.strip))
	}
	return strings.Join(tokens[n.strip:], TokenSeparator), nil
}
