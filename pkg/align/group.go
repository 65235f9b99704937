package align

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/agentstation/csutil/pkg/blobpath"
	"github.com/agentstation/csutil/pkg/constants"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// Key identifies a particle across datasets.
type Key struct {
	Basename string
	Idx      uint32
}

// String renders the key as basename#idx.
func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.Basename, k.Idx)
}

// Compare orders keys by basename, then idx.
func (k Key) Compare(o Key) int {
	if c := cmp.Compare(k.Basename, o.Basename); c != 0 {
		return c
	}
	return cmp.Compare(k.Idx, o.Idx)
}

// Group is a run of rows sharing one basename, ordered by idx.
type Group struct {
	Basename string
	Rows     []int
}

// Triple pairs the original and imported groups of one basename.
type Triple struct {
	Basename string
	Original Group
	Imported Group
}

// keyed is a dataset with its derived keys and key-sorted row order.
type keyed struct {
	name  string
	data  *dataset.Dataset
	keys  []Key
	order []int
}

// deriveKeys computes the key of every row.
func deriveKeys(name string, d *dataset.Dataset, strip int) (*keyed, error) {
	norm, err := blobpath.New(strip)
	if err != nil {
		return nil, err
	}
	_, pathCol, err := d.Schema().Require(name, constants.FieldBlobPath)
	if err != nil {
		return nil, err
	}
	_, idxCol, err := d.Schema().Require(name, constants.FieldBlobIdx)
	if err != nil {
		return nil, err
	}

	keys := make([]Key, d.Len())
	for i, row := range d.Rows() {
		p, _ := row[pathCol].(string)
		base, err := norm.Basename(p)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", name, i, err)
		}
		idx, ok := dataset.AsInt64(row[idxCol])
		if !ok || idx < 0 || idx > math.MaxUint32 {
			return nil, errors.NewValidationError(constants.FieldBlobIdx, row[idxCol],
				fmt.Sprintf("%s row %d: index must be a non-negative 32-bit integer", name, i))
		}
		keys[i] = Key{Basename: base, Idx: uint32(idx)}
	}
	return &keyed{name: name, data: d, keys: keys}, nil
}

// sort computes the stable (basename, idx) order of the rows.
func (k *keyed) sort() {
	k.order = make([]int, len(k.keys))
	for i := range k.order {
		k.order[i] = i
	}
	slices.SortStableFunc(k.order, func(a, b int) int {
		return k.keys[a].Compare(k.keys[b])
	})
}

// groups scans the sorted order once and cuts it at every basename change.
func (k *keyed) groups() []Group {
	var out []Group
	start := 0
	for i := 1; i <= len(k.order); i++ {
		if i < len(k.order) && k.keys[k.order[i]].Basename == k.keys[k.order[start]].Basename {
			continue
		}
		out = append(out, Group{
			Basename: k.keys[k.order[start]].Basename,
			Rows:     k.order[start:i],
		})
		start = i
	}
	return out
}

// partition walks both sorted group lists in lock-step and returns one
// triple per imported basename. Original basenames absent from the imported
// side are skipped; the reverse is an integrity violation.
func partition(original, imported []Group) ([]Triple, error) {
	triples := make([]Triple, 0, len(imported))
	o := 0
	for _, imp := range imported {
		for o < len(original) && original[o].Basename < imp.Basename {
			o++
		}
		if o == len(original) || original[o].Basename != imp.Basename {
			return nil, errors.NewIntegrityError("match", imp.Basename,
				fmt.Sprintf("%d imported row(s) have no original rows with this basename", len(imp.Rows)))
		}
		triples = append(triples, Triple{
			Basename: imp.Basename,
			Original: original[o],
			Imported: imp,
		})
	}
	return triples, nil
}
