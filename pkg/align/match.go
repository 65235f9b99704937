package align

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// Pair is one matched particle.
type Pair struct {
	Key      Key
	Original dataset.Row
	Imported dataset.Row
}

// match pairs the rows of one triple. Both groups arrive sorted by idx.
// Every imported idx must exist on the original side and the pairing must
// be one-to-one; anything else aborts the run.
func match(t Triple, original, imported *keyed) ([]Pair, error) {
	origIdx := roaring.New()
	for _, r := range t.Original.Rows {
		origIdx.Add(original.keys[r].Idx)
	}
	impIdx := roaring.New()
	for _, r := range t.Imported.Rows {
		impIdx.Add(imported.keys[r].Idx)
	}

	if missing := roaring.AndNot(impIdx, origIdx); !missing.IsEmpty() {
		return nil, errors.NewIntegrityError("match", t.Basename,
			fmt.Sprintf("imported idx %v not present in the original dataset", preview(missing)))
	}

	// Keep only the original rows the imported side refers to.
	matched := make([]int, 0, len(t.Imported.Rows))
	for _, r := range t.Original.Rows {
		if impIdx.Contains(original.keys[r].Idx) {
			matched = append(matched, r)
		}
	}

	if len(matched) != len(t.Imported.Rows) {
		return nil, errors.NewIntegrityError("match", t.Basename,
			fmt.Sprintf("%d original row(s) matched %d imported row(s); idx values must be unique per basename",
				len(matched), len(t.Imported.Rows)))
	}

	pairs := make([]Pair, len(matched))
	for i, r := range matched {
		okey, ikey := original.keys[r], imported.keys[t.Imported.Rows[i]]
		if okey != ikey {
			return nil, errors.NewIntegrityError("match", ikey.String(),
				fmt.Sprintf("idx sequences disagree: original %d, imported %d", okey.Idx, ikey.Idx))
		}
		pairs[i] = Pair{
			Key:      ikey,
			Original: original.data.Row(r),
			Imported: imported.data.Row(t.Imported.Rows[i]),
		}
	}
	return pairs, nil
}

// preview lists up to five values of a bitmap.
func preview(bm *roaring.Bitmap) string {
	const limit = 5
	vals := make([]uint32, 0, limit)
	it := bm.Iterator()
	for it.HasNext() && len(vals) < limit {
		vals = append(vals, it.Next())
	}
	if bm.GetCardinality() > limit {
		return fmt.Sprintf("%v (and %d more)", vals, bm.GetCardinality()-limit)
	}
	return fmt.Sprint(vals)
}
