package align

import (
	"fmt"

	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
)

// assembler concatenates transferred rows group by group.
type assembler struct {
	plan *plan
	out  *dataset.Dataset
}

func newAssembler(p *plan, capacity int) *assembler {
	return &assembler{plan: p, out: dataset.NewWithCapacity(p.schema, capacity)}
}

// add transfers and appends the pairs of one group.
func (a *assembler) add(pairs []Pair) error {
	for _, pair := range pairs {
		if err := a.out.Append(a.plan.transfer(pair)); err != nil {
			return errors.NewIntegrityError("assemble", pair.Key.String(), err.Error())
		}
	}
	return nil
}

// finish checks that every imported row produced exactly one output row.
func (a *assembler) finish(imported int) (*dataset.Dataset, error) {
	if a.out.Len() != imported {
		return nil, errors.NewIntegrityError("assemble", "",
			fmt.Sprintf("output has %d rows, imported dataset has %d", a.out.Len(), imported))
	}
	return a.out, nil
}
