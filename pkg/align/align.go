// Package align transfers alignment results from an imported particle
// dataset back onto the original dataset it was derived from.
//
// Particles are matched by (normalized blob/path basename, blob/idx). The
// run is all or nothing: an imported particle without an original partner,
// a non one-to-one pairing or a schema mismatch aborts with an error from
// pkg/errors and no partial result.
package align

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/errors"
	"github.com/agentstation/csutil/pkg/logging"
	"github.com/agentstation/csutil/pkg/progress"
)

// Aligner transfers a field namespace between matched particle datasets.
type Aligner interface {
	// Transfer matches every imported row to its original row and returns
	// the original rows with the namespace fields replaced by the imported
	// values. original should already include its passthrough fields.
	Transfer(ctx context.Context, original, imported *dataset.Dataset) (*Result, error)
}

// aligner is the default implementation of Aligner.
type aligner struct {
	namespace     string
	originalStrip int
	importedStrip int
	progress      progress.Func
}

// New creates a new Aligner with options.
func New(opts ...Option) (Aligner, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &aligner{
		namespace:     options.namespace,
		originalStrip: options.originalStrip,
		importedStrip: options.importedStrip,
		progress:      options.progress,
	}, nil
}

// transferContext holds shared state for one run.
type transferContext struct {
	logger   *zerolog.Logger
	original *keyed
	imported *keyed
	plan     *plan
	result   *Result
}

// Transfer runs the pipeline step by step.
func (a *aligner) Transfer(ctx context.Context, original, imported *dataset.Dataset) (*Result, error) {
	// Step 1: Validate inputs and derive the output schema
	tctx, err := a.initialize(ctx, original, imported)
	if err != nil {
		return nil, err
	}

	// Step 2: Derive keys and sort both sides
	if err := a.index(tctx); err != nil {
		return nil, err
	}

	// Step 3: Pair up basenames
	originalGroups := tctx.original.groups()
	importedGroups := tctx.imported.groups()
	triples, err := partition(originalGroups, importedGroups)
	if err != nil {
		return nil, err
	}
	tctx.result.Metadata.Stats.OriginalBasenames = len(originalGroups)
	tctx.result.Metadata.Stats.ImportedBasenames = len(importedGroups)
	tctx.logger.Debug().
		Int("original_basenames", len(originalGroups)).
		Int("imported_basenames", len(importedGroups)).
		Msg("Grouped particles by basename")

	// Step 4: Match and transfer each basename
	out, err := a.transferAll(ctx, tctx, triples)
	if err != nil {
		return nil, err
	}

	// Step 5: Build result
	tctx.result.Dataset = out
	tctx.result.Metadata.Stats.OutputRows = out.Len()
	tctx.result.finalize()
	tctx.logger.Info().
		Int("original", original.Len()).
		Int("imported", imported.Len()).
		Int("output", out.Len()).
		Strs("fields", tctx.plan.transferred).
		Dur("duration", tctx.result.Metadata.Duration).
		Msg("Transferred alignments")
	return tctx.result, nil
}

// initialize validates the inputs and sets up the run.
func (a *aligner) initialize(ctx context.Context, original, imported *dataset.Dataset) (*transferContext, error) {
	if original == nil || imported == nil {
		return nil, &errors.ValidationError{Field: "dataset", Message: "cannot be nil"}
	}
	if imported.Len() > original.Len() {
		return nil, errors.NewIntegrityError("load", "",
			fmt.Sprintf("imported dataset has %d rows, more than the %d original rows", imported.Len(), original.Len()))
	}

	p, err := newPlan(a.namespace, original.Schema(), imported.Schema())
	if err != nil {
		return nil, err
	}

	return &transferContext{
		logger: logging.FromContext(logging.WithStage(ctx, "transfer")),
		plan:   p,
		result: &Result{
			Transferred: p.transferred,
			Metadata: ResultMetadata{
				StartTime: time.Now(),
				Namespace: a.namespace,
				Stats: ResultStatistics{
					OriginalRows: original.Len(),
					ImportedRows: imported.Len(),
				},
			},
		},
		original: &keyed{name: "original", data: original},
		imported: &keyed{name: "imported", data: imported},
	}, nil
}

// index derives and sorts the keys of both datasets.
func (a *aligner) index(tctx *transferContext) error {
	var err error
	if tctx.original, err = deriveKeys("original", tctx.original.data, a.originalStrip); err != nil {
		return err
	}
	if tctx.imported, err = deriveKeys("imported", tctx.imported.data, a.importedStrip); err != nil {
		return err
	}
	if len(tctx.original.keys) > 0 {
		tctx.logger.Debug().Str("basename", tctx.original.keys[0].Basename).Msg("Original basename example")
	}
	if len(tctx.imported.keys) > 0 {
		tctx.logger.Debug().Str("basename", tctx.imported.keys[0].Basename).Msg("Imported basename example")
	}
	tctx.original.sort()
	tctx.imported.sort()
	return nil
}

// transferAll matches every triple and assembles the output.
func (a *aligner) transferAll(ctx context.Context, tctx *transferContext, triples []Triple) (*dataset.Dataset, error) {
	ticker := progress.NewTicker(a.progress)
	asm := newAssembler(tctx.plan, tctx.imported.data.Len())

	for i, t := range triples {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapCanceled("transfer", err)
		}
		pairs, err := match(t, tctx.original, tctx.imported)
		if err != nil {
			return nil, err
		}
		if err := asm.add(pairs); err != nil {
			return nil, err
		}
		ticker.Update(i+1, len(triples))
	}
	return asm.finish(tctx.imported.data.Len())
}
