package transfer

import (
	"context"
	"io"

	"github.com/agentstation/csutil/internal/cmd/application"
	"github.com/agentstation/csutil/internal/cmd/cmdutil"
	"github.com/agentstation/csutil/pkg/align"
	"github.com/agentstation/csutil/pkg/csfile"
	"github.com/agentstation/csutil/pkg/dataset"
	"github.com/agentstation/csutil/pkg/descriptor"
	"github.com/agentstation/csutil/pkg/logging"
	"github.com/agentstation/csutil/pkg/progress"
)

// Execute runs transfer-alignments. Nothing is written unless every check
// and every match succeeds.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout io.Writer) error {
	logger := app.Logger()
	ctx = logging.WithCommand(logging.WithLogger(ctx, logger), "transfer-alignments")

	// Step 1: Preconditions
	if err := flags.validate(); err != nil {
		return err
	}
	csgPath := flags.DescriptorPath()
	if err := cmdutil.RequireInputs(flags.OrigCS, flags.OrigCSG, flags.OrigPassthrough, flags.ImportedCS); err != nil {
		return err
	}
	if err := cmdutil.CheckOutputs(flags.Overwrite, flags.OutputCS, csgPath); err != nil {
		return err
	}

	// Step 2: Load inputs
	doc, err := descriptor.Load(flags.OrigCSG)
	if err != nil {
		return err
	}
	original, err := load(ctx, "original", flags.OrigCS)
	if err != nil {
		return err
	}
	passthrough, err := load(ctx, "passthrough", flags.OrigPassthrough)
	if err != nil {
		return err
	}
	imported, err := load(ctx, "imported", flags.ImportedCS)
	if err != nil {
		return err
	}

	// Step 3: Join the original with its passthrough
	combined, err := dataset.Combine(original, passthrough)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Debug().
		Int("rows", combined.Len()).
		Int("fields", combined.Schema().Len()).
		Msg("Combined original with passthrough")

	// Step 4: Match and transfer
	opts := flags.alignOptions()
	var bar *progress.Bar
	if w := flags.progressOutput(stdout); w != nil {
		bar = progress.NewBar(w)
		opts = append(opts, align.WithProgress(bar.Update))
	}
	aligner, err := app.Aligner(opts...)
	if err != nil {
		return err
	}
	result, err := aligner.Transfer(ctx, combined, imported)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	// Step 5: Write outputs
	if err := csfile.Save(flags.OutputCS, result.Dataset); err != nil {
		return err
	}
	rewritten := descriptor.Rewrite(doc, descriptor.RewriteOptions{
		Metafile:    flags.OutputCS,
		NumItems:    result.Dataset.Len(),
		Category:    flags.Namespace,
		TypeTag:     flags.TypeTag(),
		Description: flags.Description,
		Created:     app.Now(),
	})
	if err := rewritten.Save(csgPath); err != nil {
		return err
	}
	logger.Info().
		Str("output", flags.OutputCS).
		Str("descriptor", csgPath).
		Int("rows", result.Dataset.Len()).
		Msg("Wrote aligned particles")

	return printSummary(stdout, app.OutputFormat(), newSummary(flags, csgPath, result))
}

func load(ctx context.Context, name, path string) (*dataset.Dataset, error) {
	d, err := csfile.Load(path)
	if err != nil {
		return nil, err
	}
	logging.FromContext(logging.WithDataset(ctx, name)).Debug().
		Str("path", path).
		Int("rows", d.Len()).
		Int("fields", d.Schema().Len()).
		Msg("Loaded dataset")
	return d, nil
}
