package transfer

import (
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/csutil/internal/cmd/output"
	"github.com/agentstation/csutil/pkg/align"
)

// Summary reports what a transfer wrote.
type Summary struct {
	Output            string   `json:"output" yaml:"output"`
	Descriptor        string   `json:"descriptor" yaml:"descriptor"`
	OriginalRows      int      `json:"original_rows" yaml:"original_rows"`
	ImportedRows      int      `json:"imported_rows" yaml:"imported_rows"`
	OutputRows        int      `json:"output_rows" yaml:"output_rows"`
	Unmatched         int      `json:"unmatched" yaml:"unmatched"`
	ImportedBasenames int      `json:"imported_basenames" yaml:"imported_basenames"`
	Transferred       []string `json:"transferred" yaml:"transferred"`
	Bytes             uint64   `json:"bytes" yaml:"bytes"`
	DurationMS        int64    `json:"duration_ms" yaml:"duration_ms"`
}

func newSummary(flags *Flags, csgPath string, result *align.Result) Summary {
	stats := result.Metadata.Stats
	s := Summary{
		Output:            flags.OutputCS,
		Descriptor:        csgPath,
		OriginalRows:      stats.OriginalRows,
		ImportedRows:      stats.ImportedRows,
		OutputRows:        stats.OutputRows,
		Unmatched:         stats.Unmatched(),
		ImportedBasenames: stats.ImportedBasenames,
		Transferred:       result.Transferred,
		DurationMS:        result.Metadata.Duration.Milliseconds(),
	}
	if info, err := os.Stat(flags.OutputCS); err == nil {
		s.Bytes = uint64(info.Size())
	}
	return s
}

func printSummary(w io.Writer, format string, s Summary) error {
	f := output.DetectFormat(format)
	if f != output.FormatTable {
		return output.NewFormatter(f).Format(w, s)
	}

	data := output.Data{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Output", s.Output},
			{"Descriptor", s.Descriptor},
			{"Original Rows", humanize.Comma(int64(s.OriginalRows))},
			{"Imported Rows", humanize.Comma(int64(s.ImportedRows))},
			{"Output Rows", humanize.Comma(int64(s.OutputRows))},
			{"Unmatched", humanize.Comma(int64(s.Unmatched))},
			{"Stacks", humanize.Comma(int64(s.ImportedBasenames))},
			{"Transferred", strings.Join(s.Transferred, ", ")},
			{"Size", humanize.Bytes(s.Bytes)},
		},
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignLeft},
	}
	return output.NewFormatter(output.FormatTable).Format(w, data)
}
