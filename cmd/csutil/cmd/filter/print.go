package filter

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/csutil/internal/cmd/output"
	"github.com/agentstation/csutil/pkg/stats"
)

func writeHistogramHeader(w io.Writer, target string, s stats.Summary) error {
	_, err := fmt.Fprintf(w, "%s\nMean %.6f\nMin %.6f\nMax %.6f\nStdev %.6f\n#Ptcls %d\n\n",
		target, s.Mean, s.Min, s.Max, s.Stdev, s.N)
	return err
}

func printReport(w io.Writer, format string, r Report) error {
	f := output.DetectFormat(format)
	if f != output.FormatTable {
		return output.NewFormatter(f).Format(w, r)
	}
	_, err := fmt.Fprintf(w, "Range of %s: [%s, %s]\nOutput dataset is saved as %s\nOutput histogram is saved as %s\nNum particles %s -> %s (%s particles = %.1f %% were discarded.)\n",
		r.Target, boundString(r.Min, "-inf"), boundString(r.Max, "inf"), r.Output, r.Histogram,
		humanize.Comma(int64(r.Before)), humanize.Comma(int64(r.After)),
		humanize.Comma(int64(r.Discarded)), r.Percent)
	return err
}

func boundString(v *float64, open string) string {
	if v == nil {
		return open
	}
	return fmt.Sprintf("%g", *v)
}
