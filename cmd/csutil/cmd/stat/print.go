package stat

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/agentstation/csutil/internal/cmd/output"
)

func printReport(w io.Writer, format string, width int, report []FieldStats) error {
	f := output.DetectFormat(format)
	if f != output.FormatTable {
		return output.NewFormatter(f).Format(w, report)
	}

	data := output.Data{
		Headers: []string{"Field", "N", "Min", "Max", "Mean", "Variance", "Stdev"},
		ColumnAlignment: []output.Align{
			output.AlignLeft, output.AlignRight, output.AlignRight, output.AlignRight,
			output.AlignRight, output.AlignRight, output.AlignRight,
		},
	}
	for _, r := range report {
		s := r.Summary
		data.Rows = append(data.Rows, []string{
			r.Field,
			humanize.Comma(int64(s.N)),
			num(s.Min), num(s.Max), num(s.Mean), num(s.Variance), num(s.Stdev),
		})
	}
	if err := output.NewFormatter(output.FormatTable).Format(w, data); err != nil {
		return err
	}

	for _, r := range report {
		if _, err := fmt.Fprintf(w, "\n%s (%d bins)\n", r.Field, len(r.Histogram)); err != nil {
			return err
		}
		if err := r.hist.Render(w, width); err != nil {
			return err
		}
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
