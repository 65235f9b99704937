package align

import (
	"time"

	"github.com/agentstation/csutil/pkg/dataset"
)

// Result represents the outcome of an alignment transfer.
type Result struct {
	// Dataset holds one row per imported particle. Rows are grouped by
	// normalized basename in ascending order and sorted by blob/idx within a
	// group; they follow neither input's row order.
	Dataset *dataset.Dataset

	// Transferred lists the output fields whose values came from the
	// imported dataset.
	Transferred []string

	// Metadata
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the transfer.
type ResultMetadata struct {
	// StartTime when the transfer started
	StartTime time.Time

	// EndTime when the transfer completed
	EndTime time.Time

	// Duration of the transfer
	Duration time.Duration

	// Namespace that was transferred
	Namespace string

	// Statistics about the transfer
	Stats ResultStatistics
}

// ResultStatistics contains row and group counts.
type ResultStatistics struct {
	OriginalRows      int
	ImportedRows      int
	OutputRows        int
	OriginalBasenames int
	ImportedBasenames int
}

// Unmatched returns how many original rows have no imported counterpart.
func (s ResultStatistics) Unmatched() int {
	return s.OriginalRows - s.OutputRows
}

// finalize stamps the end time and duration.
func (r *Result) finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}
