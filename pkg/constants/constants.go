// Package constants provides shared constants used throughout the csutil codebase.
// This includes file permissions, dataset field names and defaults that should be
// consistent between the library packages and the CLI.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Dataset field names shared by cryoSPARC particle tables.
const (
	// FieldUID is the per-particle unique identifier used to join companion tables
	FieldUID = "uid"

	// FieldBlobPath is the path of the image stack a particle was extracted into
	FieldBlobPath = "blob/path"

	// FieldBlobIdx is the position of a particle inside its image stack
	FieldBlobIdx = "blob/idx"

	// NamespaceSeparator separates a field's result group from its attribute
	NamespaceSeparator = "/"
)

// Alignment transfer defaults.
const (
	// AlignmentsNamespace is the field namespace carrying 3D poses
	AlignmentsNamespace = "alignments3D"

	// AlignmentsTypeTag is the csg result type for 3D alignments
	AlignmentsTypeTag = "particle.alignments3D"

	// DefaultOrigStripTokens is the number of leading UID tokens removed from original blob paths
	DefaultOrigStripTokens = 1

	// DefaultImportedStripTokens is the number of leading UID tokens removed from imported blob paths
	DefaultImportedStripTokens = 2

	// Attribution is written to the rewritten descriptor's group description
	Attribution = "Created by csutil transfer-alignments"
)

// File extensions.
const (
	// ExtDataset is the extension of particle tables
	ExtDataset = ".cs"

	// ExtDescriptor is the extension of result group descriptors
	ExtDescriptor = ".csg"

	// ExtCSV is the extension used by the CSV exporter
	ExtCSV = ".csv"

	// ExtZstd marks a zstd compressed table
	ExtZstd = ".zst"

	// ExtLZ4 marks an lz4 compressed table
	ExtLZ4 = ".lz4"
)

// Progress reporting.
const (
	// ProgressSteps is the number of ticks emitted over a full run (one per percent)
	ProgressSteps = 100

	// ProgressBarWidth is the width of the rendered progress bar
	ProgressBarWidth = 100
)

// Histogram defaults.
const (
	// DefaultHistogramWidth is the widest bar drawn by the text histogram
	DefaultHistogramWidth = 50

	// MaxHistogramBins caps the bin count accepted on the command line
	MaxHistogramBins = 1000
)
