package driving

import "context"

// Indexer keeps the vector store fresh against source files.
type Indexer interface {
	// EnsureFresh sweeps the given paths: absent or changed files are
	// re-analysed and upserted, unchanged files are skipped, and
	// documents whose files vanished are removed. Per-file failures
	// are collected into the report, never aborting the sweep.
	EnsureFresh(ctx context.Context, paths []string) (*SweepReport, error)

	// IsStale reports whether the stored content hash for a document
	// differs from the current file, or the document is unindexed.
	IsStale(ctx context.Context, documentID string) (bool, error)
}

// SweepReport summarises one freshness sweep.
type SweepReport struct {
	// Indexed counts files analysed and upserted this sweep.
	Indexed int

	// Skipped counts files whose content hash was unchanged.
	Skipped int

	// Removed counts documents deleted because their files vanished.
	Removed int

	// Failures maps file path to the per-file analysis error.
	Failures map[string]error
}
