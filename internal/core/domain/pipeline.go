package domain

import "time"

// RunOptions configures one pipeline run.
type RunOptions struct {
	// Source is a file path or HTTP(S) URL of the OpenAPI document.
	Source string

	// OutputDir is the directory under which the artifact is written.
	OutputDir string

	// Index uploads the rendered documents to the vector store.
	Index bool

	// IndexOptional turns a missing vector store into a skipped index step
	// instead of an error. Set when indexing comes from settings, not a flag.
	IndexOptional bool

	// ClearCache empties the vector store collection before indexing.
	ClearCache bool
}

// IndexStats summarises an indexing pass.
type IndexStats struct {
	Total    int           `json:"total"`
	Indexed  int           `json:"indexed"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// RunResult is the outcome of a pipeline run.
type RunResult struct {
	// RunID identifies the run in logs and output.
	RunID string

	API       APIInfo
	Endpoints []Endpoint
	Groups    []TagGroup
	Records   []ExtractionRecord

	// OutputPath is where the artifact was written.
	OutputPath string

	// Index is nil when indexing was not requested or was skipped.
	Index *IndexStats

	// IndexSkipped is set when optional indexing found no vector store.
	IndexSkipped bool
}
