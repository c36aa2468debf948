package domain

import "time"

// DatasetSnapshot is an immutable view of the local tool list.
type DatasetSnapshot struct {
	Tools    []Tool
	Revision uint64
	// ETag is the content hash of Tools.
	ETag     string
	LoadedAt time.Time
	Path     string
}

// DatasetUpdateSource describes what triggered a dataset reload.
type DatasetUpdateSource string

const (
	DatasetUpdateSourceWatch  DatasetUpdateSource = "watch"
	DatasetUpdateSourceManual DatasetUpdateSource = "manual"
)

// DatasetUpdate is broadcast when the dataset content changes.
type DatasetUpdate struct {
	Snapshot DatasetSnapshot
	Source   DatasetUpdateSource
}
