package domain

import "time"

// DocumentStatus tracks a document's progress through the ingestion pipeline.
type DocumentStatus string

const (
	// StatusPending means the document is registered but not yet processed.
	StatusPending DocumentStatus = "pending"

	// StatusProcessing means chunking and embedding are in progress.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means the document's vector index is queryable.
	StatusReady DocumentStatus = "ready"

	// StatusFailed means ingestion failed; queries return no results.
	StatusFailed DocumentStatus = "failed"
)

// Document represents an uploaded document within a course container.
// File parsing (PDF, DOCX, audio transcription) happens upstream; by the
// time a Document reaches this system it is plain extracted text.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// CourseID links the document to its course container.
	CourseID string

	// Filename is the original upload name, kept for citations.
	Filename string

	// Status is the current ingestion state.
	Status DocumentStatus

	// ChunkCount is the number of chunks stored for this document.
	// Zero until ingestion completes.
	ChunkCount int

	// FailureReason holds a short description when Status is StatusFailed.
	FailureReason string

	// CreatedAt is when the document was registered.
	CreatedAt time.Time

	// UpdatedAt is when the document last changed state.
	UpdatedAt time.Time
}

// Queryable reports whether the document can serve retrieval queries.
func (d *Document) Queryable() bool {
	return d.Status == StatusReady
}
