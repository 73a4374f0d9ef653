package driven

import (
	"context"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// DocumentStore persists the document catalog: which documents exist, which
// course they belong to, and how far through ingestion they are.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID, or domain.ErrNotFound.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListByCourse returns all documents registered under a course.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error)

	// SetStatus updates a document's ingestion status. The reason is only
	// recorded for domain.StatusFailed.
	SetStatus(ctx context.Context, id string, status domain.DocumentStatus, reason string) error

	// SaveChunks stores the chunk texts for a document, replacing any
	// previous set. Kept for full-content export and study-notes features.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetChunks retrieves a document's chunks ordered by chunk index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document record and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
