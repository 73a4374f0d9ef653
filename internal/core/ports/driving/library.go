package driving

import (
	"context"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

// LibraryService manages the document catalog: registration, listing,
// status inspection and full-content export.
type LibraryService interface {
	// Register creates a pending catalog entry for a new document and
	// returns it. The ID is minted by the service.
	Register(ctx context.Context, courseID, filename string) (*domain.Document, error)

	// Get retrieves a document record by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// ListByCourse returns all documents in a course.
	ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error)

	// GetContent returns the document's text reassembled from its stored
	// chunks, with overlap sentences deduplicated.
	GetContent(ctx context.Context, documentID string) (string, error)
}
