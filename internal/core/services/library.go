package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driven"
	"github.com/lectio-labs/lectio-cli/internal/core/ports/driving"
	"github.com/lectio-labs/lectio-cli/internal/postprocessors/chunker"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService manages the document catalog.
type LibraryService struct {
	docStore driven.DocumentStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(docStore driven.DocumentStore) *LibraryService {
	return &LibraryService{docStore: docStore}
}

// Register creates a pending catalog entry for a new document.
func (s *LibraryService) Register(ctx context.Context, courseID, filename string) (*domain.Document, error) {
	courseID = strings.TrimSpace(courseID)
	filename = strings.TrimSpace(filename)
	if courseID == "" {
		return nil, fmt.Errorf("%w: course ID is empty", domain.ErrInvalidInput)
	}
	if filename == "" {
		return nil, fmt.Errorf("%w: filename is empty", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		Filename:  filename,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("registering document %q: %w", filename, err)
	}
	return doc, nil
}

// Get retrieves a document record by ID.
func (s *LibraryService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("getting document %q: %w", documentID, err)
	}
	return doc, nil
}

// ListByCourse returns all documents registered under a course.
func (s *LibraryService) ListByCourse(ctx context.Context, courseID string) ([]domain.Document, error) {
	docs, err := s.docStore.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing documents for course %q: %w", courseID, err)
	}
	return docs, nil
}

// GetContent reassembles the document's text from its stored chunks.
// Adjacent chunks share trailing sentences for retrieval context; those
// duplicates are dropped so the export reads as continuous text.
func (s *LibraryService) GetContent(ctx context.Context, documentID string) (string, error) {
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return "", fmt.Errorf("getting document %q: %w", documentID, err)
	}

	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return "", fmt.Errorf("getting chunks for %q: %w", documentID, err)
	}

	var sentences []string
	for _, c := range chunks {
		cs := chunker.SplitSentences(c.Text)
		sentences = append(sentences, cs[overlapLen(sentences, cs):]...)
	}
	return strings.Join(sentences, " "), nil
}

// overlapLen returns the length of the longest suffix of have that equals
// a prefix of next.
func overlapLen(have, next []string) int {
	max := len(next)
	if len(have) < max {
		max = len(have)
	}
	for n := max; n > 0; n-- {
		match := true
		for i := 0; i < n; i++ {
			if have[len(have)-n+i] != next[i] {
				match = false
				break
			}
		}
		if match {
			return n
		}
	}
	return 0
}
