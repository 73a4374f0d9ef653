package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage the document catalog",
	Long:  `List, inspect, export, or delete ingested documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list [course-id]",
	Short: "List documents in a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content reassembled from its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document, its index and catalog entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if err := initLibrary(); err != nil {
		return err
	}

	docs, err := libraryService.ListByCourse(context.Background(), args[0])
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for _, doc := range docs {
		cmd.Printf("%s  %-10s  %4d chunks  %s\n", doc.ID, doc.Status, doc.ChunkCount, doc.Filename)
	}
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if err := initLibrary(); err != nil {
		return err
	}

	doc, err := libraryService.Get(context.Background(), args[0])
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q not found", args[0])
		}
		return err
	}

	cmd.Printf("ID:       %s\n", doc.ID)
	cmd.Printf("Course:   %s\n", doc.CourseID)
	cmd.Printf("Filename: %s\n", doc.Filename)
	cmd.Printf("Status:   %s\n", doc.Status)
	cmd.Printf("Chunks:   %d\n", doc.ChunkCount)
	if doc.FailureReason != "" {
		cmd.Printf("Failure:  %s\n", doc.FailureReason)
	}
	cmd.Printf("Created:  %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated:  %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if err := initLibrary(); err != nil {
		return err
	}

	content, err := libraryService.GetContent(context.Background(), args[0])
	if err != nil {
		return err
	}

	cmd.Println(content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	// Deletion needs the registry and catalog but no embedding provider,
	// so a broken embedding config must not block it.
	if err := initLibrary(); err != nil {
		return err
	}
	if err := initRegistry(); err != nil {
		return err
	}

	ctx := context.Background()

	// Index artifacts go first so vectors can never outlive the catalog
	// entry.
	if err := indexRegistry.Delete(ctx, args[0]); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if err := docStore.DeleteDocument(ctx, args[0]); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	cmd.Printf("Deleted document %s\n", args[0])
	return nil
}
