package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/config/file"
	"github.com/lectio-labs/lectio-cli/internal/normalisers"
)

var ingestCourse string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into a course",
	Long: `Registers the file in the catalog, splits its text into
sentence-aware chunks, embeds them, and builds the document's vector index.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCourse, "course", "c", "", "course to file the document under")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initRetrieval(); err != nil {
		return err
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	text, err := normalisers.Normalise(filepath.Base(path), data)
	if err != nil {
		return fmt.Errorf("normalising %s: %w", path, err)
	}

	courseID := ingestCourse
	if courseID == "" {
		courseID = configStore.GetString(file.KeyDefaultCourse, "")
	}
	if courseID == "" {
		return fmt.Errorf("no course given; pass --course or set %s", file.KeyDefaultCourse)
	}

	ctx := context.Background()

	doc, err := libraryService.Register(ctx, courseID, filepath.Base(path))
	if err != nil {
		return err
	}

	n, err := retrievalService.Ingest(ctx, doc.ID, text)
	if err != nil {
		return err
	}

	cmd.Printf("Ingested %s\n", doc.Filename)
	cmd.Printf("  Document ID: %s\n", doc.ID)
	cmd.Printf("  Course:      %s\n", courseID)
	cmd.Printf("  Chunks:      %d\n", n)
	return nil
}
