package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lectio-labs/lectio-cli/internal/core/domain"
)

var (
	queryDocuments []string
	queryCourse    string
	queryLimit     int
	queryJSON      bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Search ingested documents",
	Long: `Embeds the query text and searches document vector indices.

Scope the search with --document (repeatable) or --course; a course query
fans out to every queryable document in the course and merges the results.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryDocuments, "document", "d", nil, "document ID to search (repeatable)")
	queryCmd.Flags().StringVarP(&queryCourse, "course", "c", "", "search all ready documents in a course")
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "maximum number of results")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := initRetrieval(); err != nil {
		return err
	}

	text := args[0]
	ctx := context.Background()

	documentIDs, err := resolveQueryScope(ctx)
	if err != nil {
		return err
	}

	var hits []domain.RetrievedHit
	if len(documentIDs) == 1 {
		hits, err = retrievalService.Query(ctx, documentIDs[0], text, queryLimit)
	} else {
		hits, err = retrievalService.QueryMany(ctx, documentIDs, text, domain.QueryOptions{
			TotalK: queryLimit,
		})
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputHitsJSON(cmd, hits)
	}
	return outputHitsTable(cmd, hits)
}

// resolveQueryScope turns the --document/--course flags into a list of
// document IDs to search.
func resolveQueryScope(ctx context.Context) ([]string, error) {
	if len(queryDocuments) > 0 && queryCourse != "" {
		return nil, errors.New("pass either --document or --course, not both")
	}
	if len(queryDocuments) > 0 {
		return queryDocuments, nil
	}
	if queryCourse == "" {
		return nil, errors.New("no scope given; pass --document or --course")
	}

	docs, err := libraryService.ListByCourse(ctx, queryCourse)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, doc := range docs {
		if doc.Queryable() {
			ids = append(ids, doc.ID)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("course %q has no queryable documents", queryCourse)
	}
	return ids, nil
}

func outputHitsJSON(cmd *cobra.Command, hits []domain.RetrievedHit) error {
	data, err := json.MarshalIndent(hits, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputHitsTable(cmd *cobra.Command, hits []domain.RetrievedHit) error {
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("  [%d] %s #%d (%.3f)\n", i+1, hit.DocumentID, hit.Record.ChunkIndex, hit.Similarity)
		cmd.Printf("      %s\n", snippet(hit.Record.Text, 160))
		cmd.Println()
	}
	return nil
}

// snippet truncates text to at most n runes for single-line display.
func snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
