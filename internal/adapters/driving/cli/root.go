// Package cli provides the cobra command tree for the lectio binary.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/lectio-labs/lectio-cli/internal/logger"
)

// version is set by SetVersion before Execute.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
)

var rootCmd = &cobra.Command{
	Use:   "lectio",
	Short: "Document retrieval engine for lecture material",
	Long: `Lectio ingests lecture notes and course documents, splits them into
sentence-aware chunks, embeds them, and answers similarity queries over
per-document vector indices.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.lectio)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.lectio/data)")
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}
