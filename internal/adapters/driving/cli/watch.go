package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lectio-labs/lectio-cli/internal/adapters/driven/config/file"
	"github.com/lectio-labs/lectio-cli/internal/connectors/filesystem"
)

var watchCourse string

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a drop folder and ingest files automatically",
	Long: `Watches a directory and ingests every supported text file dropped
into it. Files already present are ingested on startup. Runs until
interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchCourse, "course", "c", "", "course to file ingested documents under")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := initRetrieval(); err != nil {
		return err
	}

	courseID := watchCourse
	if courseID == "" {
		courseID = configStore.GetString(file.KeyWatchCourse, "")
	}
	if courseID == "" {
		courseID = configStore.GetString(file.KeyDefaultCourse, "")
	}
	if courseID == "" {
		return fmt.Errorf("no course given; pass --course or set %s", file.KeyWatchCourse)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Warm the registry so queries against already-ingested documents
	// don't pay the disk load during the watch session.
	if err := indexRegistry.LoadAll(ctx); err != nil {
		return err
	}

	watcher, err := filesystem.NewWatcher(args[0], courseID, libraryService, retrievalService)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (course %s). Press Ctrl+C to stop.\n", args[0], courseID)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
