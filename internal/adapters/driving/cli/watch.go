package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/logger"
)

// settleDelay is how long a file must stay quiet before it is picked
// up, so half-written files are not ingested.
const settleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory and ingest new documents automatically",
	Long: `Watches a directory and ingests every supported file that is created or
modified in it. Unsupported files are skipped silently.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return errors.New("watch target must be a directory")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (ctrl-c to stop)\n", dir)

	// Writes arrive as bursts of events per file; the pending map
	// coalesces them and the ticker ingests files that have settled.
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay / 2)
	defer ticker.Stop()

	supported := make(map[string]bool)
	for _, ext := range supportedExtensions() {
		supported[ext] = true
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			ext := strings.ToLower(filepath.Ext(event.Name))
			if !supported[ext] {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settleDelay {
					continue
				}
				delete(pending, path)

				data, err := os.ReadFile(path)
				if err != nil {
					cmd.PrintErrf("Error reading %s: %v\n", path, err)
					continue
				}
				doc, err := ingestService.Ingest(ctx, filepath.Base(path), data)
				if err != nil {
					cmd.PrintErrf("Error ingesting %s: %v\n", path, err)
					continue
				}
				cmd.Printf("Ingested %s (%s, %d chunks)\n", doc.Filename, doc.ID, doc.ChunkCount)
			}
		}
	}
}
