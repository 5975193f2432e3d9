package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]...",
	Short: "Ingest documents into the index",
	Long: `Extracts text, chunks it with position tracking, embeds the chunks,
and indexes them. A document only becomes queryable once every chunk is
indexed; a failed ingestion leaves nothing searchable behind.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	ctx := context.Background()

	var failed int
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("Error reading %s: %v\n", path, err)
			failed++
			continue
		}

		doc, err := ingestService.Ingest(ctx, filepath.Base(path), data)
		if err != nil {
			cmd.PrintErrf("Error ingesting %s: %v\n", path, err)
			failed++
			continue
		}

		cmd.Printf("Ingested %s\n", doc.Filename)
		cmd.Printf("  ID:     %s\n", doc.ID)
		cmd.Printf("  Pages:  %d\n", doc.PageCount)
		cmd.Printf("  Chunks: %d\n", doc.ChunkCount)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
