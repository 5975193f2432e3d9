package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/veridoc-labs/veridoc-cli/internal/core/ports/driving"
)

var askCitations int

var askCmd = &cobra.Command{
	Use:   "ask [doc-id] [question]",
	Short: "Ask a question about an ingested document",
	Long: `Answers a question using only the given document's content. The answer
comes with citations naming the page and character range each supporting
passage occupies, so every claim can be checked against the source.`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askCitations, "citations", "n", driving.DefaultMaxCitations,
		"Maximum number of citations to return")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	resp, err := queryService.Query(context.Background(), driving.QueryRequest{
		Question:     args[1],
		DocumentID:   args[0],
		MaxCitations: askCitations,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Printf("%s\n", resp.Answer)

	if len(resp.Citations) > 0 {
		cmd.Println("\nSources:")
		for i, c := range resp.Citations {
			cmd.Printf("  [%d] page %d, chars %d-%d (score %.2f)\n",
				i+1, c.PageNumber, c.CharStart, c.CharEnd, c.RelevanceScore)
			cmd.Printf("      %s\n", c.Text)
		}
	}

	cmd.Printf("\nAnswered in %.0fms\n", resp.ProcessingTimeMS)
	return nil
}
