package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var collectionJSON bool

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Summarise the indexed collection",
	RunE:  runCollection,
}

func init() {
	collectionCmd.Flags().BoolVar(&collectionJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(collectionCmd)
}

func runCollection(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	stats, err := searchService.AnalyzeCollection(ctx)
	if err != nil {
		return fmt.Errorf("analysing collection: %w", err)
	}

	if collectionJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Documents: %d\n", stats.TotalDocuments)
	cmd.Printf("Chunks:    %d\n", stats.TotalChunks)
	if len(stats.TypeBreakdown) > 0 {
		cmd.Println("By type:")
		types := make([]domain.FileType, 0, len(stats.TypeBreakdown))
		for fileType := range stats.TypeBreakdown {
			types = append(types, fileType)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
		for _, fileType := range types {
			cmd.Printf("  %-12s %d\n", fileType, stats.TypeBreakdown[fileType])
		}
	}
	return nil
}
