package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var documentsJSON bool

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Inspect indexed documents",
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show the stored summary for a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

func init() {
	documentsCmd.PersistentFlags().BoolVar(&documentsJSON, "json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	docs, err := searchService.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(docs) == 0 {
		cmd.Println("No documents indexed.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s  [%s]  %s\n", docs[i].ID, docs[i].FileType, docs[i].Path)
		if len(docs[i].Topics) > 0 {
			cmd.Printf("      topics: %s\n", strings.Join(docs[i].Topics, ", "))
		}
	}
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	summary, err := searchService.GetDocumentSummary(ctx, args[0])
	if err != nil {
		return fmt.Errorf("getting document: %w", err)
	}

	if documentsJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal summary: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Path:      %s\n", summary.Path)
	cmd.Printf("Type:      %s\n", summary.FileType)
	cmd.Printf("Chunks:    %d\n", summary.ChunkCount)
	if len(summary.Topics) > 0 {
		cmd.Printf("Topics:    %s\n", strings.Join(summary.Topics, ", "))
	}
	if len(summary.Structure.Headings) > 0 {
		cmd.Printf("Headings:  %s\n", strings.Join(summary.Structure.Headings, "; "))
	}
	cmd.Println()
	cmd.Println(summary.SummaryText)
	return nil
}
