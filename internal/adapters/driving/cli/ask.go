package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/corpora-labs/corpora-cli/internal/core/domain"
)

var (
	askDepth string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question over the indexed collection",
	Long: `Retrieves balanced evidence across the indexed documents and
generates an answer with cited sources.

Depth controls retrieval breadth: quick (2 documents, 5 chunks),
standard (3 documents, 8 chunks) or deep (5 documents, 15 chunks).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askDepth, "depth", "d", "", "analysis depth: quick, standard or deep")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if err := initServices(ctx); err != nil {
		return err
	}

	depth := domain.AnalysisDepth(askDepth)
	if askDepth == "" {
		depth = domain.AnalysisDepth(appConfig.Search.Depth)
	}
	if !depth.Valid() {
		return fmt.Errorf("unknown depth %q (want quick, standard or deep)", depth)
	}

	answer, err := searchService.ComprehensiveSearch(ctx, args[0], depth)
	if err != nil {
		if errors.Is(err, domain.ErrNoDocumentsIndexed) {
			return errors.New("no documents indexed yet; run 'corpora index' first")
		}
		// Retrieval succeeded but generation failed: show the evidence
		// so the work is not lost.
		if answer != nil && answer.Context != "" {
			cmd.Println("Answer generation failed; retrieved context follows.")
			cmd.Println()
			cmd.Println(answer.Context)
		}
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	cmd.Println()
	printCitations(cmd, answer)
	cmd.Printf("Timing: index %s, search %s, generation %s\n",
		formatDuration(answer.Timing.IndexMS),
		formatDuration(answer.Timing.SearchMS),
		formatDuration(answer.Timing.GenerationMS))
	return nil
}

func printCitations(cmd *cobra.Command, answer *domain.Answer) {
	if len(answer.Citations) == 0 {
		return
	}
	cmd.Println("Sources:")
	sorted := append([]string(nil), answer.Citations...)
	sort.Strings(sorted)
	for _, docID := range sorted {
		label := docID
		if summary, err := searchService.GetDocumentSummary(cmd.Context(), docID); err == nil {
			label = summary.Path
		}
		cmd.Printf("  - %s (%d chunks)\n", label, answer.ChunkCounts[docID])
	}
	cmd.Println()
}
