package cmd

import (
	"context"
	"os"
	"time"

	"alpinesearch-cli/cmd/config"

	"github.com/spf13/cobra"
)

// ingestCmd represents the `alpine ingest` command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Rebuild the server-side search index",
	Long: `Ask the Alpine AI server to (re)build its search index over the documents
it already stores. Run this after uploading new documents.

Examples:
  alpine ingest
  alpine ingest --server-url http://docsearch.internal:8888`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(getEffectiveCWD())
		if err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}

		client := NewClient(effectiveServerURL(cfg.ServerURL))
		// Index builds can take a while on large corpora
		client.HTTP = getHTTPClientWithTimeout(10 * time.Minute)

		ctrl := NewIngestController()
		if err := ctrl.BeginIngest(); err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}

		OutputInfo("Indexing documents...")
		report, err := client.Ingest(context.Background())
		ctrl.FinishIngest()

		text, ok := IngestOutcome(report, err)
		Notify(text, ok)
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
