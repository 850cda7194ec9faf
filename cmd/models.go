package cmd

import (
	"context"
	"os"
	"time"

	"alpinesearch-cli/cmd/config"

	"github.com/spf13/cobra"
)

// modelsCmd represents the `alpine models` command group
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List and manage inference models",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(getEffectiveCWD())
		if err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}
		OutputInfo("Available models:")
		for _, m := range cfg.Models {
			label := m.Label
			if label == "" {
				label = m.Name
			}
			OutputInfo("  %s - %s", m.Name, label)
		}
	},
}

// modelsDownloadCmd represents the `alpine models download` command
var modelsDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Trigger a server-side model download",
	Long: `Ask the Alpine AI server to fetch its inference model. The download runs
server-side and can take several minutes on first use.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(getEffectiveCWD())
		if err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}

		client := NewClient(effectiveServerURL(cfg.ServerURL))
		client.HTTP = getHTTPClientWithTimeout(30 * time.Minute)

		OutputInfo("Requesting model download...")
		report, err := client.DownloadModel(context.Background())

		text, ok := DownloadOutcome(report, err)
		Notify(text, ok)
		if !ok {
			os.Exit(1)
		}
	},
}

func init() {
	modelsCmd.AddCommand(modelsDownloadCmd)
	rootCmd.AddCommand(modelsCmd)
}
