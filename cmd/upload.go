package cmd

import (
	"context"
	"os"
	"path/filepath"

	"alpinesearch-cli/cmd/config"

	"github.com/spf13/cobra"
)

// uploadCmd represents the `alpine upload` command
var uploadCmd = &cobra.Command{
	Use:   "upload <file> [file...]",
	Short: "Upload documents to the Alpine AI server",
	Long: `Upload one or more documents for later indexing. Run 'alpine ingest'
afterwards to make them searchable.

Examples:
  alpine upload report.pdf
  alpine upload notes.txt policies/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(getEffectiveCWD())
		if err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}

		client := NewClient(effectiveServerURL(cfg.ServerURL))
		ctrl := NewUploadController()

		failed := false
		for _, path := range args {
			if err := uploadOne(client, ctrl, path); err != nil {
				failed = true
			}
		}
		if failed {
			os.Exit(1)
		}
	},
}

// uploadOne runs a single pass of the upload track: select, upload, finish.
func uploadOne(client *Client, ctrl *UploadController, path string) error {
	if err := ctrl.SelectFile(path); err != nil {
		OutputError("Error: %v", err)
		return err
	}

	staged, err := ctrl.BeginUpload()
	if err != nil {
		OutputError("Error: %v", err)
		return err
	}

	f, err := os.Open(staged)
	if err != nil {
		ctrl.FinishUpload()
		OutputError("Error Uploading document. %v", err)
		return err
	}

	_, upErr := client.UploadDocument(context.Background(), filepath.Base(staged), f)
	f.Close()
	ctrl.FinishUpload()

	text, ok := UploadOutcome(upErr)
	Notify(text, ok)
	return upErr
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
