package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8888"

var debug bool
var serverURL string = defaultServerURL
var overrideCwd string

var rootCmd = &cobra.Command{
	Use:   "alpine",
	Short: "Alpine Search CLI - Enterprise document search from your terminal",
	Long: `Alpine Search CLI is a terminal client for the Alpine AI document-search
assistant. It lets you pick an identity and a model, upload and index
documents, and hold multi-turn conversations against the inference server.

Getting started:
  # Open the interactive chat
  alpine chat

  # Ask a one-shot question
  alpine chat --user Ken --model Falcon-40B-Docs "What is the refund policy?"

  # Upload a document and rebuild the index
  alpine upload report.pdf
  alpine ingest`,

	Run: func(cmd *cobra.Command, args []string) {
		// Default behavior when no subcommand is specified
		cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags are parsed at this point; honor --debug
		if debug {
			InitDebugLogger("")
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server-url", "", "Alpine AI server URL (default: "+defaultServerURL+")")
	rootCmd.PersistentFlags().StringVar(&overrideCwd, "cwd", "", "Override the current working directory for CLI operations")
}

// getEffectiveCWD returns the directory to treat as the working directory.
// If the global --cwd flag is provided, it returns its absolute path; otherwise os.Getwd().
func getEffectiveCWD() string {
	if strings.TrimSpace(overrideCwd) != "" {
		if filepath.IsAbs(overrideCwd) {
			return overrideCwd
		}
		abs, err := filepath.Abs(overrideCwd)
		if err != nil {
			return "."
		}
		return abs
	}

	wd, _ := os.Getwd()
	if wd == "" {
		return "."
	}

	return wd
}

// effectiveServerURL resolves the server URL from flag, environment, then
// config file.
func effectiveServerURL(configured string) string {
	if strings.TrimSpace(serverURL) != "" {
		return serverURL
	}
	if env := strings.TrimSpace(os.Getenv("ALPINE_SERVER_URL")); env != "" {
		return env
	}
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	return defaultServerURL
}
