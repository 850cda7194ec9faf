package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"alpinesearch-cli/cmd/config"

	"github.com/spf13/cobra"
)

var (
	chatUser      string
	chatModelName string
	chatStartDate string
	chatEndDate   string
)

// chatCmd represents the `alpine chat` command
var chatCmd = &cobra.Command{
	Use:   "chat [\"question\"]",
	Short: "Chat with the document-search assistant",
	Long: `Open the interactive chat, or ask a single question inline.

Without arguments the interactive terminal UI starts. With an inline
question, one conversation turn is performed and the answer printed.

Examples:
  # Interactive session
  alpine chat

  # One-shot question
  alpine chat --user Ken --model Falcon-40B-Docs "What is the refund policy?"`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(getEffectiveCWD())
		if err != nil {
			OutputError("Error: %v", err)
			os.Exit(1)
		}

		if len(args) == 0 {
			runChatTUI(cfg)
			return
		}

		if err := runOneShotAsk(cfg, args[0]); err != nil {
			os.Exit(1)
		}
	},
}

// runOneShotAsk performs one ask cycle using the same controllers as the
// interactive session.
func runOneShotAsk(cfg *config.Config, question string) error {
	selection := NewSelectionStore()
	session := NewSessionController()
	selection.Subscribe(session)

	if chatUser != "" {
		selection.SetUser(chatUser)
	}
	if chatModelName != "" {
		selection.SetModel(chatModelName)
	}
	if chatStartDate != "" {
		d, err := config.ParseDate(chatStartDate)
		if err != nil {
			OutputError("Invalid start date %q: expected %s", chatStartDate, config.DateLayout)
			return err
		}
		selection.SetStartDate(d)
	}
	if chatEndDate != "" {
		d, err := config.ParseDate(chatEndDate)
		if err != nil {
			OutputError("Invalid end date %q: expected %s", chatEndDate, config.DateLayout)
			return err
		}
		selection.SetEndDate(d)
	}

	req, err := session.BeginAsk(question, selection.Current())
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			OutputError("%s", verr.Message)
		} else {
			OutputError("Error: %v", err)
		}
		return err
	}

	client := NewClient(effectiveServerURL(cfg.ServerURL))
	ans, err := client.AskQuestion(context.Background(), req)
	if err != nil {
		session.FailAsk()
		var terr *TransportError
		if errors.As(err, &terr) && terr.Status != 0 {
			OutputError("Error getting data.%s", terr.Detail())
		} else {
			OutputError("Error Fetching Answer. Please try again.")
		}
		return err
	}
	session.CompleteAsk(ans)

	turns := session.Turns()
	bot := turns[len(turns)-1]
	fmt.Println(strings.TrimSpace(bot.Text))
	if src := FirstSource(bot); src != "" {
		fmt.Println(src)
	}
	return nil
}

func init() {
	chatCmd.Flags().StringVarP(&chatUser, "user", "u", "", "Identity to ask as")
	chatCmd.Flags().StringVarP(&chatModelName, "model", "m", "", "Model to ask")
	chatCmd.Flags().StringVar(&chatStartDate, "start-date", "", "Date range filter start (YYYY-MM-DD)")
	chatCmd.Flags().StringVar(&chatEndDate, "end-date", "", "Date range filter end (YYYY-MM-DD)")
	rootCmd.AddCommand(chatCmd)
}
