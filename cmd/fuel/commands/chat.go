// ABOUTME: CLI command to talk to the nutrition coach
// ABOUTME: Sends one message, applies any directives in the reply and logs the conversation
package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var chatConversation string

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message to the coach",
		Long: `Send a message to the nutrition coach.

The coach sees your profile and today's totals. When it logs food,
workouts or weight on your behalf the entries are written to the ledger
and listed under the reply. Requires OPENAI_API_KEY.

Examples:
  fuel chat "two eggs and toast for breakfast"
  fuel chat --conversation conv_1234 "and a coffee with milk"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runChat,
	}

	cmd.Flags().StringVarP(&chatConversation, "conversation", "c", "", "Continue an existing conversation")

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	session, err := a.Coach()
	if err != nil {
		return fmt.Errorf("coach unavailable: %w", err)
	}

	reply, err := session.Send(cmd.Context(), chatConversation, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if jsonOutput() {
		return writeJSON(cmd, reply)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, reply.Text)
	if !quiet {
		for _, m := range reply.Result.Applied {
			fmt.Fprintf(out, "✓ %s %s\n", m.Keyword, m.Summary)
		}
		fmt.Fprintf(out, "\n(conversation %s)\n", reply.ConversationID)
	}
	return nil
}
