// ABOUTME: CLI commands to browse and delete coach conversations
// ABOUTME: Lists threads newest first and prints a thread's messages
package commands

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/fuel-ledger/internal/ledger"
	"github.com/harper/fuel-ledger/internal/models"
)

var conversationsLimit int

// NewConversationsCmd creates the conversations command group
func NewConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conversations",
		Short: "Browse coach conversations",
		Long: `Browse and delete coach conversations.

Examples:
  fuel conversations list
  fuel conversations show conv_1234
  fuel conversations rm conv_1234`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations, most recent first",
		RunE:  runConversationsList,
	}
	listCmd.Flags().IntVarP(&conversationsLimit, "limit", "n", 20, "Maximum number of conversations")

	showCmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Print the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE:  runConversationsShow,
	}

	rmCmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE:  runConversationsRemove,
	}

	cmd.AddCommand(listCmd)
	cmd.AddCommand(showCmd)
	cmd.AddCommand(rmCmd)

	return cmd
}

func runConversationsList(cmd *cobra.Command, args []string) error {
	if err := validatePositiveInt(conversationsLimit, "limit"); err != nil {
		return err
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	convs := a.Ledger.Conversations()
	sort.SliceStable(convs, func(i, j int) bool { return convs[i].UpdatedAt.After(convs[j].UpdatedAt) })
	if len(convs) > conversationsLimit {
		convs = convs[:conversationsLimit]
	}

	if jsonOutput() {
		return writeJSON(cmd, convs)
	}
	if len(convs) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No conversations yet. Start one with: fuel chat \"hello\"")
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tMESSAGES\tUPDATED\n")
	fmt.Fprintf(w, "--\t-----\t--------\t-------\n")
	for _, c := range convs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", c.ID, truncate(c.Title, 40), len(c.Messages), formatTime(c.UpdatedAt))
	}
	return w.Flush()
}

func runConversationsShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	conv, ok := a.Ledger.Conversation(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", ledger.ErrConversationNotFound, args[0])
	}

	if jsonOutput() {
		return writeJSON(cmd, conv)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\n", conv.Title)
	for _, m := range conv.Messages {
		who := "you"
		if m.Sender == models.SenderAssistant {
			who = "coach"
		}
		fmt.Fprintf(out, "[%s] %s:\n%s\n\n", m.Timestamp.In(a.Ledger.Location()).Format("2006-01-02 15:04"), who, m.Text)
	}
	return nil
}

func runConversationsRemove(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	removed, err := a.Ledger.DeleteConversation(args[0])
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: %s", ledger.ErrConversationNotFound, args[0])
	}
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted conversation %s\n", args[0])
	}
	return nil
}
