package command

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/poller"
	"agriport/internal/render"
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Messaging commands",
	Long:  `List conversations, read transcripts and exchange messages with buyers and farmers.`,
}

var listConversationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		list, err := client.ListConversations(cmd.Context())
		if err != nil {
			return err
		}

		if len(list.Conversations) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		for _, conv := range list.Conversations {
			other := conv.Other(current.UserID)
			unread := ""
			if conv.UnreadCount > 0 {
				unread = color.YellowString(" (%d unread)", conv.UnreadCount)
			}
			fmt.Printf("[%d] %s (%s)%s\n", conv.ID, other.Name, other.UserType, unread)
			fmt.Printf("  %s\n", conv.LastMessage)
			fmt.Printf("  %s\n", render.RelativeTime(conv.UpdatedAt, time.Now()))
			fmt.Println(strings.Repeat("-", 50))
		}
		return nil
	},
}

var openConversationCmd = &cobra.Command{
	Use:   "open [conversation-id]",
	Short: "Show a conversation transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid conversation ID: %w", err)
		}

		current, err := requireSession()
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		detail, err := client.GetConversation(cmd.Context(), id)
		if err != nil {
			return err
		}
		printTranscript(detail, current.UserID)

		watch, _ := cmd.Flags().GetBool("watch")
		if !watch {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchConversation(ctx, client, id, current.UserID, detail)
	},
}

// watchConversation polls the conversation and prints messages that
// arrived since the last poll.
func watchConversation(ctx context.Context, client *api.Client, id, userID int64, last *api.ConversationDetail) error {
	lastID := int64(0)
	if len(last.Messages) > 0 {
		lastID = last.Messages[len(last.Messages)-1].ID
	}

	tick := func(ctx context.Context) error {
		detail, err := client.GetConversation(ctx, id)
		if err != nil {
			return err
		}
		for _, m := range detail.Messages {
			if m.ID <= lastID {
				continue
			}
			lastID = m.ID
			printMessage(m, userID)
		}
		return nil
	}

	fmt.Printf("\nWatching for new messages every %s. Press Ctrl+C to stop.\n", cfg.MessagePollInterval)
	p := poller.New("conversation", cfg.MessagePollInterval, logger)
	p.Start(ctx, tick)
	<-ctx.Done()
	p.Stop()
	return nil
}

var sendMessageCmd = &cobra.Command{
	Use:   "send [conversation-id] [message...]",
	Short: "Send a message in a conversation",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid conversation ID: %w", err)
		}
		content := strings.Join(args[1:], " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if _, err := client.SendMessage(cmd.Context(), id, content); err != nil {
			return err
		}
		fmt.Println("✓ Message sent.")
		return nil
	},
}

var startConversationCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a conversation with another user",
	RunE: func(cmd *cobra.Command, args []string) error {
		recipientID, _ := cmd.Flags().GetInt64("to")
		content, _ := cmd.Flags().GetString("message")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		result, err := client.StartConversation(cmd.Context(), &api.StartConversationRequest{
			RecipientID: recipientID,
			Content:     content,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Conversation %d started.\n", result.Conversation.ID)
		return nil
	},
}

func printTranscript(detail *api.ConversationDetail, userID int64) {
	other := detail.Conversation.Other(userID)
	fmt.Printf("Conversation with %s (%s)\n", other.Name, other.UserType)
	fmt.Println(strings.Repeat("=", 50))
	for _, m := range detail.Messages {
		printMessage(m, userID)
	}
}

func printMessage(m api.Message, userID int64) {
	stamp := m.CreatedAt.Format("Jan 2 15:04")
	if m.SenderID == userID {
		fmt.Printf("%s %s\n", stamp, color.CyanString("you: %s", m.Content))
	} else {
		fmt.Printf("%s them: %s\n", stamp, m.Content)
	}
}

func init() {
	messagesCmd.AddCommand(listConversationsCmd)
	messagesCmd.AddCommand(openConversationCmd)
	messagesCmd.AddCommand(sendMessageCmd)
	messagesCmd.AddCommand(startConversationCmd)

	openConversationCmd.Flags().BoolP("watch", "w", false, "Keep polling for new messages")

	startConversationCmd.Flags().Int64("to", 0, "UserID of the recipient (required)")
	startConversationCmd.Flags().StringP("message", "m", "", "First message to send")
	startConversationCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(messagesCmd)
}
