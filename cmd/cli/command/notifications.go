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
	"agriport/internal/stream"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notify"},
	Short:   "Notification commands",
	Long:    `List, read and watch notifications: reservation updates, messages, payments and announcements.`,
}

var listNotificationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if _, err := requireSession(); err != nil {
			return err
		}

		var params api.ListNotificationsParams
		params.Page, _ = cmd.Flags().GetInt("page")
		params.UnreadOnly, _ = cmd.Flags().GetBool("unread")
		typeFlag, _ := cmd.Flags().GetString("type")
		params.Type = api.NotificationType(typeFlag)

		list, err := client.ListNotifications(cmd.Context(), params)
		if err != nil {
			return err
		}

		if len(list.Notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}

		fmt.Printf("%d unread, page %d of %d:\n\n", list.UnreadCount, list.Page, list.TotalPages)
		for _, n := range list.Notifications {
			printNotification(n)
		}
		return nil
	},
}

var readNotificationCmd = &cobra.Command{
	Use:   "read [id]",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid notification ID: %w", err)
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.MarkNotificationRead(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Notification %d marked as read.\n", id)
		return nil
	},
}

var readAllNotificationsCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark all notifications as read",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.MarkAllNotificationsRead(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✓ All notifications marked as read.")
		return nil
	},
}

var watchNotificationsCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new notifications until interrupted",
	Long: `Watch prints notifications as they arrive. By default it polls the API
on the configured interval; with --live it connects to the websocket
feed instead and reconnects automatically if the connection drops.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireSession(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		live, _ := cmd.Flags().GetBool("live")
		if live {
			return watchLive(ctx)
		}
		return watchPolled(ctx)
	},
}

// watchLive consumes the websocket feed and prints each notification.
func watchLive(ctx context.Context) error {
	store, err := newSessionStore()
	if err != nil {
		return err
	}
	feed := stream.NewFeed(cfg.WSURL, cfg.AuthScheme, store, logger)
	notifications, err := feed.Watch(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Watching live notifications. Press Ctrl+C to stop.")
	for n := range notifications {
		printNotification(n)
	}
	return nil
}

// watchPolled polls the notification endpoint and prints anything newer
// than what it has already shown.
func watchPolled(ctx context.Context) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var lastSeen int64
	tick := func(ctx context.Context) error {
		list, err := client.ListNotifications(ctx, api.ListNotificationsParams{UnreadOnly: true})
		if err != nil {
			return err
		}
		// newest first; print in chronological order
		for i := len(list.Notifications) - 1; i >= 0; i-- {
			n := list.Notifications[i]
			if n.ID <= lastSeen {
				continue
			}
			lastSeen = n.ID
			printNotification(n)
		}
		return nil
	}

	// seed lastSeen so only notifications from now on are printed
	seed, err := client.ListNotifications(ctx, api.ListNotificationsParams{PerPage: 1})
	if err != nil {
		return err
	}
	if len(seed.Notifications) > 0 {
		lastSeen = seed.Notifications[0].ID
	}

	fmt.Printf("Polling for notifications every %s. Press Ctrl+C to stop.\n", cfg.NotificationPollInterval)
	p := poller.New("notifications", cfg.NotificationPollInterval, logger)
	p.Start(ctx, tick)
	<-ctx.Done()
	p.Stop()
	return nil
}

func printNotification(n api.Notification) {
	marker := " "
	if !n.IsRead {
		marker = color.YellowString("●")
	}
	title := n.Title
	if n.Type == api.NotificationUrgentSale || n.Type == api.NotificationSystemAnnouncement {
		title = color.RedString(title)
	}
	fmt.Printf("%s [%d] %s\n", marker, n.ID, title)
	fmt.Printf("  %s\n", n.Message)
	fmt.Printf("  %s · %s\n", n.Type, render.RelativeTime(n.CreatedAt, time.Now()))
	fmt.Println(strings.Repeat("-", 50))
}

func init() {
	notificationsCmd.AddCommand(listNotificationsCmd)
	notificationsCmd.AddCommand(readNotificationCmd)
	notificationsCmd.AddCommand(readAllNotificationsCmd)
	notificationsCmd.AddCommand(watchNotificationsCmd)

	listNotificationsCmd.Flags().Int("page", 0, "Page number")
	listNotificationsCmd.Flags().Bool("unread", false, "Only show unread notifications")
	listNotificationsCmd.Flags().String("type", "", "Filter by notification type")

	watchNotificationsCmd.Flags().Bool("live", false, "Use the websocket feed instead of polling")

	rootCmd.AddCommand(notificationsCmd)
}
