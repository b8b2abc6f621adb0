package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/session"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Admin commands",
	Long:  `Admin-only operations: user management, farmer approvals, broadcasts and role listing.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		if current.UserType != session.UserTypeAdmin {
			return fmt.Errorf("admin commands require an Admin session; you are logged in as %s", current.UserType)
		}
		return nil
	},
}

var manageUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		list, err := client.ManageUsers(cmd.Context())
		if err != nil {
			return err
		}

		for _, u := range list.Users {
			state := color.GreenString("active")
			if !u.IsActive {
				state = color.RedString("inactive")
			}
			approval := ""
			if u.UserType == "Farmer" && !u.IsApproved {
				approval = color.YellowString(" pending approval")
			}
			fmt.Printf("[%d] %s <%s> %s %s%s\n", u.UserID, u.Username, u.Email, u.UserType, state, approval)
		}
		return nil
	},
}

var approveFarmerCmd = &cobra.Command{
	Use:   "approve [farmer-id]",
	Short: "Approve a pending farmer registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid farmer ID: %w", err)
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.ApproveFarmer(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("✓ Farmer %d approved.\n", id)
		return nil
	},
}

var rejectFarmerCmd = &cobra.Command{
	Use:   "reject [farmer-id]",
	Short: "Reject a pending farmer registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid farmer ID: %w", err)
		}
		reason, _ := cmd.Flags().GetString("reason")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.RejectFarmer(cmd.Context(), id, reason); err != nil {
			return err
		}
		fmt.Printf("✓ Farmer %d rejected.\n", id)
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create",
	Short: "Create another admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req api.CreateAdminRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.FullName, _ = cmd.Flags().GetString("name")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.CreateAdmin(cmd.Context(), &req); err != nil {
			return err
		}
		fmt.Printf("✓ Admin account %s created.\n", req.Username)
		return nil
	},
}

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "Send a system announcement",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req api.BroadcastRequest
		req.Title, _ = cmd.Flags().GetString("title")
		req.Message, _ = cmd.Flags().GetString("message")
		req.Audience, _ = cmd.Flags().GetString("audience")

		if !contains([]string{"all", "farmers", "buyers"}, req.Audience) {
			return fmt.Errorf("audience must be one of: all, farmers, buyers")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.Broadcast(cmd.Context(), &req); err != nil {
			return err
		}
		fmt.Printf("✓ Announcement sent to %s.\n", req.Audience)
		return nil
	},
}

var listRolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List roles and their permissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		list, err := client.ListRoles(cmd.Context())
		if err != nil {
			return err
		}
		for _, r := range list.Roles {
			fmt.Printf("[%d] %s\n", r.ID, r.Name)
			if len(r.Permissions) > 0 {
				fmt.Printf("  %s\n", strings.Join(r.Permissions, ", "))
			}
		}
		return nil
	},
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func init() {
	adminCmd.AddCommand(manageUsersCmd)
	adminCmd.AddCommand(approveFarmerCmd)
	adminCmd.AddCommand(rejectFarmerCmd)
	adminCmd.AddCommand(createAdminCmd)
	adminCmd.AddCommand(broadcastCmd)
	adminCmd.AddCommand(listRolesCmd)

	rejectFarmerCmd.Flags().StringP("reason", "r", "", "Reason shown to the farmer")

	createAdminCmd.Flags().StringP("username", "u", "", "Username for the new admin")
	createAdminCmd.Flags().StringP("email", "e", "", "Email for the new admin")
	createAdminCmd.Flags().StringP("password", "p", "", "Password for the new admin")
	createAdminCmd.Flags().StringP("name", "n", "", "Full name")
	createAdminCmd.MarkFlagRequired("username")
	createAdminCmd.MarkFlagRequired("email")
	createAdminCmd.MarkFlagRequired("password")

	broadcastCmd.Flags().StringP("title", "t", "", "Announcement title")
	broadcastCmd.Flags().StringP("message", "m", "", "Announcement body")
	broadcastCmd.Flags().StringP("audience", "a", "all", "Audience: all, farmers or buyers")
	broadcastCmd.MarkFlagRequired("title")
	broadcastCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(adminCmd)
}
