package command

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/controller"
	"agriport/internal/render"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your dashboard",
	Long:  `Show the role-specific dashboard: stats, recent reservations and recent notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		data, err := client.GetDashboardData(cmd.Context(), current.UserType)
		if err != nil {
			return err
		}

		fmt.Printf("%s dashboard for %s\n", current.UserType, current.DisplayName)
		fmt.Println(strings.Repeat("=", 50))

		keys := make([]string, 0, len(data.Stats))
		for k := range data.Stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%s: %.2f\n", strings.ReplaceAll(k, "_", " "), data.Stats[k])
		}

		if len(data.RecentReservations) > 0 {
			fmt.Println("\nRecent reservations:")
			for _, r := range data.RecentReservations {
				fmt.Printf("  [%d] %s — %s, %s\n", r.ID, r.ProductName, r.Status,
					render.RelativeTime(r.CreatedAt, time.Now()))
			}
		}

		if len(data.RecentNotifications) > 0 {
			fmt.Println("\nRecent notifications:")
			for _, n := range data.RecentNotifications {
				printNotification(n)
			}
		}

		config := controller.ConfigForRole(current.UserType)
		fmt.Println("\nQuick actions:")
		for _, action := range config.Actions {
			fmt.Printf("  %s (%s)\n", action.Label, action.Path)
		}
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Profile commands",
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		p, err := client.GetProfile(cmd.Context(), current.UserType)
		if err != nil {
			return err
		}
		printProfile(p)
		return nil
	},
}

var updateProfileCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		// start from the stored profile so unset flags keep their value
		p, err := client.GetProfile(cmd.Context(), current.UserType)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("name") {
			p.FullName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("phone") {
			p.Phone, _ = cmd.Flags().GetString("phone")
		}
		if cmd.Flags().Changed("address") {
			p.Address, _ = cmd.Flags().GetString("address")
		}
		if cmd.Flags().Changed("farm-name") {
			p.FarmName, _ = cmd.Flags().GetString("farm-name")
		}
		if cmd.Flags().Changed("farm-location") {
			p.FarmLocation, _ = cmd.Flags().GetString("farm-location")
		}

		updated, err := client.UpdateProfile(cmd.Context(), current.UserType, p)
		if err != nil {
			return err
		}
		color.Green("✓ Profile updated.")
		printProfile(updated)
		return nil
	},
}

func printProfile(p *api.Profile) {
	fmt.Printf("Name: %s\n", p.FullName)
	if p.Phone != "" {
		fmt.Printf("Phone: %s\n", p.Phone)
	}
	if p.Address != "" {
		fmt.Printf("Address: %s\n", p.Address)
	}
	if p.FarmName != "" {
		fmt.Printf("Farm: %s (%s)\n", p.FarmName, p.FarmLocation)
	}
}

func init() {
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(updateProfileCmd)

	updateProfileCmd.Flags().StringP("name", "n", "", "Full name")
	updateProfileCmd.Flags().String("phone", "", "Phone number")
	updateProfileCmd.Flags().String("address", "", "Address")
	updateProfileCmd.Flags().String("farm-name", "", "Farm name (farmers only)")
	updateProfileCmd.Flags().String("farm-location", "", "Farm location (farmers only)")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(profileCmd)
}
