package command

// auth.go handles authentication commands for the agriport CLI:
// login, register, logout and password reset.

import (
	"fmt"

	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/session"
)

// authCmd represents the auth command for authentication related subcommands
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  `Authenticate with the Agriport API. Supports login, registration, logout and password reset.`,
}

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Login to your Agriport account",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		userType := session.UserType(role)
		if !userType.Valid() {
			return fmt.Errorf("role must be Farmer, Buyer or Admin")
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		current, err := client.LoginAndSave(cmd.Context(), userType, &api.LoginRequest{
			Email:    email,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("login process failed: %w", err)
		}

		fmt.Println("✓ Successfully logged in!")
		fmt.Printf("Welcome back, %s (%s)\n", current.DisplayName, current.UserType)
		return nil
	},
}

// registerCmd represents the register command
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new Agriport account",
	RunE: func(cmd *cobra.Command, args []string) error {
		var req api.RegisterRequest
		req.Username, _ = cmd.Flags().GetString("username")
		req.Email, _ = cmd.Flags().GetString("email")
		req.Password, _ = cmd.Flags().GetString("password")
		req.ConfirmPassword = req.Password
		req.FullName, _ = cmd.Flags().GetString("name")
		req.Phone, _ = cmd.Flags().GetString("phone")
		req.FarmName, _ = cmd.Flags().GetString("farm-name")
		req.FarmLocation, _ = cmd.Flags().GetString("farm-location")
		role, _ := cmd.Flags().GetString("role")

		userType := session.UserType(role)
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		response, err := client.Register(cmd.Context(), userType, &req)
		if err != nil {
			return fmt.Errorf("registration process failed: %w", err)
		}

		fmt.Println("✓ Registration successful!")
		fmt.Printf("UserID: %d\n", response.UserID)
		if userType == session.UserTypeFarmer {
			fmt.Println("Your account is pending admin approval. You will be notified by email.")
		} else {
			fmt.Println("Please login to continue.")
		}
		return nil
	},
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Logout from your Agriport account",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.Logout(); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Println("✓ Successfully logged out.")
		return nil
	},
}

// resetPasswordCmd represents the password reset flow
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Request or complete a password reset",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		token, _ := cmd.Flags().GetString("token")
		newPassword, _ := cmd.Flags().GetString("new-password")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		// without a token we can only request the reset email
		if token == "" {
			if err := client.RequestPasswordReset(cmd.Context(), email); err != nil {
				return fmt.Errorf("password reset request failed: %w", err)
			}
			fmt.Println("✓ Reset email sent. Re-run with --token and --new-password to finish.")
			return nil
		}

		if err := client.ResetPassword(cmd.Context(), token, newPassword, newPassword); err != nil {
			return fmt.Errorf("password reset failed: %w", err)
		}
		fmt.Println("✓ Password updated. Please login with your new password.")
		return nil
	},
}

// verifyEmailCmd redeems an email verification token
var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Verify your email address",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		if err := client.VerifyEmail(cmd.Context(), token); err != nil {
			return fmt.Errorf("email verification failed: %w", err)
		}
		fmt.Println("✓ Email verified.")
		return nil
	},
}

// whoamiCmd shows the current session
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := requireSession()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\n", current.DisplayName, current.UserType)
		fmt.Printf("Email: %s\n", current.Email)
		fmt.Printf("UserID: %d\n", current.UserID)
		return nil
	},
}

// init function to add auth commands to root command
func init() {
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(registerCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(resetPasswordCmd)
	authCmd.AddCommand(verifyEmailCmd)
	authCmd.AddCommand(whoamiCmd)

	loginCmd.Flags().StringP("email", "e", "", "Email address for the account")
	loginCmd.Flags().StringP("password", "p", "", "Password for the account")
	loginCmd.Flags().StringP("role", "r", "Buyer", "Role to login as (Farmer, Buyer, Admin)")
	loginCmd.MarkFlagRequired("email")
	loginCmd.MarkFlagRequired("password")

	registerCmd.Flags().StringP("username", "u", "", "Username for the new account")
	registerCmd.Flags().StringP("email", "e", "", "Email address for the new account")
	registerCmd.Flags().StringP("password", "p", "", "Password for the new account")
	registerCmd.Flags().StringP("name", "n", "", "Full name")
	registerCmd.Flags().String("phone", "", "Phone number")
	registerCmd.Flags().StringP("role", "r", "Buyer", "Role to register as (Farmer or Buyer)")
	registerCmd.Flags().String("farm-name", "", "Farm name (farmers only)")
	registerCmd.Flags().String("farm-location", "", "Farm location (farmers only)")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	resetPasswordCmd.Flags().StringP("email", "e", "", "Email address for the account")
	resetPasswordCmd.Flags().String("token", "", "Reset token from the email")
	resetPasswordCmd.Flags().String("new-password", "", "New password")

	verifyEmailCmd.Flags().String("token", "", "Verification token from the email")
	verifyEmailCmd.MarkFlagRequired("token")

	rootCmd.AddCommand(authCmd)
}
