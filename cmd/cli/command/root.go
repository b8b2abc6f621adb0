package command

// root.go defines the root command for the agriport CLI.
// Global flags and shared client construction live here.

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"agriport/internal/api"
	"agriport/internal/config"
	"agriport/internal/gateway"
	applog "agriport/internal/log"
	"agriport/internal/session"
)

var (
	apiURL string // global flag for the API server URL
	cfg    *config.Config
	logger zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agriport",
	Short: "agriport - Agriport marketplace command line client",
	Long: `agriport is the terminal client for the Agriport farm-to-market API.
Farmers, buyers and admins can use it to:
- Login and manage their session
- Browse and search the marketplace
- Reserve produce from farmers
- Read and watch notifications
- Chat with the other side of a reservation
- Run admin tasks (approvals, broadcasts, user management)

Use "agriport [command] --help" to see the options for each command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	loaded, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	if err := loaded.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg = loaded
	logger = applog.New(cfg.LogLevel, cfg.LogFormat)

	rootCmd.PersistentFlags().StringVar(&apiURL, "api", cfg.APIURL, "API server URL")
}

// newSessionStore opens the configured session backend.
func newSessionStore() (session.Store, error) {
	return session.NewStore(cfg.SessionBackend, cfg.SessionFile)
}

// newAPIClient wires the session store, gateway and typed API client
// the way every subcommand needs them.
func newAPIClient() (*api.Client, error) {
	store, err := newSessionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	redirector := gateway.RedirectorFunc(func(session.UserType) {
		color.Red("Your session has expired. Please run 'agriport auth login' again.")
	})

	gw := gateway.New(gateway.Config{
		BaseURL:           apiURL,
		AuthScheme:        cfg.AuthScheme,
		Timeout:           cfg.HTTPTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		RequestBurst:      cfg.RequestBurst,
	}, store, redirector, logger)

	return api.NewClient(gw), nil
}

// requireSession loads the current session or tells the user to login.
func requireSession() (*session.Session, error) {
	store, err := newSessionStore()
	if err != nil {
		return nil, err
	}
	current, err := store.Read()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("not logged in; run 'agriport auth login' first")
	}
	return current, nil
}
