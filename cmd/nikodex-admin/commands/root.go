package commands

import (
	"fmt"
	"os"

	"nikodex/config"
	"nikodex/db"
	"nikodex/logger"
	"nikodex/models"
	"nikodex/storage"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nikodex-admin",
	Short: "Manage Nikodex accounts",
	Long: `nikodex-admin manages user accounts directly in the Nikodex database.

It reads the same NIKODEX_* environment variables and NIKODEX_CONFIG file as the server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return connect()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = db.Close()
		logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func connect() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(); err != nil {
		return err
	}
	if err := db.Init(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	// Deleting users removes their images
	return storage.Init()
}
