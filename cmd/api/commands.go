package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/bootstrap"
	"github.com/yigit/registrar/internal/server"
)

var configPath string

// rootCmd starts the web server when run without a subcommand
var rootCmd = &cobra.Command{
	Use:           "registrar",
	Short:         "Manage colleges, programs and students",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Run the web server.

Pending migrations are applied on start, and default colleges are created
when seeding is enabled.`,
	RunE: runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var dbcheckCmd = &cobra.Command{
	Use:   "dbcheck",
	Short: "Check that the database is reachable",
	RunE:  runDBCheck,
}

var addUserCmd = &cobra.Command{
	Use:   "adduser",
	Short: "Create an administrative user",
	RunE:  runAddUser,
}

var (
	addUserName     string
	addUserEmail    string
	addUserPassword string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.DefaultConfigPath, "path to the YAML config file")

	addUserCmd.Flags().StringVarP(&addUserName, "username", "u", "", "username (required)")
	addUserCmd.Flags().StringVarP(&addUserEmail, "email", "e", "", "email address (required)")
	addUserCmd.Flags().StringVarP(&addUserPassword, "password", "p", "", "password, at least 8 characters (required)")
	_ = addUserCmd.MarkFlagRequired("username")
	_ = addUserCmd.MarkFlagRequired("email")
	_ = addUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(serveCmd, migrateCmd, dbcheckCmd, addUserCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	srv, err := server.NewServer(cfg, lgr)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	// Run blocks until shutdown
	if err := srv.Run(); err != nil {
		return err
	}
	lgr.Info().Msg("Application finished gracefully.")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.OpenDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	return bootstrap.Migrate(cmd.Context(), database, lgr)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.OpenDatabase(cfg, lgr)
	if err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}
	defer database.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
	defer cancel()
	if err := database.Ping(ctx); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database connection OK (%s)\n", database.Dialect)
	return nil
}

func runAddUser(cmd *cobra.Command, args []string) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	deps := bootstrap.BuildDependencies(cfg, database, lgr)
	user, err := deps.UserService.RegisterUser(cmd.Context(), services.RegisterUserRequest{
		Username: addUserName,
		Email:    addUserEmail,
		Password: addUserPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User %s created (id %d)\n", user.Username, user.ID)
	return nil
}
