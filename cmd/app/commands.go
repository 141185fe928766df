package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aya-platform/volunteer-hub/internal/domain"
	"github.com/aya-platform/volunteer-hub/internal/repository"
	"github.com/aya-platform/volunteer-hub/internal/repository/dao"
	"github.com/aya-platform/volunteer-hub/internal/service"
)

const defaultConfigPath = "./cmd/app/config.yml"

var configPath string

// NewRootCmd builds the volunteer-hub command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "volunteer-hub",
		Short:         "Volunteer Hub API server",
		Long:          `Backend of the volunteer organization site: profiles, moderation, events, directions and schools.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to the config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createSuperuserCmd())

	return rootCmd
}

// Execute runs the command line. With no subcommand the server is started.
func Execute() error {
	rootCmd := NewRootCmd()

	if cmd, _, err := rootCmd.Find(os.Args[1:]); err == nil && cmd == rootCmd {
		rootCmd.SetArgs(append([]string{"serve"}, os.Args[1:]...))
	}

	return rootCmd.Execute()
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start(configPath)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gdb, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()

			if err = migrate(gdb); err != nil {
				return err
			}

			zap.L().Info("database migrated")

			return nil
		},
	}
}

func createSuperuserCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an approved superuser account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SUPERUSER_PASSWORD")
			}
			if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
				return errors.New("username, email and password are required")
			}

			conf, gdb, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer func() { _ = zap.L().Sync() }()

			if err = migrate(gdb); err != nil {
				return err
			}

			ctx := context.Background()
			store, err := openStore(ctx, conf.Storage)
			if err != nil {
				return fmt.Errorf("failed to initialize storage -> %w", err)
			}

			users := repository.NewUserRepository(dao.NewUserDAO(gdb))
			notifier := service.NewNotificationService(
				repository.NewNotificationRepository(dao.NewNotificationDAO(gdb)), users)
			auth := service.NewAuthService(users, store, notifier, conf.API.PublicURL)

			user, err := auth.CreateSuperuser(ctx, domain.User{
				Username: strings.TrimSpace(username),
				Email:    strings.ToLower(strings.TrimSpace(email)),
				Password: password,
			})
			if err != nil {
				return fmt.Errorf("auth.CreateSuperuser -> %w", err)
			}

			fmt.Printf("Superuser %s created with id %d\n", user.Username, user.ID)

			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username of the superuser")
	cmd.Flags().StringVar(&email, "email", "", "Email of the superuser")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password; falls back to SUPERUSER_PASSWORD")

	return cmd
}
