package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipe-feed/cmd/config"
	migration "recipe-feed/cmd/database/migrate"
	"recipe-feed/internal/utils"
	"recipe-feed/pkg/session"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "recipe-feed",
	Short: "Recipe sharing API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.LoadConfigFile(configPath)
		if utils.IsProduction() {
			log.SetLevel(log.LevelInfo)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		return migration.Migrate(db)
	},
}

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Session housekeeping",
}

var pruneSessionsCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete expired sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		sessionService := session.NewSessionService(session.NewSessionRepository(db), nil, utils.SessionTTL())
		deleted, err := sessionService.DeleteExpiredSessions(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired sessions\n", deleted)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", utils.DefaultConfigPath, "path to the YAML config file")
	sessionsCmd.AddCommand(pruneSessionsCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, sessionsCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if err := migration.Migrate(db); err != nil {
		return err
	}

	opts := config.AppOptions{}
	rdb, err := config.ConnectRedis(ctx)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		opts.SessionCache = session.NewRedisCache(rdb)
	}

	app, err := config.NewApp(ctx, db, opts)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(":" + utils.GetConfig("APP_PORT"))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
