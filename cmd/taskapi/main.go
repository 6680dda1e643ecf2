package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"pomodoro/internal/config"
	"pomodoro/internal/db"
	"pomodoro/internal/handler"
	"pomodoro/internal/repository"
	"pomodoro/internal/router"
	"pomodoro/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "taskapi",
		Short:        "Task API server for the pomodoro client",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply pending migrations and serve the API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(config.Load())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			log.Printf("migrations applied to %s", cfg.DBPath)
			return nil
		},
	}
}

func openDatabase(cfg config.Config) (*sql.DB, error) {
	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(database, cfg.Migrations()); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return database, nil
}

func serve(cfg config.Config) error {
	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	taskService := service.NewTaskService(taskRepo)

	authHandler := handler.NewAuthHandler(authService)
	taskHandler := handler.NewTaskHandler(taskService)

	engine := router.New(authService, authHandler, taskHandler, cfg.CORSOrigins)
	log.Printf("task api listening on :%s", cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
