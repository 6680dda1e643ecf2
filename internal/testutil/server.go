// Package testutil builds a complete in-process Task API for tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pomodoro/internal/db"
	"pomodoro/internal/handler"
	"pomodoro/internal/repository"
	"pomodoro/internal/router"
	"pomodoro/internal/service"
	"pomodoro/migrations"
)

const JWTSecret = "test-secret"

// NewEngine returns the Task API router backed by a fresh SQLite database
// in a temp dir.
func NewEngine(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	if err := db.RunMigrations(database, migrations.Server()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(database)
	taskRepo := repository.NewTaskRepository(database)
	authService := service.NewAuthService(userRepo, JWTSecret, 24*time.Hour)
	taskService := service.NewTaskService(taskRepo)

	return router.New(
		authService,
		handler.NewAuthHandler(authService),
		handler.NewTaskHandler(taskService),
		[]string{"http://localhost:4200"},
	)
}

// NewServer serves NewEngine over a real listener.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(NewEngine(t))
	t.Cleanup(server.Close)
	return server
}
