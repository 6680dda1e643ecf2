package taskapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "pomodoro/internal/errors"
	"pomodoro/internal/model"
	"pomodoro/internal/testutil"
)

func signedIn(t *testing.T, baseURL, email string) *Client {
	t.Helper()
	ctx := context.Background()
	anon := New(baseURL, nil)
	require.NoError(t, anon.Register(ctx, email, "secret123"))
	login, err := anon.Login(ctx, email, "secret123")
	require.NoError(t, err)
	return New(baseURL, TokenFunc(func() string { return login.AccessToken }))
}

func TestTaskLifecycleAgainstServer(t *testing.T) {
	server := testutil.NewServer(t)
	client := signedIn(t, server.URL, "ada@example.com")
	ctx := context.Background()

	tasks, err := client.ListTasks(ctx)
	require.NoError(t, err, "404 for a user without tasks is an empty list")
	assert.Empty(t, tasks)

	estimate := 3
	created, err := client.CreateTask(ctx, model.TaskFields{Title: "Write report", EstimatedPomodoros: &estimate})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, 0, created.CompletedPomodoros)

	fields := created.Fields()
	fields.IsCompleted = true
	fields.CompletedPomodoros = 2
	require.NoError(t, client.UpdateTask(ctx, created.ID, fields))

	got, err := client.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.IsCompleted)
	assert.Equal(t, 2, got.CompletedPomodoros)
	require.NotNil(t, got.EstimatedPomodoros)
	assert.Equal(t, 3, *got.EstimatedPomodoros)

	tasks, err = client.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	require.NoError(t, client.DeleteTask(ctx, created.ID))
	err = client.DeleteTask(ctx, created.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestServerErrorsDecodeIntoAPIError(t *testing.T) {
	server := testutil.NewServer(t)
	client := signedIn(t, server.URL, "bob@example.com")

	_, err := client.CreateTask(context.Background(), model.TaskFields{Title: " "})
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_title", apiErr.Code)

	_, err = New(server.URL, nil).Login(context.Background(), "bob@example.com", "wrong-password")
	assert.True(t, apperrors.IsUnauthorized(err))

	err = New(server.URL, nil).Register(context.Background(), "bob@example.com", "secret123")
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	server := testutil.NewServer(t)

	_, err := New(server.URL, nil).ListTasks(context.Background())
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = New(server.URL, TokenFunc(func() string { return "garbage" })).ListTasks(context.Background())
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestBearerTokenOnlyOnAPIRoutes(t *testing.T) {
	seen := map[string]string{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen[r.URL.Path] = r.Header.Get("Authorization")
		switch r.URL.Path {
		case "/login":
			_, _ = w.Write([]byte(`{"accessToken":"fresh"}`))
		case "/register":
			w.WriteHeader(http.StatusCreated)
		default:
			_, _ = w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	client := New(server.URL+"/", TokenFunc(func() string { return "tok" }))
	ctx := context.Background()
	_, err := client.ListTasks(ctx)
	require.NoError(t, err)
	_, err = client.Login(ctx, "a@b.c", "secret123")
	require.NoError(t, err)
	require.NoError(t, client.Register(ctx, "a@b.c", "secret123"))

	assert.Equal(t, "Bearer tok", seen["/api/TaskItem"])
	assert.Equal(t, "", seen["/login"])
	assert.Equal(t, "", seen["/register"])
}

func TestWithHTTPClientReachesTLSServer(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := New(server.URL, nil).ListTasks(context.Background())
	require.Error(t, err)

	tasks, err := New(server.URL, nil, WithHTTPClient(server.Client())).ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestFlatMessageErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"account disabled"}`))
	}))
	defer server.Close()

	err := New(server.URL, nil).DeleteTask(context.Background(), 1)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "account disabled", apiErr.Message)
	assert.Equal(t, "forbidden", apiErr.Code)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestNeedsToken(t *testing.T) {
	assert.True(t, needsToken("/api/TaskItem"))
	assert.True(t, needsToken("/api/TaskItem/4"))
	assert.False(t, needsToken("/login"))
	assert.False(t, needsToken("/register"))
	assert.False(t, needsToken("/api/login"))
	assert.False(t, needsToken("/health"))
}
