package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pomodoro/internal/activetask"
	"pomodoro/internal/app"
	"pomodoro/internal/auth"
	"pomodoro/internal/config"
	"pomodoro/internal/kv"
	"pomodoro/internal/settings"
	"pomodoro/internal/taskapi"
	"pomodoro/internal/tasks"
)

type kvCloser interface {
	kv.Store
	Close() error
}

type yamlStore struct {
	*kv.YAMLFile
}

func (yamlStore) Close() error { return nil }

func openStore(cfg config.Client) (kvCloser, error) {
	switch cfg.Store {
	case config.StoreYAML:
		path := cfg.StatePath
		if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
			path = strings.TrimSuffix(path, ext) + ".yaml"
		}
		file, err := kv.OpenYAML(path)
		if err != nil {
			return nil, err
		}
		return yamlStore{file}, nil
	default:
		db, err := kv.OpenSQLite(cfg.StatePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	}
}

// openApp builds the controller from the client config. The returned
// function stops the timer and closes the state store.
func openApp(opts *options) (*app.Controller, func(), error) {
	cfg, err := config.LoadClient(opts.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(io.Discard, "", 0)
	if opts.verbose {
		logger = log.New(os.Stderr, "pomodoro: ", log.LstdFlags)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open state store: %w", err)
	}

	var session *auth.Session
	client := taskapi.New(cfg.APIURL,
		taskapi.TokenFunc(func() string { return session.Token() }),
		taskapi.WithTimeout(cfg.RequestTimeout),
	)
	session = auth.NewSession(client, store, logger)

	settingsStore := settings.New(settings.KVPersistence{Store: store}, logger)
	binding := activetask.New(activetask.KVPersistence{Store: store}, logger)
	ctrl := app.New(app.Deps{
		Settings: settingsStore,
		Tasks:    tasks.NewStore(client, binding),
		Binding:  binding,
		Session:  session,
		Logger:   logger,
	})

	closeFn := func() {
		ctrl.Close()
		if err := store.Close(); err != nil {
			logger.Printf("close state store: %v", err)
		}
	}
	return ctrl, closeFn, nil
}

// printNotices writes controller notices to the command's output streams
// and reports whether an error notice was shown.
func printNotices(cmd *cobra.Command, ctrl *app.Controller) (*bool, func()) {
	sawError := new(bool)
	unsubscribe := ctrl.Subscribe(func(event app.Event) {
		if event.Kind != app.NoticePosted {
			return
		}
		if event.Notice.Level == app.Error {
			*sawError = true
			fmt.Fprintln(cmd.ErrOrStderr(), event.Notice.Text)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), event.Notice.Text)
	})
	return sawError, unsubscribe
}

// withApp runs fn against a fresh controller with notices printed.
func withApp(cmd *cobra.Command, opts *options, fn func(ctrl *app.Controller) error) error {
	ctrl, closeFn, err := openApp(opts)
	if err != nil {
		return err
	}
	defer closeFn()

	sawError, unsubscribe := printNotices(cmd, ctrl)
	defer unsubscribe()

	if err := fn(ctrl); err != nil {
		if *sawError {
			return reportedError{err: err}
		}
		return err
	}
	return nil
}
