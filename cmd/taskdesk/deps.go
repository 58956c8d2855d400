package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sourcegraph/conc"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kazz187/taskdesk/internal/activity"
	"github.com/kazz187/taskdesk/internal/config"
	"github.com/kazz187/taskdesk/internal/eventbus"
	"github.com/kazz187/taskdesk/internal/report"
	taskrepo "github.com/kazz187/taskdesk/internal/task/repositoryimpl"
	"github.com/kazz187/taskdesk/internal/tracker"
	userrepo "github.com/kazz187/taskdesk/internal/user/repositoryimpl"
	"github.com/kazz187/taskdesk/pkg/clog"
	"github.com/kazz187/taskdesk/pkg/storage"
)

// deps is everything a command needs, wired from the environment.
type deps struct {
	env     *config.Env
	storage storage.Storage
	tracker *tracker.Service
	bus     *eventbus.Bus
	wg      *conc.WaitGroup
}

func newDeps(ctx context.Context, env *config.Env) (*deps, error) {
	var (
		store storage.Storage
		err   error
	)
	switch env.StorageEnv.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 storage: %w", err)
		}
	default:
		store, err = storage.NewLocalStorage(env.BaseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local storage: %w", err)
		}
	}
	return wire(ctx, env, store)
}

func wire(ctx context.Context, env *config.Env, store storage.Storage) (*deps, error) {
	codec, err := taskrepo.NewCodec(env.TaskFormat)
	if err != nil {
		return nil, err
	}
	policy, err := taskrepo.ParseLoadPolicy(env.LoadPolicy)
	if err != nil {
		return nil, err
	}

	bus := eventbus.New()
	wg := conc.NewWaitGroup()
	logger := activity.NewLogger(store, env.ActivityFile)
	if logger.Enabled() {
		_, events := bus.Subscribe(64)
		// Keep writing after ctx is cancelled so queued events are not lost.
		logCtx := context.WithoutCancel(ctx)
		wg.Go(func() { logger.Run(logCtx, events) })
	}

	svc := tracker.NewService(
		taskrepo.NewFileRepository(store, env.TasksFile, codec, taskrepo.WithLoadPolicy(policy)),
		userrepo.NewTextRepository(store, env.UsersFile),
		tracker.WithAdmin(env.AdminUser),
		tracker.WithEventBus(bus),
		tracker.WithReportWriter(report.NewWriter(store, env.TaskOverviewFile, env.UserOverviewFile)),
	)
	return &deps{env: env, storage: store, tracker: svc, bus: bus, wg: wg}, nil
}

// close stops the activity logger after it has written every queued event.
func (d *deps) close() {
	d.bus.Close()
	d.wg.Wait()
}

// setupLogger installs the default logger. Interactive sessions without a
// log file only log warnings so records do not mix with the prompts.
func setupLogger(env *config.Env, interactive bool) func() {
	level := env.SlogLevel()
	var (
		w        io.Writer = os.Stderr
		closeLog           = func() {}
		tty                = true
	)
	if env.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   env.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w, tty = lj, false
		closeLog = func() { _ = lj.Close() }
	} else if interactive && level < slog.LevelWarn {
		level = slog.LevelWarn
	}

	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(w, clog.WithLevel(level), clog.WithColor(tty))
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))
	return closeLog
}
