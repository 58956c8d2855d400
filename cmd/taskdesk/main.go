package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"

	"github.com/kazz187/taskdesk/internal/config"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/clog"
)

var (
	app     = kingpin.New("taskdesk", "Task tracker for small teams")
	envFile = app.Flag("env-file", "Dotenv file to load before reading the environment").Default(".env").String()

	sessionCmd = app.Command("session", "Log in and manage tasks interactively").Default()

	reportCmd      = app.Command("report", "Write the task and user overview files")
	reportUser     = reportCmd.Flag("user", "Admin username").Short('u').Required().String()
	reportPassword = reportCmd.Flag("password", "Admin password, prompted for when empty").Envar("TASKDESK_PASSWORD").String()

	watchCmd = app.Command("watch", "Print the task overview whenever the task store changes")

	serveCmd = app.Command("serve", "Serve a read-only JSON view over HTTP")
)

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := run(command); err != nil {
		os.Exit(1)
	}
}

func run(command string) error {
	env, err := config.LoadEnv(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load env: %v\n", err)
		return err
	}

	closeLog := setupLogger(env, command == sessionCmd.FullCommand())
	defer closeLog()

	ctx := context.Background()
	if command == watchCmd.FullCommand() || command == serveCmd.FullCommand() {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}
	ctx = clog.ContextWithSlog(ctx)

	d, err := newDeps(ctx, env)
	if err != nil {
		cerr.Report(ctx, "failed to set up", err)
		fmt.Fprintf(os.Stderr, "failed to set up: %v\n", err)
		return err
	}
	defer d.close()

	switch command {
	case sessionCmd.FullCommand():
		err = runSession(ctx, d, os.Stdin, os.Stdout)
	case reportCmd.FullCommand():
		err = runReport(ctx, d, *reportUser, *reportPassword, os.Stdin, os.Stdout)
	case watchCmd.FullCommand():
		err = runWatch(ctx, d, os.Stdout)
	case serveCmd.FullCommand():
		err = runServe(ctx, d)
	}
	if err != nil {
		cerr.Report(ctx, command+" failed", err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", command, cerr.Message(err))
	}
	return err
}
