package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/kazz187/taskdesk/internal/report"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/sentinel"
	"github.com/kazz187/taskdesk/pkg/storage"
)

var errWatchNeedsLocal = errors.New("watch requires local storage")

// runWatch prints the task overview now and after every change to the task
// store until ctx is cancelled.
func runWatch(ctx context.Context, d *deps, out io.Writer) error {
	ls, ok := d.storage.(*storage.LocalStorage)
	if !ok {
		return cerr.NewError(cerr.FailedPrecondition, "watch only works with STORAGE_TYPE=local", errWatchNeedsLocal)
	}

	printOverview := func() {
		r, err := d.tracker.BuildReport(ctx)
		if err != nil {
			cerr.Report(ctx, "failed to build report", err)
			return
		}
		fmt.Fprint(out, report.TaskOverview(r))
	}

	path := ls.Path(d.env.TasksFile)
	slog.InfoContext(ctx, "watching task store", "path", path)
	printOverview()
	return sentinel.Watch(ctx, path, printOverview)
}
