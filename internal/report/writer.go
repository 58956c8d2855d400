package report

import (
	"context"

	"github.com/kazz187/taskdesk/internal/stats"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/storage"
)

const (
	DefaultTaskOverviewFile = "task_overview.txt"
	DefaultUserOverviewFile = "user_overview.txt"
)

// Writer persists the rendered overviews. Each file is replaced as a whole.
type Writer struct {
	storage          storage.Storage
	taskOverviewFile string
	userOverviewFile string
}

func NewWriter(s storage.Storage, taskOverviewFile, userOverviewFile string) *Writer {
	if taskOverviewFile == "" {
		taskOverviewFile = DefaultTaskOverviewFile
	}
	if userOverviewFile == "" {
		userOverviewFile = DefaultUserOverviewFile
	}
	return &Writer{
		storage:          s,
		taskOverviewFile: taskOverviewFile,
		userOverviewFile: userOverviewFile,
	}
}

func (w *Writer) Write(ctx context.Context, r stats.Report) error {
	if err := w.storage.Write(ctx, w.taskOverviewFile, []byte(TaskOverview(r))); err != nil {
		return cerr.WrapStorageWriteError(w.taskOverviewFile, err)
	}
	if err := w.storage.Write(ctx, w.userOverviewFile, []byte(UserOverview(r))); err != nil {
		return cerr.WrapStorageWriteError(w.userOverviewFile, err)
	}
	return nil
}
