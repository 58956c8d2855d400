// Package activity writes the tracker's change events to an NDJSON log.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kazz187/taskdesk/internal/eventbus"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/storage"
)

type entry struct {
	*eventbus.Event
	LoggedAt string `json:"logged_at"`
}

type Logger struct {
	storage storage.Storage
	path    string
	now     func() time.Time
}

func NewLogger(s storage.Storage, path string) *Logger {
	return &Logger{storage: s, path: path, now: time.Now}
}

// Enabled reports whether a log path is configured.
func (l *Logger) Enabled() bool {
	return l.path != ""
}

func (l *Logger) Log(ctx context.Context, ev *eventbus.Event) error {
	if !l.Enabled() {
		return nil
	}
	data, err := json.Marshal(entry{Event: ev, LoggedAt: l.now().Format(time.RFC3339)})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := l.storage.Append(ctx, l.path, append(data, '\n')); err != nil {
		return cerr.WrapStorageWriteError("activity log", err)
	}
	return nil
}

// Run logs every event from events until the channel is closed. Write
// failures are logged and do not stop the loop.
func (l *Logger) Run(ctx context.Context, events <-chan *eventbus.Event) {
	for ev := range events {
		if err := l.Log(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "failed to write activity log", "event_id", ev.ID, "error", err)
		}
	}
}
