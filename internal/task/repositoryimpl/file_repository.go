package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/storage"
)

// LoadPolicy decides what LoadAll does with a corrupt record.
type LoadPolicy string

const (
	// LoadPolicyStrict fails the whole load on the first corrupt record.
	LoadPolicyStrict LoadPolicy = "strict"
	// LoadPolicySkip logs a warning and drops each corrupt record.
	LoadPolicySkip LoadPolicy = "skip"
)

func ParseLoadPolicy(s string) (LoadPolicy, error) {
	switch LoadPolicy(s) {
	case LoadPolicyStrict, "":
		return LoadPolicyStrict, nil
	case LoadPolicySkip:
		return LoadPolicySkip, nil
	default:
		return "", fmt.Errorf("unknown load policy %q", s)
	}
}

var _ task.Repository = (*FileRepository)(nil)

// FileRepository keeps the whole task list in one storage object.
type FileRepository struct {
	storage storage.Storage
	path    string
	codec   Codec
	policy  LoadPolicy
	logger  *slog.Logger
}

type Option func(*FileRepository)

func WithLoadPolicy(p LoadPolicy) Option {
	return func(r *FileRepository) {
		r.policy = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(r *FileRepository) {
		r.logger = l
	}
}

func NewFileRepository(s storage.Storage, path string, codec Codec, opts ...Option) *FileRepository {
	r := &FileRepository{
		storage: s,
		path:    path,
		codec:   codec,
		policy:  LoadPolicyStrict,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) LoadAll(ctx context.Context) ([]*task.Task, error) {
	data, err := r.storage.Read(ctx, r.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []*task.Task{}, nil
		}
		return nil, cerr.WrapStorageReadError("task store", err)
	}

	skipped := 0
	tasks, err := r.codec.Decode(data, func(corrupt error) error {
		if r.policy != LoadPolicySkip {
			return corrupt
		}
		skipped++
		r.logger.WarnContext(ctx, "skipping corrupt task record", "path", r.path, "error", corrupt)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		r.logger.WarnContext(ctx, "task store loaded with corrupt records dropped",
			"path", r.path, "loaded", len(tasks), "skipped", skipped)
	}
	return tasks, nil
}

func (r *FileRepository) Append(ctx context.Context, t *task.Task) error {
	data, err := r.codec.Encode([]*task.Task{t})
	if err != nil {
		return err
	}

	// Records written by older versions may not end in a newline.
	existing, err := r.storage.Read(ctx, r.path)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return cerr.WrapStorageReadError("task store", err)
	}
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		data = append([]byte{'\n'}, data...)
	}

	if err := r.storage.Append(ctx, r.path, data); err != nil {
		return cerr.WrapStorageWriteError("task store", err)
	}
	return nil
}

func (r *FileRepository) RewriteAll(ctx context.Context, tasks []*task.Task) error {
	data, err := r.codec.Encode(tasks)
	if err != nil {
		return err
	}
	if err := r.storage.Write(ctx, r.path, data); err != nil {
		return cerr.WrapStorageWriteError("task store", err)
	}
	return nil
}
