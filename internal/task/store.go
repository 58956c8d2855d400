package task

import (
	"context"
	"fmt"
	"slices"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

// Store is the in-memory working copy of the task list. Positions are only
// meaningful until the next Load; callers address tasks by ID across actions.
type Store struct {
	repo  Repository
	tasks []*Task
}

func NewStore(repo Repository) *Store {
	return &Store{repo: repo}
}

// Load replaces the working copy with the persisted tasks.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.tasks = tasks
	return nil
}

// Tasks returns a snapshot of the working copy. The slice is a copy; the
// tasks themselves are shared.
func (s *Store) Tasks() []*Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) At(index int) (*Task, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	return s.tasks[index], nil
}

// Find returns the task with the given ID and its current position.
func (s *Store) Find(id string) (*Task, int, error) {
	for i, t := range s.tasks {
		if t.ID == id {
			return t, i, nil
		}
	}
	return nil, -1, cerr.NewError(cerr.NotFound, fmt.Sprintf("task %s not found", id), ErrTaskNotFound)
}

// Add validates t, appends it to the persisted store and then to the working
// copy. The working copy is unchanged if persisting fails.
func (s *Store) Add(ctx context.Context, t *Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.repo.Append(ctx, t); err != nil {
		return err
	}
	s.tasks = append(s.tasks, t)
	return nil
}

// Save rewrites the persisted store from the working copy.
func (s *Store) Save(ctx context.Context) error {
	return s.repo.RewriteAll(ctx, s.tasks)
}

// DeleteAt removes the task at index and rewrites the persisted store.
func (s *Store) DeleteAt(ctx context.Context, index int) (*Task, error) {
	if err := s.checkIndex(index); err != nil {
		return nil, err
	}
	removed := s.tasks[index]
	remaining := slices.Delete(slices.Clone(s.tasks), index, index+1)
	if err := s.repo.RewriteAll(ctx, remaining); err != nil {
		return nil, err
	}
	s.tasks = remaining
	return removed, nil
}

// Delete removes the task with the given ID and rewrites the persisted store.
func (s *Store) Delete(ctx context.Context, id string) (*Task, error) {
	_, index, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	return s.DeleteAt(ctx, index)
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.tasks) {
		return cerr.NewError(cerr.OutOfRange,
			fmt.Sprintf("task number %d does not exist (have %d tasks)", index, len(s.tasks)),
			ErrIndexOutOfRange)
	}
	return nil
}
