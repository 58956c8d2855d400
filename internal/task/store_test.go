package task

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

// memRepository keeps persisted records as cloned tasks so tests can tell
// the working copy from what was written.
type memRepository struct {
	records  []*Task
	appends  int
	rewrites int
	failWith error
}

func (r *memRepository) LoadAll(context.Context) ([]*Task, error) {
	out := make([]*Task, len(r.records))
	for i, t := range r.records {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *memRepository) Append(_ context.Context, t *Task) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.appends++
	r.records = append(r.records, t.Clone())
	return nil
}

func (r *memRepository) RewriteAll(_ context.Context, tasks []*Task) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.rewrites++
	r.records = nil
	for _, t := range tasks {
		r.records = append(r.records, t.Clone())
	}
	return nil
}

func seededStore(t *testing.T, n int) (*Store, *memRepository) {
	t.Helper()
	repo := &memRepository{}
	for i := 0; i < n; i++ {
		repo.records = append(repo.records, New("amy", string(rune('a'+i)), "d", oct3, WithAssignDate(oct1)))
	}
	s := NewStore(repo)
	require.NoError(t, s.Load(context.Background()))
	return s, repo
}

func TestStore_AddAppendsOnly(t *testing.T) {
	s, repo := seededStore(t, 2)

	require.NoError(t, s.Add(context.Background(), New("bob", "new", "d", oct3)))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, repo.appends)
	assert.Equal(t, 0, repo.rewrites)
	assert.Equal(t, "new", repo.records[2].Title)
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	s, repo := seededStore(t, 1)
	err := s.Add(context.Background(), &Task{})
	require.ErrorIs(t, err, ErrInvalidTask)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, repo.appends)
}

func TestStore_AddKeepsWorkingCopyOnFailure(t *testing.T) {
	s, repo := seededStore(t, 1)
	repo.failWith = errors.New("disk full")
	require.Error(t, s.Add(context.Background(), New("bob", "new", "d", oct3)))
	assert.Equal(t, 1, s.Len())
}

func TestStore_DeleteAtThenLoad(t *testing.T) {
	ctx := context.Background()
	s, repo := seededStore(t, 3)
	before, err := repo.LoadAll(ctx)
	require.NoError(t, err)

	removed, err := s.DeleteAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before[1].ID, removed.ID)

	reloaded := NewStore(repo)
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, len(before)-1, reloaded.Len())
	assert.Equal(t, before[0], reloaded.Tasks()[0])
	assert.Equal(t, before[2], reloaded.Tasks()[1])
}

func TestStore_DeleteAtOutOfRange(t *testing.T) {
	s, repo := seededStore(t, 2)
	for _, idx := range []int{-1, 2, 100} {
		_, err := s.DeleteAt(context.Background(), idx)
		require.ErrorIs(t, err, ErrIndexOutOfRange)
		assert.True(t, cerr.IsCode(err, cerr.OutOfRange))
	}
	assert.Equal(t, 0, repo.rewrites)
	assert.Equal(t, 2, s.Len())
}

func TestStore_DeleteAtKeepsWorkingCopyOnFailure(t *testing.T) {
	s, repo := seededStore(t, 2)
	repo.failWith = errors.New("disk full")
	_, err := s.DeleteAt(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestStore_FindAndDeleteByID(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t, 3)
	target := s.Tasks()[2]

	found, idx, err := s.Find(target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assert.Same(t, target, found)

	_, err = s.Delete(ctx, target.ID)
	require.NoError(t, err)

	_, _, err = s.Find(target.ID)
	require.ErrorIs(t, err, ErrTaskNotFound)
	assert.True(t, cerr.IsCode(err, cerr.NotFound))
}

func TestStore_SavePersistsEdits(t *testing.T) {
	ctx := context.Background()
	s, repo := seededStore(t, 2)

	first, err := s.At(0)
	require.NoError(t, err)
	first.MarkComplete()
	require.NoError(t, s.Save(ctx))

	assert.Equal(t, 1, repo.rewrites)
	assert.True(t, repo.records[0].Completed)
	assert.False(t, repo.records[1].Completed)
}

func TestStore_TasksIsSnapshot(t *testing.T) {
	s, _ := seededStore(t, 2)
	snap := s.Tasks()
	snap[0] = nil
	first, err := s.At(0)
	require.NoError(t, err)
	assert.NotNil(t, first)
}
