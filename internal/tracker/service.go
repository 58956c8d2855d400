// Package tracker implements the user-facing operations of the task tracker.
// Every call reloads the stores, so nothing is cached between calls.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kazz187/taskdesk/internal/eventbus"
	"github.com/kazz187/taskdesk/internal/report"
	"github.com/kazz187/taskdesk/internal/stats"
	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/internal/user"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/clog"
	"github.com/kazz187/taskdesk/pkg/datefmt"
)

const DefaultAdmin = "admin"

// Session is an authenticated user.
type Session struct {
	User  string
	Admin bool
}

// Listing is one row of a task listing. Number is the position in that
// listing only and must not be used to address the task later.
type Listing struct {
	Number int        `json:"number"`
	Task   *task.Task `json:"task"`
}

// Change is a task before and after an edit.
type Change struct {
	Before *task.Task
	After  *task.Task
}

type AddTaskRequest struct {
	Assignee    string
	Title       string
	Description string
	// DueDate is user input in YYYY-MM-DD form.
	DueDate string
}

type Service struct {
	tasks   task.Repository
	users   user.Repository
	reports *report.Writer
	bus     *eventbus.Bus
	admin   string
	now     func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithEventBus(bus *eventbus.Bus) Option {
	return func(s *Service) {
		s.bus = bus
	}
}

func WithAdmin(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.admin = name
		}
	}
}

func WithReportWriter(w *report.Writer) Option {
	return func(s *Service) {
		s.reports = w
	}
}

func NewService(tasks task.Repository, users user.Repository, opts ...Option) *Service {
	s := &Service{
		tasks: tasks,
		users: users,
		admin: DefaultAdmin,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Today() datefmt.Date {
	return datefmt.Today(s.now())
}

func (s *Service) Login(ctx context.Context, name, password string) (*Session, error) {
	dir, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	u, err := dir.Authenticate(name, password)
	if err != nil {
		return nil, err
	}
	clog.AddAttribute(ctx, clog.UserAttributeKey, u.Name)
	slog.InfoContext(ctx, "user logged in", "user", u.Name)
	return &Session{User: u.Name, Admin: u.Name == s.admin}, nil
}

// HasUser reports whether name is a registered user.
func (s *Service) HasUser(ctx context.Context, name string) (bool, error) {
	dir, err := s.users.Load(ctx)
	if err != nil {
		return false, err
	}
	return dir.Has(name), nil
}

func (s *Service) RegisterUser(ctx context.Context, sess *Session, name, password string) error {
	if err := s.requireAdmin(sess, "register a new user"); err != nil {
		return err
	}
	dir, err := s.users.Load(ctx)
	if err != nil {
		return err
	}
	u := user.User{Name: name, Password: password}
	if err := dir.Add(u); err != nil {
		return err
	}
	if err := s.users.Append(ctx, u); err != nil {
		return err
	}
	slog.InfoContext(ctx, "user registered", "new_user", name)
	s.publish(eventbus.UserRegistered, "", sess, map[string]string{"user": name})
	return nil
}

func (s *Service) AddTask(ctx context.Context, sess *Session, req AddTaskRequest) (*task.Task, error) {
	dir, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := dir.Get(req.Assignee); err != nil {
		return nil, err
	}
	due, err := datefmt.ParseInput(req.DueDate)
	if err != nil {
		return nil, err
	}
	today := s.Today()
	if due.Before(today) {
		return nil, cerr.NewError(cerr.FailedPrecondition,
			"due date cannot be before the assignment date", ErrDueDateInPast)
	}

	store, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	t := task.New(req.Assignee, req.Title, req.Description, due, task.WithAssignDate(today))
	if err := store.Add(ctx, t); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "task added", "task_id", t.ID, "assignee", t.Assignee)
	s.publish(eventbus.TaskCreated, t.ID, sess, map[string]string{"title": t.Title, "assignee": t.Assignee})
	return t, nil
}

// AllTasks returns the current task list without a session. It backs the
// read-only views.
func (s *Service) AllTasks(ctx context.Context) ([]*task.Task, error) {
	store, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return store.Tasks(), nil
}

func (s *Service) ListTasks(ctx context.Context, _ *Session) ([]Listing, error) {
	return s.list(ctx, func(*task.Task) bool { return true })
}

// ListAssigned lists the tasks of name. Only the admin may list other users.
func (s *Service) ListAssigned(ctx context.Context, sess *Session, name string) ([]Listing, error) {
	if sess == nil || name != sess.User {
		if err := s.requireAdmin(sess, "view tasks of other users"); err != nil {
			return nil, err
		}
	}
	return s.list(ctx, func(t *task.Task) bool { return t.Assignee == name })
}

func (s *Service) ListCompleted(ctx context.Context, sess *Session) ([]Listing, error) {
	if err := s.requireAdmin(sess, "view completed tasks"); err != nil {
		return nil, err
	}
	return s.list(ctx, (*task.Task).IsCompleted)
}

// MarkComplete marks the task done. A task that is already complete is left
// as it is.
func (s *Service) MarkComplete(ctx context.Context, sess *Session, id string) (Change, error) {
	return s.edit(ctx, sess, id, eventbus.TaskCompleted, func(t *task.Task) (map[string]string, error) {
		if t.IsCompleted() {
			return nil, errUnchanged
		}
		t.MarkComplete()
		return nil, nil
	})
}

func (s *Service) Reassign(ctx context.Context, sess *Session, id, assignee string) (Change, error) {
	dir, err := s.users.Load(ctx)
	if err != nil {
		return Change{}, err
	}
	if _, err := dir.Get(assignee); err != nil {
		return Change{}, err
	}
	return s.edit(ctx, sess, id, eventbus.TaskReassigned, func(t *task.Task) (map[string]string, error) {
		from := t.Assignee
		if err := t.Reassign(assignee); err != nil {
			return nil, err
		}
		return map[string]string{"from": from, "to": assignee}, nil
	})
}

func (s *Service) SetDueDate(ctx context.Context, sess *Session, id, rawDate string) (Change, error) {
	due, err := datefmt.ParseInput(rawDate)
	if err != nil {
		return Change{}, err
	}
	return s.edit(ctx, sess, id, eventbus.TaskDueDateChanged, func(t *task.Task) (map[string]string, error) {
		from := t.DueDate
		if err := t.SetDueDate(due); err != nil {
			return nil, err
		}
		return map[string]string{"from": from.String(), "to": due.String()}, nil
	})
}

func (s *Service) DeleteTask(ctx context.Context, sess *Session, id string) (*task.Task, error) {
	if err := s.requireAdmin(sess, "delete tasks"); err != nil {
		return nil, err
	}
	store, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	removed, err := store.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "task deleted", "task_id", removed.ID)
	s.publish(eventbus.TaskDeleted, removed.ID, sess, map[string]string{"title": removed.Title})
	return removed, nil
}

func (s *Service) Stats(ctx context.Context, sess *Session) (stats.Report, error) {
	if err := s.requireAdmin(sess, "display statistics"); err != nil {
		return stats.Report{}, err
	}
	return s.BuildReport(ctx)
}

// BuildReport computes statistics for today without a session.
func (s *Service) BuildReport(ctx context.Context) (stats.Report, error) {
	store, err := s.load(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	dir, err := s.users.Load(ctx)
	if err != nil {
		return stats.Report{}, err
	}
	return stats.Build(store.Tasks(), dir.Names(), s.Today()), nil
}

// WriteReports computes statistics and writes both overview files.
func (s *Service) WriteReports(ctx context.Context, sess *Session) (stats.Report, error) {
	r, err := s.Stats(ctx, sess)
	if err != nil {
		return stats.Report{}, err
	}
	if s.reports == nil {
		return stats.Report{}, cerr.NewError(cerr.FailedPrecondition, "reports cannot be written", ErrNoReportWriter)
	}
	if err := s.reports.Write(ctx, r); err != nil {
		return stats.Report{}, err
	}
	slog.InfoContext(ctx, "reports written", "total_tasks", r.Overview.TotalTasks)
	return r, nil
}

// edit applies fn to the task with id and persists the whole list. fn may
// return errUnchanged to skip persisting.
func (s *Service) edit(ctx context.Context, sess *Session, id string, eventType eventbus.Type,
	fn func(*task.Task) (map[string]string, error)) (Change, error) {
	store, err := s.load(ctx)
	if err != nil {
		return Change{}, err
	}
	t, _, err := store.Find(id)
	if err != nil {
		return Change{}, err
	}
	if sess == nil || (!sess.Admin && t.Assignee != sess.User) {
		return Change{}, cerr.NewError(cerr.PermissionDenied,
			"you can only edit tasks assigned to you", ErrPermissionDenied)
	}

	before := t.Clone()
	detail, err := fn(t)
	if errors.Is(err, errUnchanged) {
		return Change{Before: before, After: t.Clone()}, nil
	}
	if err != nil {
		return Change{}, err
	}
	if err := store.Save(ctx); err != nil {
		return Change{}, err
	}
	slog.InfoContext(ctx, "task updated", "task_id", t.ID, "event", string(eventType))
	s.publish(eventType, t.ID, sess, detail)
	return Change{Before: before, After: t.Clone()}, nil
}

func (s *Service) list(ctx context.Context, keep func(*task.Task) bool) ([]Listing, error) {
	store, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Listing
	for _, t := range store.Tasks() {
		if keep(t) {
			out = append(out, Listing{Number: len(out) + 1, Task: t})
		}
	}
	return out, nil
}

func (s *Service) load(ctx context.Context) (*task.Store, error) {
	store := task.NewStore(s.tasks)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Service) requireAdmin(sess *Session, action string) error {
	if sess == nil || !sess.Admin {
		return cerr.NewError(cerr.PermissionDenied, "only admin can "+action, ErrPermissionDenied)
	}
	return nil
}

func (s *Service) publish(eventType eventbus.Type, taskID string, sess *Session, detail map[string]string) {
	if s.bus == nil {
		return
	}
	actor := ""
	if sess != nil {
		actor = sess.User
	}
	s.bus.PublishNew(eventType, taskID, actor, s.now(), detail)
}
