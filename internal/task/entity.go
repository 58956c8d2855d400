package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/datefmt"
)

// FieldDelimiter separates fields in the legacy line format.
const FieldDelimiter = ", "

// Task is one unit of assigned work. Assignee refers to a user by name only.
type Task struct {
	ID          string       `yaml:"id" json:"id"`
	Assignee    string       `yaml:"assignee" json:"assignee"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
	AssignDate  datefmt.Date `yaml:"assign_date" json:"assign_date"`
	DueDate     datefmt.Date `yaml:"due_date" json:"due_date"`
	Completed   bool         `yaml:"completed" json:"completed"`
}

type Option func(*Task)

func WithID(id string) Option {
	return func(t *Task) {
		t.ID = id
	}
}

func WithAssignDate(d datefmt.Date) Option {
	return func(t *Task) {
		t.AssignDate = d
	}
}

func WithCompleted(completed bool) Option {
	return func(t *Task) {
		t.Completed = completed
	}
}

// New creates an incomplete task assigned today unless options say otherwise.
func New(assignee, title, description string, due datefmt.Date, opts ...Option) *Task {
	t := &Task{
		Assignee:    assignee,
		Title:       title,
		Description: description,
		DueDate:     due,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.ID == "" {
		t.ID = NewID()
	}
	if t.AssignDate.IsZero() {
		t.AssignDate = datefmt.Today(time.Now())
	}
	return t
}

func NewID() string {
	return ulid.Make().String()
}

func (t *Task) Validate() error {
	var problems []string
	if strings.TrimSpace(t.Assignee) == "" {
		problems = append(problems, "assignee is empty")
	}
	if strings.TrimSpace(t.Title) == "" {
		problems = append(problems, "title is empty")
	}
	if t.AssignDate.IsZero() {
		problems = append(problems, "assign date is missing")
	}
	if t.DueDate.IsZero() {
		problems = append(problems, "due date is missing")
	}
	if len(problems) > 0 {
		return cerr.NewError(cerr.InvalidArgument, "invalid task: "+strings.Join(problems, ", "), ErrInvalidTask)
	}
	return nil
}

// CheckField rejects text that would break a stored record.
func CheckField(name, v string) error {
	if strings.Contains(v, FieldDelimiter) || strings.ContainsAny(v, "\r\n") {
		return cerr.NewError(cerr.InvalidArgument,
			fmt.Sprintf("%s must not contain %q or line breaks", name, FieldDelimiter),
			ErrDelimiterInField)
	}
	return nil
}

func (t *Task) IsCompleted() bool {
	return t.Completed
}

// MarkComplete marks the task done. Calling it on a completed task is a no-op.
func (t *Task) MarkComplete() {
	t.Completed = true
}

func (t *Task) Reassign(user string) error {
	if t.Completed {
		return alreadyCompleted(t)
	}
	if strings.TrimSpace(user) == "" {
		return cerr.NewError(cerr.InvalidArgument, "assignee cannot be empty", ErrInvalidTask)
	}
	t.Assignee = user
	return nil
}

func (t *Task) SetDueDate(d datefmt.Date) error {
	if t.Completed {
		return alreadyCompleted(t)
	}
	if d.IsZero() {
		return cerr.NewError(cerr.InvalidArgument, "due date cannot be empty", ErrInvalidTask)
	}
	t.DueDate = d
	return nil
}

// IsOverdue reports whether the due date is strictly before today. Completion
// is not considered.
func (t *Task) IsOverdue(today datefmt.Date) bool {
	return t.DueDate.Before(today)
}

// Serialize returns the six legacy fields joined by FieldDelimiter.
func (t *Task) Serialize() string {
	return strings.Join([]string{
		t.Assignee,
		t.Title,
		t.Description,
		t.AssignDate.String(),
		t.DueDate.String(),
		YesNo(t.Completed),
	}, FieldDelimiter)
}

// Render returns the multi-line block shown when listing tasks.
func (t *Task) Render() string {
	return fmt.Sprintf("Task:\t\t\t%s\n"+
		"Assigned to:\t\t%s\n"+
		"Date assigned:\t\t%s\n"+
		"Due date:\t\t%s\n"+
		"Task complete?:\t\t%s\n"+
		"Task description:\n %s",
		t.Title, t.Assignee, t.AssignDate, t.DueDate, YesNo(t.Completed), t.Description)
}

// Clone returns an independent copy of t.
func (t *Task) Clone() *Task {
	c := *t
	return &c
}

func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func alreadyCompleted(t *Task) error {
	return cerr.NewError(cerr.FailedPrecondition,
		fmt.Sprintf("task %q is completed and can no longer be edited", t.Title), ErrAlreadyCompleted)
}
