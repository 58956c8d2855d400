package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/kazz187/taskdesk/internal/report"
	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/internal/tracker"
	"github.com/kazz187/taskdesk/internal/user"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/datefmt"
	"github.com/kazz187/taskdesk/pkg/panicerr"
)

const invalidFieldMessage = "Task text cannot contain \", \". Please try again"

type menuItem struct {
	code      string
	label     string
	adminOnly bool
	// denied is printed when a non-admin picks an admin-only item.
	denied string
	action func(context.Context) error
}

type session struct {
	svc  *tracker.Service
	p    *prompter
	out  io.Writer
	sess *tracker.Session
	menu []menuItem

	okColor  *color.Color
	errColor *color.Color
}

func runSession(ctx context.Context, d *deps, in io.Reader, out io.Writer) error {
	return newSession(d.tracker, in, out).run(ctx)
}

func newSession(svc *tracker.Service, in io.Reader, out io.Writer) *session {
	s := &session{
		svc:      svc,
		p:        newPrompter(in, out),
		out:      out,
		okColor:  color.New(color.FgGreen),
		errColor: color.New(color.FgRed),
	}
	s.menu = []menuItem{
		{code: "r", label: "register a user", adminOnly: true, denied: "Only admin is allowed to register a new user.", action: s.registerUser},
		{code: "a", label: "add task", action: s.addTask},
		{code: "va", label: "view all tasks", action: s.viewAll},
		{code: "vm", label: "view my tasks", action: s.viewMine},
		{code: "vc", label: "view completed tasks", adminOnly: true, denied: "Only admin can view completed tasks.", action: s.viewCompleted},
		{code: "del", label: "delete tasks", adminOnly: true, denied: "Only admin is allowed to delete tasks.", action: s.deleteTask},
		{code: "ds", label: "display statistics", adminOnly: true, denied: "Only admin can display statistics\nPlease select another option", action: s.displayStats},
		{code: "e", label: "exit"},
	}
	return s
}

// run logs in and serves the menu until the user exits or input ends.
func (s *session) run(ctx context.Context) error {
	err := s.login(ctx)
	if err == nil {
		err = s.loop(ctx)
	}
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err == nil {
		fmt.Fprintln(s.out, "Goodbye!!!")
	}
	return err
}

func (s *session) login(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, "\nLOGIN")
		name, err := s.p.ask("Please enter your username: \n\t")
		if err != nil {
			return err
		}
		password, err := s.p.secret("Please enter your password: \n\t")
		if err != nil {
			return err
		}
		sess, err := s.svc.Login(ctx, name, password)
		switch {
		case err == nil:
			s.sess = sess
			return nil
		case errors.Is(err, user.ErrInvalidPassword):
			s.fail("Invalid password")
		case errors.Is(err, user.ErrUnknownUser):
			s.fail("Username was not found. Please try again.")
		default:
			return err
		}
	}
}

func (s *session) loop(ctx context.Context) error {
	for {
		fmt.Fprintln(s.out, "\nMENU")
		for _, item := range s.menu {
			if item.adminOnly && !s.sess.Admin {
				continue
			}
			fmt.Fprintf(s.out, "%s\t- %s\n", item.code, item.label)
		}
		choice, err := s.p.ask("\nSelect one of the above options:")
		if err != nil {
			return err
		}

		item, ok := s.lookup(strings.ToLower(choice))
		switch {
		case !ok:
			s.fail("You have entered an invalid input. Please try again")
			continue
		case item.action == nil:
			return nil
		case item.adminOnly && !s.sess.Admin:
			s.fail(item.denied)
			continue
		}

		if err := panicerr.SafeContext(item.action)(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			s.report(ctx, err)
		}
	}
}

func (s *session) lookup(code string) (menuItem, bool) {
	for _, item := range s.menu {
		if item.code == code {
			return item, true
		}
	}
	return menuItem{}, false
}

func (s *session) registerUser(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nREGISTER NEW USER")
	for {
		name, err := s.p.ask("Please enter your username:\n\t")
		if err != nil {
			return err
		}
		if ok, err := s.svc.HasUser(ctx, name); err != nil {
			return err
		} else if ok {
			s.fail("This username is already taken. Please try another.")
			continue
		}

		for {
			password, err := s.p.secret("Please enter your password:\n\t")
			if err != nil {
				return err
			}
			confirm, err := s.p.secret("Please confirm your password:\n\t")
			if err != nil {
				return err
			}
			if password != confirm {
				s.fail("Confirmation password does not match. Please try again")
				continue
			}

			err = s.svc.RegisterUser(ctx, s.sess, name, password)
			if errors.Is(err, user.ErrInvalidCredential) {
				s.fail(cerr.Message(err))
				break
			}
			if err != nil {
				return err
			}
			s.ok(fmt.Sprintf("\nNew user %s has been added.\n", name))
			return nil
		}
	}
}

func (s *session) addTask(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nADD NEW TASK")
	var req tracker.AddTaskRequest
	for {
		name, err := s.p.ask("Please enter the username for the person\nthat you would like to assign the task to:\n\t")
		if err != nil {
			return err
		}
		ok, err := s.svc.HasUser(ctx, name)
		if err != nil {
			return err
		}
		if ok {
			req.Assignee = name
			break
		}
		s.fail("Username not found. Please enter a valid username")
	}

	var err error
	for {
		if req.Title, err = s.p.ask("Please enter the name of the new task:\n\t"); err != nil {
			return err
		}
		if req.Title == "" {
			s.fail("Task name cannot be empty. Please try again")
			continue
		}
		if task.CheckField("title", req.Title) != nil {
			s.fail(invalidFieldMessage)
			continue
		}
		break
	}
	for {
		if req.Description, err = s.p.ask(fmt.Sprintf("Please enter a description of %s:\n\t", req.Title)); err != nil {
			return err
		}
		if task.CheckField("description", req.Description) != nil {
			s.fail(invalidFieldMessage)
			continue
		}
		break
	}
	for {
		if req.DueDate, err = s.p.ask("Please enter the due date (YYYY-MM-DD) of the task:\n\t"); err != nil {
			return err
		}
		t, err := s.svc.AddTask(ctx, s.sess, req)
		switch {
		case errors.Is(err, datefmt.ErrInvalidDateFormat):
			s.fail("Invalid date entered\nPlease add valid date")
			continue
		case errors.Is(err, tracker.ErrDueDateInPast):
			s.fail("Invalid date entry. Due date cannot be before assignment date.")
			continue
		case err != nil:
			return err
		}
		s.ok(fmt.Sprintf("\n%s has been added.", t.Title))
		return nil
	}
}

func (s *session) viewAll(ctx context.Context) error {
	listing, err := s.svc.ListTasks(ctx, s.sess)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nVIEW ALL TASKS")
	s.printListing(listing)
	return nil
}

func (s *session) viewMine(ctx context.Context) error {
	listing, err := s.svc.ListAssigned(ctx, s.sess, s.sess.User)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nVIEW MY TASKS")
	s.printListing(listing)
	fmt.Fprintf(s.out, "\nTotal tasks = %d\n", len(listing))

	var selected *task.Task
	for selected == nil {
		n, err := s.p.number("Please select a task number to update or -1 to return to menu:\n\t",
			"Please enter a valid task number")
		if err != nil {
			return err
		}
		if n == -1 {
			return nil
		}
		if n < 1 || n > len(listing) {
			s.fail("Please select a valid task number.")
			continue
		}
		if listing[n-1].Task.IsCompleted() {
			s.fail("Only incomplete tasks can be edited, please select another task.")
			continue
		}
		selected = listing[n-1].Task
	}

	for {
		option, err := s.p.ask("Please select one of the following options to perform with the task:\n" +
			"mc \t- mark as complete\n" +
			"ed \t- edit\n\t")
		if err != nil {
			return err
		}
		switch strings.ToLower(option) {
		case "mc":
			change, err := s.svc.MarkComplete(ctx, s.sess, selected.ID)
			if err != nil {
				return err
			}
			s.printChange(change)
			return nil
		case "ed":
			return s.editTask(ctx, selected)
		default:
			s.fail("Please enter valid selection option")
		}
	}
}

func (s *session) editTask(ctx context.Context, t *task.Task) error {
	for {
		option, err := s.p.ask("\nPlease select an option:\neu\t- edit username\nedd\t- edit due date\n\t")
		if err != nil {
			return err
		}
		switch strings.ToLower(option) {
		case "eu":
			for {
				name, err := s.p.ask("Please enter the username that the task is assigned to:\n\t")
				if err != nil {
					return err
				}
				change, err := s.svc.Reassign(ctx, s.sess, t.ID, name)
				if errors.Is(err, user.ErrUnknownUser) {
					s.fail("\nInvalid username. Please select valid username")
					continue
				}
				if err != nil {
					return err
				}
				s.printChange(change)
				return nil
			}
		case "edd":
			for {
				raw, err := s.p.ask("Please enter the new due date (YYYY-MM-DD):")
				if err != nil {
					return err
				}
				change, err := s.svc.SetDueDate(ctx, s.sess, t.ID, raw)
				if errors.Is(err, datefmt.ErrInvalidDateFormat) {
					s.fail("Invalid date entered\nPlease try again")
					continue
				}
				if err != nil {
					return err
				}
				s.printChange(change)
				return nil
			}
		default:
			s.fail("Please enter a valid option")
		}
	}
}

func (s *session) viewCompleted(ctx context.Context) error {
	listing, err := s.svc.ListCompleted(ctx, s.sess)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nVIEW COMPLETED TASKS")
	for _, l := range listing {
		fmt.Fprint(s.out, report.CompletedBlock(l.Task))
	}
	fmt.Fprintf(s.out, "\nNumber of completed tasks = %d.\n", len(listing))
	return nil
}

func (s *session) deleteTask(ctx context.Context) error {
	listing, err := s.svc.ListTasks(ctx, s.sess)
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, "\nVIEW ALL TASKS")
	s.printListing(listing)

	n, err := s.p.number("Please enter the number of the task to delete: ",
		"Value entered was not a number. Please enter a number")
	if err != nil {
		return err
	}
	if n < 1 || n > len(listing) {
		s.fail("Please select a valid task number")
		return nil
	}
	removed, err := s.svc.DeleteTask(ctx, s.sess, listing[n-1].Task.ID)
	if err != nil {
		return err
	}
	s.ok("\nThe following task was deleted:\n")
	fmt.Fprintln(s.out, removed.Render())
	return nil
}

func (s *session) displayStats(ctx context.Context) error {
	r, err := s.svc.WriteReports(ctx, s.sess)
	if err != nil {
		return err
	}
	fmt.Fprint(s.out, report.TaskOverview(r))
	fmt.Fprint(s.out, report.UserOverview(r))
	return nil
}

func (s *session) printListing(listing []tracker.Listing) {
	for _, l := range listing {
		fmt.Fprint(s.out, report.TaskBlock(l.Number, l.Task))
	}
}

func (s *session) printChange(change tracker.Change) {
	fmt.Fprintln(s.out, change.After.Render())
	if diff := report.Diff(change.Before.Render(), change.After.Render()); diff != "" {
		fmt.Fprint(s.out, "\n"+diff)
	}
}

// report prints err and logs it. The session carries on afterwards.
func (s *session) report(ctx context.Context, err error) {
	cerr.Report(ctx, "menu action failed", err)
	s.fail("Error: " + cerr.Message(err))
}

func (s *session) ok(msg string) {
	s.okColor.Fprintln(s.out, msg)
}

func (s *session) fail(msg string) {
	s.errColor.Fprintln(s.out, msg)
}
