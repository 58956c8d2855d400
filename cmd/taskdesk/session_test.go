package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdesk/internal/config"
	"github.com/kazz187/taskdesk/pkg/storage"
)

func newTestDeps(t *testing.T) (*deps, string) {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.txt"), []byte("admin, adm1n\namy, a\n"), 0644))

	s, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	env := &config.Env{
		BaseEnv: config.BaseEnv{Env: "local", AdminUser: "admin"},
		StoreEnv: config.StoreEnv{
			TasksFile:        "tasks.txt",
			UsersFile:        "user.txt",
			TaskFormat:       "text",
			LoadPolicy:       "strict",
			TaskOverviewFile: "task_overview.txt",
			UserOverviewFile: "user_overview.txt",
			ActivityFile:     "activity.ndjson",
		},
	}
	d, err := wire(context.Background(), env, s)
	require.NoError(t, err)
	return d, dir
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestSessionAdminFlow(t *testing.T) {
	d, dir := newTestDeps(t)
	var out bytes.Buffer

	in := script(
		"admin", "wrong", // bad password
		"nobody", "x", // unknown user
		"admin", "adm1n",
		"zz",
		"r", "admin", "bob", "b", "nope", "b", "b",
		"a", "ghost", "amy", "Write docs", "Describe the API", "10/10/2099", "2000-01-01", "2099-01-01",
		"va",
		"ds",
		"e",
	)
	require.NoError(t, runSession(context.Background(), d, in, &out))
	d.close()

	got := out.String()
	assert.Contains(t, got, "Invalid password")
	assert.Contains(t, got, "Username was not found. Please try again.")
	assert.Contains(t, got, "You have entered an invalid input. Please try again")
	assert.Contains(t, got, "This username is already taken. Please try another.")
	assert.Contains(t, got, "Confirmation password does not match. Please try again")
	assert.Contains(t, got, "New user bob has been added.")
	assert.Contains(t, got, "Username not found. Please enter a valid username")
	assert.Contains(t, got, "Invalid date entered\nPlease add valid date")
	assert.Contains(t, got, "Invalid date entry. Due date cannot be before assignment date.")
	assert.Contains(t, got, "Write docs has been added.")
	assert.Contains(t, got, "Task number:\t\t1")
	assert.Contains(t, got, "TASKS STATS")
	assert.Contains(t, got, "Total users: 3")
	assert.True(t, strings.HasSuffix(got, "Goodbye!!!\n"))

	users, err := os.ReadFile(filepath.Join(dir, "user.txt"))
	require.NoError(t, err)
	assert.Equal(t, "admin, adm1n\namy, a\nbob, b\n", string(users))

	tasks, err := os.ReadFile(filepath.Join(dir, "tasks.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(tasks), "amy, Write docs, Describe the API, ")
	assert.Contains(t, string(tasks), ", 01 Jan 2099, No, ")

	assert.FileExists(t, filepath.Join(dir, "task_overview.txt"))
	assert.FileExists(t, filepath.Join(dir, "user_overview.txt"))

	activity, err := os.ReadFile(filepath.Join(dir, "activity.ndjson"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(activity), "\n"))
}

func TestSessionUserMenu(t *testing.T) {
	d, dir := newTestDeps(t)
	defer d.close()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.txt"),
		[]byte("amy, Fix bug, Broken login, 01 Oct 2025, 01 Jan 2099, No\n"+
			"admin, Plan, Roadmap, 01 Oct 2025, 01 Jan 2099, No\n"), 0644))
	var out bytes.Buffer

	in := script(
		"amy", "a",
		"ds",
		"del",
		"vm", "7", "1", "xx", "ed", "edd", "tomorrow", "2099-02-03",
		"vm", "1", "mc",
		"vm", "1",
	)
	require.NoError(t, runSession(context.Background(), d, in, &out))

	got := out.String()
	assert.NotContains(t, got, "ds\t- display statistics")
	assert.Contains(t, got, "vm\t- view my tasks")
	assert.Contains(t, got, "Only admin can display statistics")
	assert.Contains(t, got, "Only admin is allowed to delete tasks.")
	assert.Contains(t, got, "Total tasks = 1")
	assert.Contains(t, got, "Please select a valid task number.")
	assert.Contains(t, got, "Please enter valid selection option")
	assert.Contains(t, got, "Invalid date entered\nPlease try again")
	assert.Contains(t, got, "-Due date:\t\t01 Jan 2099")
	assert.Contains(t, got, "+Due date:\t\t03 Feb 2099")
	assert.Contains(t, got, "Only incomplete tasks can be edited, please select another task.")
	assert.True(t, strings.HasSuffix(got, "Goodbye!!!\n"))

	tasks, err := os.ReadFile(filepath.Join(dir, "tasks.txt"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(tasks)), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "amy, Fix bug, Broken login, 01 Oct 2025, 03 Feb 2099, Yes, "))
	assert.True(t, strings.HasPrefix(lines[1], "admin, Plan, Roadmap, 01 Oct 2025, 01 Jan 2099, No, "))
}

func TestSessionDeleteTask(t *testing.T) {
	d, dir := newTestDeps(t)
	defer d.close()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.txt"),
		[]byte("amy, One, first, 01 Oct 2025, 01 Jan 2099, No\n"+
			"amy, Two, second, 01 Oct 2025, 01 Jan 2099, Yes\n"), 0644))
	var out bytes.Buffer

	in := script("admin", "adm1n", "vc", "del", "x", "5", "del", "1", "e")
	require.NoError(t, runSession(context.Background(), d, in, &out))

	got := out.String()
	assert.Contains(t, got, "Number of completed tasks = 1.")
	assert.Contains(t, got, "Value entered was not a number. Please enter a number")
	assert.Contains(t, got, "Please select a valid task number\n")
	assert.Contains(t, got, "The following task was deleted:")

	tasks, err := os.ReadFile(filepath.Join(dir, "tasks.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tasks), "amy, Two, second, "))
	assert.Equal(t, 1, strings.Count(string(tasks), "\n"))
}

func TestRunReportPromptsForPassword(t *testing.T) {
	d, dir := newTestDeps(t)
	defer d.close()
	var out bytes.Buffer

	require.NoError(t, runReport(context.Background(), d, "admin", "", script("adm1n"), &out))
	assert.Contains(t, out.String(), "USER OVERVIEW")
	assert.FileExists(t, filepath.Join(dir, "task_overview.txt"))

	err := runReport(context.Background(), d, "amy", "a", nil, &out)
	assert.Error(t, err)
}

func TestSessionAddTaskRepromptsForDelimiter(t *testing.T) {
	d, dir := newTestDeps(t)
	defer d.close()
	var out bytes.Buffer

	in := script(
		"admin", "adm1n",
		"a", "amy",
		"", "Docs, API", "Docs API",
		"Write, then ship", "Write then ship",
		"2099-01-01",
		"e",
	)
	require.NoError(t, runSession(context.Background(), d, in, &out))

	got := out.String()
	assert.Contains(t, got, "Task name cannot be empty. Please try again")
	assert.Equal(t, 2, strings.Count(got, invalidFieldMessage))
	assert.Contains(t, got, "Docs API has been added.")
	assert.NotContains(t, got, "Error:")

	tasks, err := os.ReadFile(filepath.Join(dir, "tasks.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(tasks), "amy, Docs API, Write then ship, "))
}

func TestRunServeStopsOnCancelledContext(t *testing.T) {
	d, _ := newTestDeps(t)
	defer d.close()
	d.env.HTTPEnv = config.HTTPEnv{HTTPHost: "127.0.0.1", HTTPPort: "0"}

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan error, 1)
		go func() { done <- runServe(ctx, d) }()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatalf("runServe did not return on attempt %d", i)
		}
	}
}
