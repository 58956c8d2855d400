package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/datefmt"
)

var today = datefmt.New(2025, time.October, 10)

func newTask(assignee string, due datefmt.Date, completed bool) *task.Task {
	return task.New(assignee, "t", "", due,
		task.WithAssignDate(datefmt.New(2025, time.October, 1)),
		task.WithCompleted(completed))
}

func amyTasks() []*task.Task {
	return []*task.Task{
		newTask("amy", datefmt.New(2025, time.October, 1), true),
		newTask("amy", datefmt.New(2025, time.October, 20), true),
		newTask("amy", datefmt.New(2025, time.October, 9), false),
	}
}

func TestPerUserBreakdown(t *testing.T) {
	rows := PerUserBreakdown(amyTasks(), []string{"amy", "bob"}, today)
	require.Len(t, rows, 2)

	assert.Equal(t, UserStatsRow{
		Username:      "amy",
		Assigned:      3,
		Completed:     2,
		Overdue:       1,
		AssignedPct:   100,
		CompletePct:   66.67,
		IncompletePct: 33.33,
		OverduePct:    33.33,
	}, rows[0])
	assert.Equal(t, UserStatsRow{Username: "bob"}, rows[1])
}

func TestPerUserBreakdown_AssignedShareUsesGlobalTotal(t *testing.T) {
	tasks := append(amyTasks(), newTask("bob", today, false))
	rows := PerUserBreakdown(tasks, []string{"amy", "bob", "cat"}, today)

	assert.Equal(t, 75.0, rows[0].AssignedPct)
	assert.Equal(t, 25.0, rows[1].AssignedPct)
	assert.Equal(t, 100.0, rows[1].IncompletePct)
	assert.Equal(t, 0, rows[1].Overdue, "due today is not overdue")
	assert.Equal(t, UserStatsRow{Username: "cat"}, rows[2])
}

func TestCounts(t *testing.T) {
	tasks := amyTasks()
	assert.Equal(t, 2, CountCompleted(tasks))
	assert.Equal(t, 1, CountIncomplete(tasks))
	assert.Equal(t, len(tasks), CountCompleted(tasks)+CountIncomplete(tasks))
	// The completed task due on the 1st is past due but not counted.
	assert.Equal(t, 1, CountOverdue(tasks, today))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Overview{
		TotalTasks:      3,
		CompletedTasks:  2,
		IncompleteTasks: 1,
		IncompletePct:   33.33,
		OverdueTasks:    1,
		OverduePct:      33.33,
	}, Summarize(amyTasks(), today))
}

func TestEmptyStore(t *testing.T) {
	r := Build(nil, []string{"admin"}, today)
	assert.Equal(t, Overview{}, r.Overview)
	assert.Equal(t, 1, r.TotalUsers)
	assert.Equal(t, []UserStatsRow{{Username: "admin"}}, r.Users)
	assert.Equal(t, today, r.Date)
}
