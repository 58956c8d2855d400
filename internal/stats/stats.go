// Package stats derives completion and overdue figures from a task snapshot.
// It only counts; rendering is done by the report package.
package stats

import (
	"math"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/datefmt"
)

// UserStatsRow is one user's share of the task list. Percentages are rounded
// to two decimal places.
type UserStatsRow struct {
	Username      string  `json:"username"`
	Assigned      int     `json:"assigned"`
	Completed     int     `json:"completed"`
	Overdue       int     `json:"overdue"`
	AssignedPct   float64 `json:"assigned_pct"`
	CompletePct   float64 `json:"complete_pct"`
	IncompletePct float64 `json:"incomplete_pct"`
	OverduePct    float64 `json:"overdue_pct"`
}

// Overview holds the scalar figures for the whole task list.
type Overview struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	IncompleteTasks int     `json:"incomplete_tasks"`
	IncompletePct   float64 `json:"incomplete_pct"`
	OverdueTasks    int     `json:"overdue_tasks"`
	OverduePct      float64 `json:"overdue_pct"`
}

type Report struct {
	Date       datefmt.Date   `json:"date"`
	Overview   Overview       `json:"overview"`
	TotalUsers int            `json:"total_users"`
	Users      []UserStatsRow `json:"users"`
}

func CountCompleted(tasks []*task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsCompleted() {
			n++
		}
	}
	return n
}

func CountIncomplete(tasks []*task.Task) int {
	return len(tasks) - CountCompleted(tasks)
}

// CountOverdue counts incomplete tasks whose due date is before today.
func CountOverdue(tasks []*task.Task, today datefmt.Date) int {
	n := 0
	for _, t := range tasks {
		if !t.IsCompleted() && t.IsOverdue(today) {
			n++
		}
	}
	return n
}

// PerUserBreakdown returns one row per user in the given order, including
// users with no tasks. Tasks assigned to names not in users are ignored,
// but still count towards the assigned percentage denominator.
func PerUserBreakdown(tasks []*task.Task, users []string, today datefmt.Date) []UserStatsRow {
	rows := make([]UserStatsRow, 0, len(users))
	for _, name := range users {
		row := UserStatsRow{Username: name}
		for _, t := range tasks {
			if t.Assignee != name {
				continue
			}
			row.Assigned++
			if t.IsCompleted() {
				row.Completed++
			} else if t.IsOverdue(today) {
				row.Overdue++
			}
		}
		if row.Assigned > 0 {
			row.AssignedPct = percent(row.Assigned, len(tasks))
			row.CompletePct = percent(row.Completed, row.Assigned)
			row.IncompletePct = round2(100 - row.CompletePct)
			row.OverduePct = percent(row.Overdue, row.Assigned)
		}
		rows = append(rows, row)
	}
	return rows
}

func Summarize(tasks []*task.Task, today datefmt.Date) Overview {
	o := Overview{
		TotalTasks:     len(tasks),
		CompletedTasks: CountCompleted(tasks),
		OverdueTasks:   CountOverdue(tasks, today),
	}
	o.IncompleteTasks = o.TotalTasks - o.CompletedTasks
	if o.TotalTasks > 0 {
		o.IncompletePct = percent(o.IncompleteTasks, o.TotalTasks)
		o.OverduePct = percent(o.OverdueTasks, o.TotalTasks)
	}
	return o
}

func Build(tasks []*task.Task, users []string, today datefmt.Date) Report {
	return Report{
		Date:       today,
		Overview:   Summarize(tasks, today),
		TotalUsers: len(users),
		Users:      PerUserBreakdown(tasks, users, today),
	}
}

// percent is 0 for a zero denominator.
func percent(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return round2(float64(n) / float64(of) * 100)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
