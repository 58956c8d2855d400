// Package report renders task listings and statistics as plain text.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/kazz187/taskdesk/internal/stats"
	"github.com/kazz187/taskdesk/internal/task"
)

var rule = strings.Repeat("_", 50)

var userOverviewHeaders = []string{
	"Username", "Assigned tasks", "Completed", "Overdue",
	"Assigned(%)", "Complete(%)", "Incomplete(%)", "Overdue(%)",
}

var cellStyle = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Center)

// TaskOverview renders the global task figures.
func TaskOverview(r stats.Report) string {
	o := r.Overview
	return fmt.Sprintf("TASKS STATS %s\n"+
		"Total tasks:\t\t%d\n"+
		"Completed tasks:\t%d\n"+
		"Incomplete tasks:\t%d\n"+
		"Incomplete(%%):\t\t%s\n"+
		"Overdue tasks:\t\t%d\n"+
		"Percentage overdue:\t%s\n\n",
		r.Date.ISO(), o.TotalTasks, o.CompletedTasks, o.IncompleteTasks,
		pct(o.IncompletePct), o.OverdueTasks, pct(o.OverduePct))
}

// UserOverview renders the per-user figures as a grid table.
func UserOverview(r stats.Report) string {
	t := table.New().
		Border(lipgloss.ASCIIBorder()).
		BorderRow(true).
		Headers(userOverviewHeaders...).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle })
	for _, u := range r.Users {
		t.Row(
			u.Username,
			strconv.Itoa(u.Assigned),
			strconv.Itoa(u.Completed),
			strconv.Itoa(u.Overdue),
			pct(u.AssignedPct),
			pct(u.CompletePct),
			pct(u.IncompletePct),
			pct(u.OverduePct),
		)
	}
	return fmt.Sprintf("USER OVERVIEW %s\nTotal users: %d\n%s\n", r.Date.ISO(), r.TotalUsers, t.String())
}

// TaskBlock renders one numbered entry of a task listing.
func TaskBlock(number int, t *task.Task) string {
	return fmt.Sprintf("%s\nTask number:\t\t%d\n%s\n%s\n", rule, number, t.Render(), rule)
}

// CompletedBlock renders an unnumbered entry, used for the completed list.
func CompletedBlock(t *task.Task) string {
	return fmt.Sprintf("%s\n%s\n%s\n", rule, t.Render(), rule)
}

// Diff returns a unified diff between two renderings, or "" when they match.
func Diff(before, after string) string {
	if before == after {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "before",
		ToFile:   "after",
		Context:  1,
	})
	if err != nil {
		return ""
	}
	return diff
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
