package main

import (
	"context"
	"fmt"
	"io"

	"github.com/kazz187/taskdesk/internal/report"
)

// runReport writes both overview files without an interactive session.
func runReport(ctx context.Context, d *deps, name, password string, in io.Reader, out io.Writer) error {
	if password == "" {
		var err error
		if password, err = newPrompter(in, out).secret("Password for " + name + ": "); err != nil {
			return err
		}
	}
	sess, err := d.tracker.Login(ctx, name, password)
	if err != nil {
		return err
	}
	r, err := d.tracker.WriteReports(ctx, sess)
	if err != nil {
		return err
	}
	fmt.Fprint(out, report.TaskOverview(r))
	fmt.Fprint(out, report.UserOverview(r))
	return nil
}
