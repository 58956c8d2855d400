// Package panicerr turns panics into errors so one failing action does not
// end an interactive session.
package panicerr

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/panics"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

// Safe wraps fn so that a panic is returned as an Internal error.
func Safe(fn func() error) func() error {
	return func() error {
		return SafeContext(func(context.Context) error { return fn() })(context.Background())
	}
}

// SafeContext wraps a function that takes a context and returns an error.
func SafeContext(fn func(context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		var (
			catcher panics.Catcher
			err     error
		)
		catcher.Try(func() {
			err = fn(ctx)
		})
		if err != nil {
			return err
		}
		if r := catcher.Recovered(); r != nil {
			return cerr.NewError(cerr.Internal, "action failed unexpectedly",
				fmt.Errorf("recovered panic: %w", r.AsError()))
		}
		return nil
	}
}
