// Package datefmt parses user-entered calendar dates and renders them in the
// canonical "02 Jan 2006" display form used for both storage and display.
package datefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/taskdesk/pkg/cerr"
)

const (
	// InputLayout is the only accepted layout for user input.
	InputLayout = "2006-01-02"
	// DisplayLayout is the canonical stored and displayed layout.
	DisplayLayout = "02 Jan 2006"
)

var (
	ErrInvalidDateFormat   = errors.New("invalid date format")
	ErrMalformedStoredDate = errors.New("malformed stored date")
)

// Date is a calendar date without time of day. The zero value is "no date".
type Date struct {
	t time.Time
}

// New returns the date for the given year, month and day. Out-of-range values
// are normalized the way time.Date normalizes them.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the calendar date of now in now's own location.
func Today(now time.Time) Date {
	y, m, d := now.Date()
	return New(y, m, d)
}

// Normalize parses raw as YYYY-MM-DD and returns the canonical display string.
func Normalize(raw string) (string, error) {
	d, err := ParseInput(raw)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}

// ParseInput parses raw strictly as YYYY-MM-DD.
func ParseInput(raw string) (Date, error) {
	t, err := time.Parse(InputLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, cerr.NewError(cerr.InvalidArgument,
			fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw),
			fmt.Errorf("%w: %w", ErrInvalidDateFormat, err))
	}
	return Today(t), nil
}

// ParseDisplay parses a date in the canonical display form.
// Month names must match case exactly.
func ParseDisplay(display string) (Date, error) {
	trimmed := strings.TrimSpace(display)
	t, err := time.Parse(DisplayLayout, trimmed)
	if err == nil && t.Format(DisplayLayout) != trimmed {
		err = fmt.Errorf("not canonical, want %q", t.Format(DisplayLayout))
	}
	if err != nil {
		return Date{}, cerr.NewError(cerr.DataLoss,
			fmt.Sprintf("stored date %q is not in %q form", display, DisplayLayout),
			fmt.Errorf("%w: %w", ErrMalformedStoredDate, err))
	}
	return Today(t), nil
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(InputLayout)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayLayout)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDisplay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return cerr.NewError(cerr.DataLoss, "stored date is not a scalar",
			fmt.Errorf("%w: line %d", ErrMalformedStoredDate, value.Line))
	}
	return d.UnmarshalText([]byte(value.Value))
}
