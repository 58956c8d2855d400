package repositoryimpl

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/datefmt"
)

// TextCodec reads and writes the legacy line format:
//
//	assignee, title, description, assign date, due date, Yes|No[, id]
//
// Lines written by older versions have no id. They get one derived from the
// line, which stays the same until the store is rewritten.
type TextCodec struct{}

const (
	legacyFieldCount = 6
	textFieldCount   = 7
)

func (TextCodec) Name() string { return FormatText }

func (TextCodec) Decode(data []byte, onCorrupt func(error) error) ([]*task.Task, error) {
	tasks := []*task.Task{}
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := decodeLine(line, i+1)
		if err != nil {
			if err := onCorrupt(corruptRecord(fmt.Sprintf("line %d", i+1), err)); err != nil {
				return nil, err
			}
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeLine(line string, lineNo int) (*task.Task, error) {
	fields := strings.Split(line, task.FieldDelimiter)
	if len(fields) < legacyFieldCount || len(fields) > textFieldCount {
		return nil, fmt.Errorf("expected %d or %d fields, got %d", legacyFieldCount, textFieldCount, len(fields))
	}
	assigned, err := datefmt.ParseDisplay(fields[3])
	if err != nil {
		return nil, err
	}
	due, err := datefmt.ParseDisplay(fields[4])
	if err != nil {
		return nil, err
	}
	var completed bool
	switch strings.TrimSpace(fields[5]) {
	case "Yes":
		completed = true
	case "No":
	default:
		return nil, fmt.Errorf("completed flag %q is neither Yes nor No", fields[5])
	}

	opts := []task.Option{task.WithAssignDate(assigned), task.WithCompleted(completed)}
	if len(fields) == textFieldCount {
		id := strings.TrimSpace(fields[6])
		if id == "" {
			return nil, errors.New("id field is empty")
		}
		opts = append(opts, task.WithID(id))
	} else {
		opts = append(opts, task.WithID(derivedID(fmt.Sprintf("line %d", lineNo), line)))
	}
	t := task.New(fields[0], fields[1], fields[2], due, opts...)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (TextCodec) Encode(tasks []*task.Task) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tasks {
		for name, v := range map[string]string{
			"assignee":    t.Assignee,
			"title":       t.Title,
			"description": t.Description,
		} {
			if err := task.CheckField(name, v); err != nil {
				return nil, err
			}
		}
		buf.WriteString(t.Serialize())
		buf.WriteString(task.FieldDelimiter)
		buf.WriteString(t.ID)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
