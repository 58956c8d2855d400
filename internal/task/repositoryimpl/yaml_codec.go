package repositoryimpl

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/cerr"
)

// YAMLCodec stores the task list as a top-level YAML sequence. Appending an
// encoded single-item list to an encoded list yields a valid longer list.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return FormatYAML }

func (YAMLCodec) Decode(data []byte, onCorrupt func(error) error) ([]*task.Task, error) {
	tasks := []*task.Task{}
	if len(bytes.TrimSpace(data)) == 0 {
		return tasks, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, corruptRecord("document", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, corruptRecord("document", errors.New("top level is not a sequence"))
	}

	for _, item := range doc.Content[0].Content {
		var t task.Task
		err := item.Decode(&t)
		if err == nil {
			err = t.Validate()
		}
		if err == nil && t.ID == "" {
			t.ID = derivedID(fmt.Sprintf("item %d", item.Line), t.Serialize())
		}
		if err != nil {
			if err := onCorrupt(corruptRecord(fmt.Sprintf("line %d", item.Line), err)); err != nil {
				return nil, err
			}
			continue
		}
		tasks = append(tasks, &t)
	}
	return tasks, nil
}

func (YAMLCodec) Encode(tasks []*task.Task) ([]byte, error) {
	if len(tasks) == 0 {
		return nil, nil
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return nil, cerr.NewError(cerr.Internal, "could not encode tasks", fmt.Errorf("failed to marshal tasks: %w", err))
	}
	return data, nil
}
