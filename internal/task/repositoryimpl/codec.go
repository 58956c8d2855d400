package repositoryimpl

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/cerr"
)

// Codec converts between the task list and its persisted bytes. Encoding a
// single task must produce bytes that can be appended to an encoded list.
type Codec interface {
	Name() string
	// Decode parses data. Each corrupt record is passed to onCorrupt; a nil
	// return skips the record, a non-nil return aborts decoding with it.
	Decode(data []byte, onCorrupt func(error) error) ([]*task.Task, error)
	Encode(tasks []*task.Task) ([]byte, error)
}

const (
	FormatText = "text"
	FormatYAML = "yaml"
)

func NewCodec(format string) (Codec, error) {
	switch format {
	case FormatText, "":
		return TextCodec{}, nil
	case FormatYAML:
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown task store format %q", format)
	}
}

func corruptRecord(where string, err error) error {
	return cerr.NewError(cerr.DataLoss,
		fmt.Sprintf("corrupt task record at %s", where),
		fmt.Errorf("%w: %w", task.ErrCorruptRecord, err))
}

// derivedID gives a record stored without an ID the same ID on every load,
// so it can be addressed until the next rewrite persists a real one.
func derivedID(where, content string) string {
	sum := sha256.Sum256([]byte(where + "\x00" + content))
	id, err := ulid.New(0, bytes.NewReader(sum[:]))
	if err != nil {
		return task.NewID()
	}
	return id.String()
}
