package cerr

import (
	"errors"
	"fmt"

	"github.com/kazz187/taskdesk/pkg/storage"
)

func WrapStorageReadError(target string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", target), err)
	}
	return NewError(Internal, fmt.Sprintf("could not read %s", target), fmt.Errorf("failed to read %s: %w", target, err))
}

func WrapStorageWriteError(target string, err error) error {
	return NewError(Internal, fmt.Sprintf("could not write %s", target), fmt.Errorf("failed to write %s: %w", target, err))
}
