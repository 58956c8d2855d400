package task

import "errors"

var (
	ErrInvalidTask      = errors.New("invalid task")
	ErrAlreadyCompleted = errors.New("task already completed")
	ErrTaskNotFound     = errors.New("task not found")
	ErrIndexOutOfRange  = errors.New("task index out of range")
	ErrCorruptRecord    = errors.New("corrupt task record")
	ErrDelimiterInField = errors.New("field contains the record delimiter")
)
