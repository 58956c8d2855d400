package user

import "errors"

var (
	ErrUnknownUser       = errors.New("unknown user")
	ErrInvalidPassword   = errors.New("invalid password")
	ErrDuplicateUser     = errors.New("duplicate user")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrCorruptCredential = errors.New("corrupt credential record")
)
