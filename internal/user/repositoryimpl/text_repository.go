package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kazz187/taskdesk/internal/user"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/storage"
)

var _ user.Repository = (*TextRepository)(nil)

// TextRepository stores one "username, password" line per user.
type TextRepository struct {
	storage storage.Storage
	path    string
}

func NewTextRepository(s storage.Storage, path string) *TextRepository {
	return &TextRepository{storage: s, path: path}
}

func (r *TextRepository) Load(ctx context.Context) (*user.Directory, error) {
	data, err := r.storage.Read(ctx, r.path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.NewDirectory(), nil
		}
		return nil, cerr.WrapStorageReadError("credential store", err)
	}

	var users []user.User
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		name, password, ok := strings.Cut(line, user.CredentialDelimiter)
		if !ok {
			return nil, cerr.NewError(cerr.DataLoss,
				fmt.Sprintf("corrupt credential record at line %d", i+1),
				fmt.Errorf("%w: missing %q", user.ErrCorruptCredential, user.CredentialDelimiter))
		}
		users = append(users, user.User{Name: name, Password: password})
	}
	return user.NewDirectory(users...), nil
}

func (r *TextRepository) Append(ctx context.Context, u user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	line := u.Name + user.CredentialDelimiter + u.Password + "\n"
	existing, err := r.storage.Read(ctx, r.path)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return cerr.WrapStorageReadError("credential store", err)
	}
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		line = "\n" + line
	}

	if err := r.storage.Append(ctx, r.path, []byte(line)); err != nil {
		return cerr.WrapStorageWriteError("credential store", err)
	}
	return nil
}
