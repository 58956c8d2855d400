package user

import "context"

type Repository interface {
	// Load returns every stored user. A missing store is an empty directory.
	Load(ctx context.Context) (*Directory, error)
	Append(ctx context.Context, u User) error
}
