package domain

import "context"

// User carries only what the booking core needs; account management lives in
// a separate service that shares the session store.
type User struct {
	ID    int
	Name  string
	Email string
}

type UserRepository interface {
	GetById(ctx context.Context, id int) (*User, error)
}
