// Package store implements the students repository.
//
// Every operation acquires its own connection from the adapter and
// releases it before returning, so no handle outlives the operation
// that needed it.
package store

import (
	"context"
	"errors"
	"time"
)

// Student is one row of the students table.
type Student struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}

// ErrDuplicateEmail is returned when an insert or update collides with
// the unique constraint on the email column.
var ErrDuplicateEmail = errors.New("email already exists")

// Store is the repository interface the shell works against.
type Store interface {
	// Init creates the students table if it does not exist.
	Init(ctx context.Context) error

	// Create inserts a student and returns the generated id.
	Create(ctx context.Context, name, email string) (int64, error)

	// List returns all students ordered by id.
	List(ctx context.Context) ([]Student, error)

	// Update changes the non-nil fields of the student with the given id
	// and returns the number of rows affected. Both fields nil is a
	// no-op returning 0; an unknown id is also 0, not an error.
	Update(ctx context.Context, id int64, name, email *string) (int64, error)

	// Delete removes the student with the given id and returns the
	// number of rows affected. An unknown id yields 0, not an error.
	Delete(ctx context.Context, id int64) (int64, error)
}
