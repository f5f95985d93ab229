// Package repository handles all interactions with the database.
//
// It hides the ORM and SQL details from the service layer and converts
// driver errors into application errors with sqlerr.HandleError.
package repository

import (
	"context"

	"github.com/vortrixs/user-api/internal/model"
)

// UserRepository is the persistence contract the user service depends on.
//
// Lookups of a missing id return an *errs.HTTPError with status 404.
// Insert and UpdateFields return a 409 error when the email is taken.
type UserRepository interface {
	FindAll(ctx context.Context) ([]model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// ExistsByEmail reports whether another user owns email.
	// excludeID (when > 0) is left out of the check so a user can keep its own address.
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Insert(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id int64, fields model.UserFields) (*model.User, error)
	// Delete removes the row and reports whether one existed.
	Delete(ctx context.Context, id int64) (bool, error)
}
