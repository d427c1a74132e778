// Package storage provides the state management for users and their academic
// records.
package storage

import (
	"context"

	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

const (
	// ErrNotFound is returned when a record cannot be found. Records owned by
	// a different user are indistinguishable from records that do not exist.
	ErrNotFound Error = "not found"
	// ErrAlreadyExists is returned if a unique record already exists.
	ErrAlreadyExists Error = "already exists"
	// ErrInvalidNickname is returned when a nickname fails validation.
	ErrInvalidNickname Error = "nickname must be 1-100 characters"
)

// Error is an error type returned by the storage implementation.
type Error string

// Error satisfies [error].
func (e Error) Error() string { return string(e) }

// Users are the methods on a storage implementation that are responsible for
// accessing and modifying users.
type Users interface {
	// CreateUser creates a user with the given nickname and password hash. An
	// [ErrAlreadyExists] is returned if the nickname is already in use.
	CreateUser(ctx context.Context, nickname string, passwordHash []byte) (db.User, error)
	// GetUserByNickname returns a single user with the exact nickname. An
	// [ErrNotFound] is returned if the nickname does not exist. The lookup is
	// read-only.
	GetUserByNickname(ctx context.Context, nickname string) (db.User, error)
	// UpdateUser updates the user's nickname and password hash. An
	// [ErrAlreadyExists] is returned if the new nickname belongs to another
	// user.
	UpdateUser(ctx context.Context, user db.User) (db.User, error)
	// DeleteUser removes a user and all their owned records. Note that this
	// is a hard delete; data is not recoverable.
	DeleteUser(ctx context.Context, id uint64) error
	// NicknameExists reports whether any user holds the given nickname.
	NicknameExists(ctx context.Context, nickname string) (bool, error)
}

// Institutions are the methods for accessing and modifying a user's
// institutions. Every method is scoped to the owning user.
type Institutions interface {
	CreateInstitution(ctx context.Context, ownerID uint64, name string) (db.Institution, error)
	ListInstitutions(ctx context.Context, ownerID uint64) ([]db.Institution, error)
	GetInstitutionByName(ctx context.Context, ownerID uint64, name string) (db.Institution, error)
	UpdateInstitution(ctx context.Context, inst db.Institution) (db.Institution, error)
	DeleteInstitution(ctx context.Context, ownerID uint64, name string) error
}

// Courses are the methods for accessing and modifying courses, scoped through
// the institution ownership chain.
type Courses interface {
	CreateCourse(ctx context.Context, ownerID uint64, course db.Course) (db.Course, error)
	ListCourses(ctx context.Context, ownerID uint64) ([]db.Course, error)
	GetCourse(ctx context.Context, ownerID, id uint64) (db.Course, error)
	UpdateCourse(ctx context.Context, ownerID uint64, course db.Course) (db.Course, error)
	DeleteCourse(ctx context.Context, ownerID, id uint64) error
}

// Disciplines are the methods for accessing and modifying disciplines, scoped
// through the course ownership chain.
type Disciplines interface {
	CreateDiscipline(ctx context.Context, ownerID uint64, disc db.Discipline) (db.Discipline, error)
	ListDisciplines(ctx context.Context, ownerID uint64) ([]db.Discipline, error)
	GetDiscipline(ctx context.Context, ownerID, id uint64) (db.Discipline, error)
	UpdateDiscipline(ctx context.Context, ownerID uint64, disc db.Discipline) (db.Discipline, error)
	DeleteDiscipline(ctx context.Context, ownerID, id uint64) error
}

// Activities are the methods for accessing and modifying activities, scoped
// through the discipline ownership chain.
type Activities interface {
	CreateActivity(ctx context.Context, ownerID uint64, act db.Activity) (db.Activity, error)
	ListActivities(ctx context.Context, ownerID uint64) ([]db.Activity, error)
	GetActivity(ctx context.Context, ownerID, id uint64) (db.Activity, error)
	UpdateActivity(ctx context.Context, ownerID uint64, act db.Activity) (db.Activity, error)
	DeleteActivity(ctx context.Context, ownerID, id uint64) error
}

// Store is the combination interface for all record types.
type Store interface {
	Users
	Institutions
	Courses
	Disciplines
	Activities
	// Close releases any resources held by the store. An error is returned if
	// the store cannot be cleanly closed.
	Close() error
}
