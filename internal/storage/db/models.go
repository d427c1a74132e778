package db

import (
	"database/sql"
	"time"
)

// Activity status values.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
)

// ValidStatus reports whether s is a known activity status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// User is an account identified by a unique nickname. PasswordHash is a
// bcrypt hash; the plaintext password is never persisted.
type User struct {
	ID           uint64
	Nickname     string
	PasswordHash []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Institution belongs to exactly one user. Ownership is set at creation and
// never transferred.
type Institution struct {
	ID     uint64
	Name   string
	Date   time.Time
	UserID uint64
}

// Course belongs to an institution.
type Course struct {
	ID            uint64
	Name          string
	Acronym       string
	Semesters     int64
	InstitutionID uint64
}

// Discipline belongs to a course.
type Discipline struct {
	ID               uint64
	Name             string
	ExtraInformation sql.NullString
	CourseID         uint64
}

// Activity belongs to a discipline and carries a status plus an optional
// weight and result.
type Activity struct {
	ID           uint64
	Name         string
	Status       string
	Weight       sql.NullFloat64
	Result       sql.NullFloat64
	Date         time.Time
	DisciplineID uint64
}
