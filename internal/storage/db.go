package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
	"unicode/utf8"

	"github.com/influxdata/influxdb/pkg/snowflake"

	"github.com/onwaystudy/onwaystudy/internal/config"
	"github.com/onwaystudy/onwaystudy/internal/storage/db"
)

// Nickname validation constraints matching the user creation contract.
const maxNicknameLen = 100

// validateNickname validates that a nickname is non-empty, valid UTF-8, and
// at most 100 characters. Nicknames are otherwise free-form and matched
// exactly, with no trimming or case folding.
func validateNickname(nickname string) bool {
	return nickname != "" &&
		utf8.ValidString(nickname) &&
		utf8.RuneCountInString(nickname) <= maxNicknameLen
}

// DB is a [Store] backed by a SQLite database.
type DB struct {
	ids     *snowflake.Generator
	db      *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewDB initializes a DB with the given config and logger.
func NewDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*DB, error) {
	handle, err := db.Open(ctx, logger, cfg.DBFilepath)
	if err != nil {
		return nil, err
	}
	return &DB{
		ids:     snowflake.New(rand.IntN(1023)), //nolint:gosec,mnd // this isn't for crypto
		db:      handle,
		queries: db.New(handle),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}, nil
}

// Close satisfies the [Store] interface.
func (d *DB) Close() error {
	return d.db.Close()
}

// CreateUser satisfies the [Users] interface.
func (d *DB) CreateUser(ctx context.Context, nickname string, passwordHash []byte) (db.User, error) {
	if !validateNickname(nickname) {
		return db.User{}, ErrInvalidNickname
	}
	now := d.now()
	user := db.User{
		ID:           d.ids.Next(),
		Nickname:     nickname,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	switch err := d.queries.InsertUser(ctx, user); {
	case errors.Is(err, sql.ErrNoRows):
		return db.User{}, ErrAlreadyExists
	case err != nil:
		return db.User{}, err
	}
	return user, nil
}

// GetUserByNickname satisfies the [Users] interface.
func (d *DB) GetUserByNickname(ctx context.Context, nickname string) (db.User, error) {
	user, err := d.queries.GetUserByNickname(ctx, nickname)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	return user, err
}

// UpdateUser satisfies the [Users] interface.
func (d *DB) UpdateUser(ctx context.Context, user db.User) (db.User, error) {
	if !validateNickname(user.Nickname) {
		return db.User{}, ErrInvalidNickname
	}
	if other, err := d.queries.GetUserByNickname(ctx, user.Nickname); err == nil && other.ID != user.ID {
		return db.User{}, ErrAlreadyExists
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return db.User{}, err
	}
	user.UpdatedAt = d.now()
	switch err := d.queries.UpdateUser(ctx, user); {
	case errors.Is(err, sql.ErrNoRows):
		return db.User{}, ErrNotFound
	case err != nil:
		return db.User{}, err
	}
	return user, nil
}

// DeleteUser satisfies the [Users] interface.
func (d *DB) DeleteUser(ctx context.Context, id uint64) error {
	return d.queries.DeleteUser(ctx, id)
}

// NicknameExists satisfies the [Users] interface.
func (d *DB) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	return d.queries.NicknameExists(ctx, nickname)
}

// CreateInstitution satisfies the [Institutions] interface.
func (d *DB) CreateInstitution(ctx context.Context, ownerID uint64, name string) (db.Institution, error) {
	inst := db.Institution{
		ID:     d.ids.Next(),
		Name:   name,
		Date:   d.now(),
		UserID: ownerID,
	}
	switch err := d.queries.InsertInstitution(ctx, inst); {
	case errors.Is(err, sql.ErrNoRows):
		return db.Institution{}, ErrAlreadyExists
	case err != nil:
		return db.Institution{}, err
	}
	return inst, nil
}

// ListInstitutions satisfies the [Institutions] interface.
func (d *DB) ListInstitutions(ctx context.Context, ownerID uint64) ([]db.Institution, error) {
	return d.queries.ListInstitutions(ctx, ownerID)
}

// GetInstitutionByName satisfies the [Institutions] interface.
func (d *DB) GetInstitutionByName(ctx context.Context, ownerID uint64, name string) (db.Institution, error) {
	inst, err := d.queries.GetInstitutionByName(ctx, ownerID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return inst, ErrNotFound
	}
	return inst, err
}

// UpdateInstitution satisfies the [Institutions] interface.
func (d *DB) UpdateInstitution(ctx context.Context, inst db.Institution) (db.Institution, error) {
	if other, err := d.queries.GetInstitutionByName(ctx, inst.UserID, inst.Name); err == nil && other.ID != inst.ID {
		return db.Institution{}, ErrAlreadyExists
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return db.Institution{}, err
	}
	switch err := d.queries.UpdateInstitution(ctx, inst); {
	case errors.Is(err, sql.ErrNoRows):
		return db.Institution{}, ErrNotFound
	case err != nil:
		return db.Institution{}, err
	}
	return inst, nil
}

// DeleteInstitution satisfies the [Institutions] interface.
func (d *DB) DeleteInstitution(ctx context.Context, ownerID uint64, name string) error {
	err := d.queries.DeleteInstitution(ctx, ownerID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateCourse satisfies the [Courses] interface.
func (d *DB) CreateCourse(ctx context.Context, ownerID uint64, course db.Course) (db.Course, error) {
	if err := d.requireInstitution(ctx, ownerID, course.InstitutionID); err != nil {
		return db.Course{}, err
	}
	course.ID = d.ids.Next()
	if err := d.queries.InsertCourse(ctx, course); err != nil {
		return db.Course{}, err
	}
	return course, nil
}

// ListCourses satisfies the [Courses] interface.
func (d *DB) ListCourses(ctx context.Context, ownerID uint64) ([]db.Course, error) {
	return d.queries.ListCourses(ctx, ownerID)
}

// GetCourse satisfies the [Courses] interface.
func (d *DB) GetCourse(ctx context.Context, ownerID, id uint64) (db.Course, error) {
	course, err := d.queries.GetCourse(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return course, ErrNotFound
	}
	return course, err
}

// UpdateCourse satisfies the [Courses] interface.
func (d *DB) UpdateCourse(ctx context.Context, ownerID uint64, course db.Course) (db.Course, error) {
	if err := d.requireInstitution(ctx, ownerID, course.InstitutionID); err != nil {
		return db.Course{}, err
	}
	switch err := d.queries.UpdateCourse(ctx, ownerID, course); {
	case errors.Is(err, sql.ErrNoRows):
		return db.Course{}, ErrNotFound
	case err != nil:
		return db.Course{}, err
	}
	return course, nil
}

// DeleteCourse satisfies the [Courses] interface.
func (d *DB) DeleteCourse(ctx context.Context, ownerID, id uint64) error {
	err := d.queries.DeleteCourse(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateDiscipline satisfies the [Disciplines] interface.
func (d *DB) CreateDiscipline(ctx context.Context, ownerID uint64, disc db.Discipline) (db.Discipline, error) {
	if err := d.requireCourse(ctx, ownerID, disc.CourseID); err != nil {
		return db.Discipline{}, err
	}
	disc.ID = d.ids.Next()
	if err := d.queries.InsertDiscipline(ctx, disc); err != nil {
		return db.Discipline{}, err
	}
	return disc, nil
}

// ListDisciplines satisfies the [Disciplines] interface.
func (d *DB) ListDisciplines(ctx context.Context, ownerID uint64) ([]db.Discipline, error) {
	return d.queries.ListDisciplines(ctx, ownerID)
}

// GetDiscipline satisfies the [Disciplines] interface.
func (d *DB) GetDiscipline(ctx context.Context, ownerID, id uint64) (db.Discipline, error) {
	disc, err := d.queries.GetDiscipline(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return disc, ErrNotFound
	}
	return disc, err
}

// UpdateDiscipline satisfies the [Disciplines] interface.
func (d *DB) UpdateDiscipline(ctx context.Context, ownerID uint64, disc db.Discipline) (db.Discipline, error) {
	if err := d.requireCourse(ctx, ownerID, disc.CourseID); err != nil {
		return db.Discipline{}, err
	}
	switch err := d.queries.UpdateDiscipline(ctx, ownerID, disc); {
	case errors.Is(err, sql.ErrNoRows):
		return db.Discipline{}, ErrNotFound
	case err != nil:
		return db.Discipline{}, err
	}
	return disc, nil
}

// DeleteDiscipline satisfies the [Disciplines] interface.
func (d *DB) DeleteDiscipline(ctx context.Context, ownerID, id uint64) error {
	err := d.queries.DeleteDiscipline(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateActivity satisfies the [Activities] interface.
func (d *DB) CreateActivity(ctx context.Context, ownerID uint64, act db.Activity) (db.Activity, error) {
	if err := d.requireDiscipline(ctx, ownerID, act.DisciplineID); err != nil {
		return db.Activity{}, err
	}
	if act.Status == "" {
		act.Status = db.StatusPending
	}
	act.ID = d.ids.Next()
	act.Date = d.now()
	if err := d.queries.InsertActivity(ctx, act); err != nil {
		return db.Activity{}, err
	}
	return act, nil
}

// ListActivities satisfies the [Activities] interface.
func (d *DB) ListActivities(ctx context.Context, ownerID uint64) ([]db.Activity, error) {
	return d.queries.ListActivities(ctx, ownerID)
}

// GetActivity satisfies the [Activities] interface.
func (d *DB) GetActivity(ctx context.Context, ownerID, id uint64) (db.Activity, error) {
	act, err := d.queries.GetActivity(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return act, ErrNotFound
	}
	return act, err
}

// UpdateActivity satisfies the [Activities] interface.
func (d *DB) UpdateActivity(ctx context.Context, ownerID uint64, act db.Activity) (db.Activity, error) {
	if err := d.requireDiscipline(ctx, ownerID, act.DisciplineID); err != nil {
		return db.Activity{}, err
	}
	switch err := d.queries.UpdateActivity(ctx, ownerID, act); {
	case errors.Is(err, sql.ErrNoRows):
		return db.Activity{}, ErrNotFound
	case err != nil:
		return db.Activity{}, err
	}
	return act, nil
}

// DeleteActivity satisfies the [Activities] interface.
func (d *DB) DeleteActivity(ctx context.Context, ownerID, id uint64) error {
	err := d.queries.DeleteActivity(ctx, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// requireInstitution returns [ErrNotFound] unless the institution exists and
// is owned by ownerID. Foreign records are never revealed as existing.
func (d *DB) requireInstitution(ctx context.Context, ownerID, institutionID uint64) error {
	owned, err := d.queries.InstitutionOwned(ctx, ownerID, institutionID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}
	return nil
}

func (d *DB) requireCourse(ctx context.Context, ownerID, courseID uint64) error {
	owned, err := d.queries.CourseOwned(ctx, ownerID, courseID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}
	return nil
}

func (d *DB) requireDiscipline(ctx context.Context, ownerID, disciplineID uint64) error {
	owned, err := d.queries.DisciplineOwned(ctx, ownerID, disciplineID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*DB)(nil)
