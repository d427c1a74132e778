package db

import (
	"context"
	"database/sql"
)

// Queries runs the hand-written SQL for the On Way Study schema against a
// database handle.
type Queries struct {
	db *sql.DB
}

// New creates Queries bound to the given handle.
func New(handle *sql.DB) *Queries {
	return &Queries{db: handle}
}

const insertUser = `
insert into user (id, nickname, password_hash, created_at, updated_at)
values (?, ?, ?, ?, ?)
on conflict (nickname) do nothing
returning id`

// InsertUser inserts a user. A [sql.ErrNoRows] is returned when the nickname
// is already taken.
func (q *Queries) InsertUser(ctx context.Context, user User) error {
	var id int64
	return q.db.QueryRowContext(ctx, insertUser,
		int64(user.ID), user.Nickname, user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(&id)
}

const getUserByNickname = `
select id, nickname, password_hash, created_at, updated_at
from user
where nickname = ?`

// GetUserByNickname returns the user with the given nickname. The match is
// exact; no trimming or case folding is applied.
func (q *Queries) GetUserByNickname(ctx context.Context, nickname string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByNickname, nickname))
}

const updateUser = `
update user
set nickname = ?, password_hash = ?, updated_at = ?
where id = ?
returning id`

// UpdateUser updates the nickname and password hash of an existing user.
// A [sql.ErrNoRows] is returned when the user does not exist.
func (q *Queries) UpdateUser(ctx context.Context, user User) error {
	var id int64
	return q.db.QueryRowContext(ctx, updateUser,
		user.Nickname, user.PasswordHash, user.UpdatedAt, int64(user.ID),
	).Scan(&id)
}

const deleteUser = `delete from user where id = ?`

// DeleteUser removes a user. Owned institutions and everything below them are
// removed by the cascade.
func (q *Queries) DeleteUser(ctx context.Context, id uint64) error {
	_, err := q.db.ExecContext(ctx, deleteUser, int64(id))
	return err
}

const nicknameExists = `select exists (select 1 from user where nickname = ?)`

// NicknameExists reports whether any user holds the given nickname.
func (q *Queries) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, nicknameExists, nickname).Scan(&exists)
	return exists, err
}

func scanUser(row *sql.Row) (User, error) {
	var user User
	var id int64
	err := row.Scan(&id, &user.Nickname, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	user.ID = uint64(id)
	return user, err
}
