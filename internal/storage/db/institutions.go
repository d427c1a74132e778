package db

import (
	"context"
	"database/sql"
)

const insertInstitution = `
insert into institution (id, name, date, user_id)
values (?, ?, ?, ?)
on conflict (user_id, name) do nothing
returning id`

// InsertInstitution inserts an institution owned by inst.UserID. A
// [sql.ErrNoRows] is returned when the owner already has an institution with
// that name.
func (q *Queries) InsertInstitution(ctx context.Context, inst Institution) error {
	var id int64
	return q.db.QueryRowContext(ctx, insertInstitution,
		int64(inst.ID), inst.Name, inst.Date, int64(inst.UserID),
	).Scan(&id)
}

const getInstitutionByName = `
select id, name, date, user_id
from institution
where user_id = ? and name = ?`

// GetInstitutionByName returns the owner's institution with the given name.
func (q *Queries) GetInstitutionByName(ctx context.Context, ownerID uint64, name string) (Institution, error) {
	return scanInstitution(q.db.QueryRowContext(ctx, getInstitutionByName, int64(ownerID), name))
}

const listInstitutions = `
select id, name, date, user_id
from institution
where user_id = ?
order by name`

// ListInstitutions returns every institution owned by ownerID.
func (q *Queries) ListInstitutions(ctx context.Context, ownerID uint64) ([]Institution, error) {
	rows, err := q.db.QueryContext(ctx, listInstitutions, int64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var insts []Institution
	for rows.Next() {
		var inst Institution
		var id, userID int64
		if err := rows.Scan(&id, &inst.Name, &inst.Date, &userID); err != nil {
			return nil, err
		}
		inst.ID, inst.UserID = uint64(id), uint64(userID)
		insts = append(insts, inst)
	}
	return insts, rows.Err()
}

const updateInstitution = `
update institution
set name = ?
where id = ? and user_id = ?
returning id`

// UpdateInstitution renames an institution. A [sql.ErrNoRows] is returned
// when the institution does not exist or is not owned by inst.UserID.
func (q *Queries) UpdateInstitution(ctx context.Context, inst Institution) error {
	var id int64
	return q.db.QueryRowContext(ctx, updateInstitution,
		inst.Name, int64(inst.ID), int64(inst.UserID),
	).Scan(&id)
}

const deleteInstitution = `
delete from institution
where user_id = ? and name = ?
returning id`

// DeleteInstitution removes the owner's institution with the given name and
// everything below it. A [sql.ErrNoRows] is returned when nothing matched.
func (q *Queries) DeleteInstitution(ctx context.Context, ownerID uint64, name string) error {
	var id int64
	return q.db.QueryRowContext(ctx, deleteInstitution, int64(ownerID), name).Scan(&id)
}

const institutionOwned = `
select exists (select 1 from institution where id = ? and user_id = ?)`

// InstitutionOwned reports whether the institution exists and is owned by
// ownerID.
func (q *Queries) InstitutionOwned(ctx context.Context, ownerID, institutionID uint64) (bool, error) {
	var owned bool
	err := q.db.QueryRowContext(ctx, institutionOwned, int64(institutionID), int64(ownerID)).Scan(&owned)
	return owned, err
}

func scanInstitution(row *sql.Row) (Institution, error) {
	var inst Institution
	var id, userID int64
	err := row.Scan(&id, &inst.Name, &inst.Date, &userID)
	inst.ID, inst.UserID = uint64(id), uint64(userID)
	return inst, err
}
