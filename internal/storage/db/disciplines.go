package db

import (
	"context"
	"database/sql"
)

const insertDiscipline = `
insert into discipline (id, name, extra_information, course_id)
values (?, ?, ?, ?)`

// InsertDiscipline inserts a discipline. The caller is responsible for
// verifying the target course is owned by the requesting user.
func (q *Queries) InsertDiscipline(ctx context.Context, disc Discipline) error {
	_, err := q.db.ExecContext(ctx, insertDiscipline,
		int64(disc.ID), disc.Name, disc.ExtraInformation, int64(disc.CourseID),
	)
	return err
}

const getDiscipline = `
select d.id, d.name, d.extra_information, d.course_id
from discipline d
join course c on c.id = d.course_id
join institution i on i.id = c.institution_id
where d.id = ? and i.user_id = ?`

// GetDiscipline returns the discipline with the given ID if its course chain
// is owned by ownerID.
func (q *Queries) GetDiscipline(ctx context.Context, ownerID, id uint64) (Discipline, error) {
	return scanDiscipline(q.db.QueryRowContext(ctx, getDiscipline, int64(id), int64(ownerID)))
}

const listDisciplines = `
select d.id, d.name, d.extra_information, d.course_id
from discipline d
join course c on c.id = d.course_id
join institution i on i.id = c.institution_id
where i.user_id = ?
order by d.name`

// ListDisciplines returns every discipline under the owner's courses.
func (q *Queries) ListDisciplines(ctx context.Context, ownerID uint64) ([]Discipline, error) {
	rows, err := q.db.QueryContext(ctx, listDisciplines, int64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var discs []Discipline
	for rows.Next() {
		var disc Discipline
		var id, courseID int64
		if err := rows.Scan(&id, &disc.Name, &disc.ExtraInformation, &courseID); err != nil {
			return nil, err
		}
		disc.ID, disc.CourseID = uint64(id), uint64(courseID)
		discs = append(discs, disc)
	}
	return discs, rows.Err()
}

const updateDiscipline = `
update discipline
set name = ?, extra_information = ?, course_id = ?
where id = ? and course_id in (
	select c.id from course c
	join institution i on i.id = c.institution_id
	where i.user_id = ?
)
returning id`

// UpdateDiscipline updates an owned discipline. A [sql.ErrNoRows] is returned
// when no owned discipline matched.
func (q *Queries) UpdateDiscipline(ctx context.Context, ownerID uint64, disc Discipline) error {
	var id int64
	return q.db.QueryRowContext(ctx, updateDiscipline,
		disc.Name, disc.ExtraInformation, int64(disc.CourseID),
		int64(disc.ID), int64(ownerID),
	).Scan(&id)
}

const deleteDiscipline = `
delete from discipline
where id = ? and course_id in (
	select c.id from course c
	join institution i on i.id = c.institution_id
	where i.user_id = ?
)
returning id`

// DeleteDiscipline removes an owned discipline and its activities. A
// [sql.ErrNoRows] is returned when no owned discipline matched.
func (q *Queries) DeleteDiscipline(ctx context.Context, ownerID, id uint64) error {
	var deleted int64
	return q.db.QueryRowContext(ctx, deleteDiscipline, int64(id), int64(ownerID)).Scan(&deleted)
}

const disciplineOwned = `
select exists (
	select 1
	from discipline d
	join course c on c.id = d.course_id
	join institution i on i.id = c.institution_id
	where d.id = ? and i.user_id = ?
)`

// DisciplineOwned reports whether the discipline's ownership chain resolves
// to ownerID.
func (q *Queries) DisciplineOwned(ctx context.Context, ownerID, disciplineID uint64) (bool, error) {
	var owned bool
	err := q.db.QueryRowContext(ctx, disciplineOwned, int64(disciplineID), int64(ownerID)).Scan(&owned)
	return owned, err
}

func scanDiscipline(row *sql.Row) (Discipline, error) {
	var disc Discipline
	var id, courseID int64
	err := row.Scan(&id, &disc.Name, &disc.ExtraInformation, &courseID)
	disc.ID, disc.CourseID = uint64(id), uint64(courseID)
	return disc, err
}
