package db

import (
	"context"
	"database/sql"
)

const insertActivity = `
insert into activity (id, name, status, weight, result, date, discipline_id)
values (?, ?, ?, ?, ?, ?, ?)`

// InsertActivity inserts an activity. The caller is responsible for verifying
// the target discipline is owned by the requesting user.
func (q *Queries) InsertActivity(ctx context.Context, act Activity) error {
	_, err := q.db.ExecContext(ctx, insertActivity,
		int64(act.ID), act.Name, act.Status, act.Weight, act.Result, act.Date, int64(act.DisciplineID),
	)
	return err
}

const getActivity = `
select a.id, a.name, a.status, a.weight, a.result, a.date, a.discipline_id
from activity a
join discipline d on d.id = a.discipline_id
join course c on c.id = d.course_id
join institution i on i.id = c.institution_id
where a.id = ? and i.user_id = ?`

// GetActivity returns the activity with the given ID if its discipline chain
// is owned by ownerID.
func (q *Queries) GetActivity(ctx context.Context, ownerID, id uint64) (Activity, error) {
	return scanActivity(q.db.QueryRowContext(ctx, getActivity, int64(id), int64(ownerID)))
}

const listActivities = `
select a.id, a.name, a.status, a.weight, a.result, a.date, a.discipline_id
from activity a
join discipline d on d.id = a.discipline_id
join course c on c.id = d.course_id
join institution i on i.id = c.institution_id
where i.user_id = ?
order by a.date, a.id`

// ListActivities returns every activity under the owner's disciplines.
func (q *Queries) ListActivities(ctx context.Context, ownerID uint64) ([]Activity, error) {
	rows, err := q.db.QueryContext(ctx, listActivities, int64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var acts []Activity
	for rows.Next() {
		var act Activity
		var id, discID int64
		if err := rows.Scan(&id, &act.Name, &act.Status, &act.Weight, &act.Result, &act.Date, &discID); err != nil {
			return nil, err
		}
		act.ID, act.DisciplineID = uint64(id), uint64(discID)
		acts = append(acts, act)
	}
	return acts, rows.Err()
}

const updateActivity = `
update activity
set name = ?, status = ?, weight = ?, result = ?, discipline_id = ?
where id = ? and discipline_id in (
	select d.id from discipline d
	join course c on c.id = d.course_id
	join institution i on i.id = c.institution_id
	where i.user_id = ?
)
returning id`

// UpdateActivity updates an owned activity. A [sql.ErrNoRows] is returned
// when no owned activity matched.
func (q *Queries) UpdateActivity(ctx context.Context, ownerID uint64, act Activity) error {
	var id int64
	return q.db.QueryRowContext(ctx, updateActivity,
		act.Name, act.Status, act.Weight, act.Result, int64(act.DisciplineID),
		int64(act.ID), int64(ownerID),
	).Scan(&id)
}

const deleteActivity = `
delete from activity
where id = ? and discipline_id in (
	select d.id from discipline d
	join course c on c.id = d.course_id
	join institution i on i.id = c.institution_id
	where i.user_id = ?
)
returning id`

// DeleteActivity removes an owned activity. A [sql.ErrNoRows] is returned
// when no owned activity matched.
func (q *Queries) DeleteActivity(ctx context.Context, ownerID, id uint64) error {
	var deleted int64
	return q.db.QueryRowContext(ctx, deleteActivity, int64(id), int64(ownerID)).Scan(&deleted)
}

func scanActivity(row *sql.Row) (Activity, error) {
	var act Activity
	var id, discID int64
	err := row.Scan(&id, &act.Name, &act.Status, &act.Weight, &act.Result, &act.Date, &discID)
	act.ID, act.DisciplineID = uint64(id), uint64(discID)
	return act, err
}
