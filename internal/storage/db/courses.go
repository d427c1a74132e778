package db

import (
	"context"
	"database/sql"
)

const insertCourse = `
insert into course (id, name, acronym, semesters, institution_id)
values (?, ?, ?, ?, ?)`

// InsertCourse inserts a course. The caller is responsible for verifying the
// target institution is owned by the requesting user.
func (q *Queries) InsertCourse(ctx context.Context, course Course) error {
	_, err := q.db.ExecContext(ctx, insertCourse,
		int64(course.ID), course.Name, course.Acronym, course.Semesters, int64(course.InstitutionID),
	)
	return err
}

const getCourse = `
select c.id, c.name, c.acronym, c.semesters, c.institution_id
from course c
join institution i on i.id = c.institution_id
where c.id = ? and i.user_id = ?`

// GetCourse returns the course with the given ID if it sits under an
// institution owned by ownerID.
func (q *Queries) GetCourse(ctx context.Context, ownerID, id uint64) (Course, error) {
	return scanCourse(q.db.QueryRowContext(ctx, getCourse, int64(id), int64(ownerID)))
}

const listCourses = `
select c.id, c.name, c.acronym, c.semesters, c.institution_id
from course c
join institution i on i.id = c.institution_id
where i.user_id = ?
order by c.name`

// ListCourses returns every course under the owner's institutions.
func (q *Queries) ListCourses(ctx context.Context, ownerID uint64) ([]Course, error) {
	rows, err := q.db.QueryContext(ctx, listCourses, int64(ownerID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []Course
	for rows.Next() {
		var course Course
		var id, instID int64
		if err := rows.Scan(&id, &course.Name, &course.Acronym, &course.Semesters, &instID); err != nil {
			return nil, err
		}
		course.ID, course.InstitutionID = uint64(id), uint64(instID)
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

const updateCourse = `
update course
set name = ?, acronym = ?, semesters = ?, institution_id = ?
where id = ? and institution_id in (select id from institution where user_id = ?)
returning id`

// UpdateCourse updates a course owned (through its institution) by ownerID.
// A [sql.ErrNoRows] is returned when no owned course matched.
func (q *Queries) UpdateCourse(ctx context.Context, ownerID uint64, course Course) error {
	var id int64
	return q.db.QueryRowContext(ctx, updateCourse,
		course.Name, course.Acronym, course.Semesters, int64(course.InstitutionID),
		int64(course.ID), int64(ownerID),
	).Scan(&id)
}

const deleteCourse = `
delete from course
where id = ? and institution_id in (select id from institution where user_id = ?)
returning id`

// DeleteCourse removes an owned course and everything below it. A
// [sql.ErrNoRows] is returned when no owned course matched.
func (q *Queries) DeleteCourse(ctx context.Context, ownerID, id uint64) error {
	var deleted int64
	return q.db.QueryRowContext(ctx, deleteCourse, int64(id), int64(ownerID)).Scan(&deleted)
}

const courseOwned = `
select exists (
	select 1
	from course c
	join institution i on i.id = c.institution_id
	where c.id = ? and i.user_id = ?
)`

// CourseOwned reports whether the course exists under an institution owned by
// ownerID.
func (q *Queries) CourseOwned(ctx context.Context, ownerID, courseID uint64) (bool, error) {
	var owned bool
	err := q.db.QueryRowContext(ctx, courseOwned, int64(courseID), int64(ownerID)).Scan(&owned)
	return owned, err
}

func scanCourse(row *sql.Row) (Course, error) {
	var course Course
	var id, instID int64
	err := row.Scan(&id, &course.Name, &course.Acronym, &course.Semesters, &instID)
	course.ID, course.InstitutionID = uint64(id), uint64(instID)
	return course, err
}
