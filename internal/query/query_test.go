package query

import (
	"database/sql"
	"time"
)

var testCourses = Table{
	Name:          "courses",
	Alias:         "c",
	Columns:       []string{"id", "course_name", "course_year", "created_date", "modified_date"},
	SearchColumns: []string{"course_name"},
	Junction:      "student_courses",
	JunctionKey:   "course_id",
	RelatedKey:    "student_id",
}

var testStudents = Table{
	Name:          "students",
	Alias:         "s",
	Columns:       []string{"id", "first_name", "last_name", "date_of_birth", "created_date", "modified_date"},
	SearchColumns: []string{"first_name", "last_name"},
	Junction:      "student_courses",
	JunctionKey:   "student_id",
	RelatedKey:    "course_id",
}

type courseRow struct {
	ID           int64         `db:"id"`
	CourseName   string        `db:"course_name"`
	CourseYear   int           `db:"course_year"`
	CreatedDate  time.Time     `db:"created_date"`
	ModifiedDate *time.Time    `db:"modified_date"`
	StudentID    sql.NullInt64 `db:"student_id"`
}

type course struct {
	ID         int64
	Name       string
	StudentIDs []int64
}

var courseFolder = Folder[courseRow, course]{
	Key: func(r courseRow) int64 { return r.ID },
	Build: func(r courseRow) course {
		return course{ID: r.ID, Name: r.CourseName, StudentIDs: []int64{}}
	},
	Child: func(r courseRow) (int64, bool) { return r.StudentID.Int64, r.StudentID.Valid },
	Extend: func(c course, id int64) course {
		ids := make([]int64, len(c.StudentIDs), len(c.StudentIDs)+1)
		copy(ids, c.StudentIDs)
		c.StudentIDs = append(ids, id)
		return c
	},
}

func link(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: true}
}
