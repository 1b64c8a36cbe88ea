package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/query"
)

var courseTable = query.Table{
	Name:  "courses",
	Alias: "c",
	Columns: []string{
		"id", "course_name", "department_name", "semester", "course_year",
		"credits", "professor_name", "created_date", "modified_date",
	},
	SearchColumns: []string{"course_name"},
	Junction:      junctionTable,
	JunctionKey:   "course_id",
	RelatedKey:    "student_id",
}

type courseRow struct {
	models.Course
	StudentID sql.NullInt64 `db:"student_id"`
}

var courseFolder = query.Folder[courseRow, models.Course]{
	Key: func(r courseRow) int64 { return r.ID },
	Build: func(r courseRow) models.Course {
		course := r.Course
		course.StudentIDs = []int64{}
		return course
	},
	Child: func(r courseRow) (int64, bool) { return r.StudentID.Int64, r.StudentID.Valid },
	Extend: func(c models.Course, studentID int64) models.Course {
		return c.WithStudentID(studentID)
	},
}

// CourseRepository manages persistence for courses. A course's student ids are
// read from the junction table and never written from this side.
type CourseRepository struct {
	db      *sqlx.DB
	fetcher query.Fetcher[courseRow]
}

// NewCourseRepository constructs a CourseRepository. observer may be nil.
func NewCourseRepository(db *sqlx.DB, observer query.Observer) *CourseRepository {
	return &CourseRepository{db: db, fetcher: query.NewFetcher[courseRow](db, courseTable, observer)}
}

// Get returns the course with its student ids or sql.ErrNoRows.
func (r *CourseRepository) Get(ctx context.Context, id int64) (*models.Course, error) {
	stmt, args, err := courseTable.SelectByID(id)
	if err != nil {
		return nil, fmt.Errorf("build get course: %w", err)
	}
	rows, err := query.Collect[courseRow](ctx, r.db, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	course, ok := query.Aggregate(rows, courseFolder).Get(id)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &course, nil
}

// List returns one page of courses matching spec.
func (r *CourseRepository) List(ctx context.Context, spec query.Spec) (models.Page[models.Course], error) {
	spec = spec.Normalize()
	where, err := query.BuildFilter(spec, courseTable)
	if err != nil {
		return models.Page[models.Course]{}, err
	}
	rows, total, err := r.fetcher.Fetch(ctx, spec, where, query.ResolveSort(spec.Sort, courseTable))
	if err != nil {
		return models.Page[models.Course]{}, err
	}
	return models.NewPage(query.Aggregate(rows, courseFolder).Values(), total), nil
}

// Insert stores a new course and returns its generated id. course.ID and
// course.StudentIDs are ignored.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) (int64, error) {
	const stmt = `INSERT INTO courses (course_name, department_name, semester, course_year, credits, professor_name)
        VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	if err := r.db.QueryRowxContext(ctx, stmt,
		course.CourseName, course.DepartmentName, course.Semester,
		course.CourseYear, course.Credits, course.ProfessorName,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert course: %w", err)
	}
	return id, nil
}

// Update overwrites the course's columns. Returns sql.ErrNoRows when the id does not exist.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	modified := time.Now().UTC()
	const stmt = `UPDATE courses SET course_name = $2, department_name = $3, semester = $4, course_year = $5,
        credits = $6, professor_name = $7, modified_date = $8 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, stmt,
		course.ID, course.CourseName, course.DepartmentName, course.Semester,
		course.CourseYear, course.Credits, course.ProfessorName, modified,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}
	course.ModifiedDate = &modified
	return nil
}

// Delete removes the course's student links and then the course.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return deleteWithLinks(ctx, r.db, courseTable, id)
}
