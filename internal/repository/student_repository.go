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

var studentTable = query.Table{
	Name:  "students",
	Alias: "s",
	Columns: []string{
		"id", "first_name", "last_name", "email", "phone_number",
		"date_of_birth", "gpa", "major", "created_date", "modified_date",
	},
	SearchColumns: []string{"first_name", "last_name"},
	Junction:      junctionTable,
	JunctionKey:   "student_id",
	RelatedKey:    "course_id",
}

// studentRow is one student joined with at most one enrolled course.
type studentRow struct {
	models.Student
	CourseID sql.NullInt64 `db:"course_id"`
}

var studentFolder = query.Folder[studentRow, models.Student]{
	Key: func(r studentRow) int64 { return r.ID },
	Build: func(r studentRow) models.Student {
		student := r.Student
		student.CourseIDs = []int64{}
		return student
	},
	Child: func(r studentRow) (int64, bool) { return r.CourseID.Int64, r.CourseID.Valid },
	Extend: func(s models.Student, courseID int64) models.Student {
		return s.WithCourseID(courseID)
	},
}

// StudentRepository manages persistence for students and their course links.
type StudentRepository struct {
	db      *sqlx.DB
	fetcher query.Fetcher[studentRow]
}

// NewStudentRepository constructs a StudentRepository. observer may be nil.
func NewStudentRepository(db *sqlx.DB, observer query.Observer) *StudentRepository {
	return &StudentRepository{db: db, fetcher: query.NewFetcher[studentRow](db, studentTable, observer)}
}

// Get returns the student with its course ids or sql.ErrNoRows.
func (r *StudentRepository) Get(ctx context.Context, id int64) (*models.Student, error) {
	stmt, args, err := studentTable.SelectByID(id)
	if err != nil {
		return nil, fmt.Errorf("build get student: %w", err)
	}
	rows, err := query.Collect[studentRow](ctx, r.db, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	student, ok := query.Aggregate(rows, studentFolder).Get(id)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &student, nil
}

// List returns one page of students matching spec.
func (r *StudentRepository) List(ctx context.Context, spec query.Spec) (models.Page[models.Student], error) {
	spec = spec.Normalize()
	where, err := query.BuildFilter(spec, studentTable)
	if err != nil {
		return models.Page[models.Student]{}, err
	}
	rows, total, err := r.fetcher.Fetch(ctx, spec, where, query.ResolveSort(spec.Sort, studentTable))
	if err != nil {
		return models.Page[models.Student]{}, err
	}
	return models.NewPage(query.Aggregate(rows, studentFolder).Values(), total), nil
}

// Insert stores a new student and links every requested course. The student's
// ID field is ignored; the generated id is returned.
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) (id int64, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const stmt = `INSERT INTO students (first_name, last_name, email, phone_number, date_of_birth, gpa, major)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err = tx.QueryRowxContext(ctx, stmt,
		student.FirstName, student.LastName, student.Email, student.PhoneNumber,
		student.DateOfBirth, student.GPA, student.Major,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert student: %w", err)
	}

	if err = linkRelated(ctx, tx, studentTable, id, query.Distinct(student.CourseIDs)); err != nil {
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert student: %w", err)
	}
	return id, nil
}

// Update overwrites the student's columns and reconciles its course links
// against student.CourseIDs. Returns sql.ErrNoRows when the id does not exist.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update student: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	modified := time.Now().UTC()
	const stmt = `UPDATE students SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
        date_of_birth = $6, gpa = $7, major = $8, modified_date = $9 WHERE id = $1`
	res, err := tx.ExecContext(ctx, stmt,
		student.ID, student.FirstName, student.LastName, student.Email, student.PhoneNumber,
		student.DateOfBirth, student.GPA, student.Major, modified,
	)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	if err = requireAffected(res); err != nil {
		return err
	}

	var existing []int64
	if err = tx.SelectContext(ctx, &existing, `SELECT course_id FROM student_courses WHERE student_id = $1`, student.ID); err != nil {
		return fmt.Errorf("load student courses: %w", err)
	}

	toAdd, toRemove := query.Reconcile(student.CourseIDs, existing)
	if err = linkRelated(ctx, tx, studentTable, student.ID, toAdd); err != nil {
		return err
	}
	if err = unlinkRelated(ctx, tx, studentTable, student.ID, toRemove); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update student: %w", err)
	}
	student.ModifiedDate = &modified
	return nil
}

// Delete removes the student's course links and then the student.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return deleteWithLinks(ctx, r.db, studentTable, id)
}
