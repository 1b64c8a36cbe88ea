package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/query"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var studentColumns = []string{"id", "first_name", "last_name", "email", "phone_number", "date_of_birth", "gpa", "major", "created_date", "modified_date", "course_id"}

func TestStudentRepositoryGetFoldsCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	dob := time.Date(2001, 5, 6, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM students s LEFT JOIN student_courses j ON j.student_id = s.id WHERE s.id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(4, "Ada", "Lovelace", "ada@example.com", "555", dob, 3.9, "Math", created, nil, 5).
			AddRow(4, "Ada", "Lovelace", "ada@example.com", "555", dob, 3.9, "Math", created, nil, 7))

	student, err := repo.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), student.ID)
	assert.Equal(t, "Ada Lovelace", student.FullName())
	assert.Equal(t, []int64{5, 7}, student.CourseIDs)
	require.NotNil(t, student.DateOfBirth)
	assert.Equal(t, "2001-05-06", student.DateOfBirth.Format(models.DateLayout))
	require.NotNil(t, student.GPA)
	assert.InDelta(t, 3.9, *student.GPA, 0.0001)
	assert.Nil(t, student.ModifiedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetWithoutCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectQuery("FROM students s").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(8, "Alan", "Turing", "", "", nil, nil, "", time.Now(), nil, nil))

	student, err := repo.Get(context.Background(), 8)
	require.NoError(t, err)
	assert.NotNil(t, student.CourseIDs)
	assert.Empty(t, student.CourseIDs)
	assert.Nil(t, student.DateOfBirth)
	assert.Nil(t, student.GPA)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectQuery("FROM students s").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(studentColumns))

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListCountsParentsNotJoinedRows(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE (1=1 AND (first_name ILIKE $1 OR last_name ILIKE $2)) ORDER BY last_name DESC, id ASC LIMIT $3 OFFSET $4) AS s")).
		WithArgs("Lo%", "Lo%", 10, 10).
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(2, "Ada", "Lovelace", "", "", nil, nil, "", now, nil, 1).
			AddRow(2, "Ada", "Lovelace", "", "", nil, nil, "", now, nil, 2).
			AddRow(3, "Lou", "Reed", "", "", nil, nil, "", now, nil, nil))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE (1=1 AND (first_name ILIKE $1 OR last_name ILIKE $2))")).
		WithArgs("Lo%", "Lo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	page, err := repo.List(context.Background(), query.Spec{Search: "Lo", Sort: "lastName:desc", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, []int64{1, 2}, page.Data[0].CourseIDs)
	assert.Empty(t, page.Data[1].CourseIDs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListInvalidSortFallsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY modified_date DESC NULLS LAST, id ASC LIMIT $1 OFFSET $2) AS s")).
		WithArgs(query.MaxPageSize, 0).
		WillReturnRows(sqlmock.NewRows(studentColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students WHERE (1=1)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := repo.List(context.Background(), query.Spec{Sort: "password:asc"})
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Zero(t, page.Count)
	assert.Zero(t, page.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryInsertLinksCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WithArgs("Ada", "Lovelace", "ada@example.com", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "Math").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_courses (student_id,course_id) VALUES ($1,$2),($3,$4)")).
		WithArgs(int64(42), int64(1), int64(42), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), &models.Student{
		ID:        7,
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Major:     "Math",
		CourseIDs: []int64{1, 2, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryInsertWithoutCoursesSkipsBatch(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	id, err := repo.Insert(context.Background(), &models.Student{FirstName: "A", LastName: "B"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryInsertRollsBackOnLinkFailure(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	fkErr := errors.New("violates foreign key constraint")
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO students").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectExec("INSERT INTO student_courses").WillReturnError(fkErr)
	mock.ExpectRollback()

	_, err := repo.Insert(context.Background(), &models.Student{FirstName: "A", LastName: "B", CourseIDs: []int64{404}})
	require.Error(t, err)
	assert.ErrorIs(t, err, fkErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateReconcilesCourses(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET").
		WithArgs(int64(5), "Ada", "Lovelace", "", "", sqlmock.AnyArg(), sqlmock.AnyArg(), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_id FROM student_courses WHERE student_id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(1).AddRow(2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO student_courses (student_id,course_id) VALUES ($1,$2)")).
		WithArgs(int64(5), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courses WHERE student_id = $1 AND course_id IN ($2)")).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	student := &models.Student{ID: 5, FirstName: "Ada", LastName: "Lovelace", CourseIDs: []int64{2, 3}}
	require.NoError(t, repo.Update(context.Background(), student))
	assert.NotNil(t, student.ModifiedDate)

	mock.ExpectQuery("FROM students s").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(studentColumns).
			AddRow(5, "Ada", "Lovelace", "", "", nil, nil, "", time.Now(), time.Now(), 2).
			AddRow(5, "Ada", "Lovelace", "", "", nil, nil, "", time.Now(), time.Now(), 3))

	reloaded, err := repo.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 3}, reloaded.CourseIDs)
	assert.NotNil(t, reloaded.ModifiedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateUnchangedCoursesWritesNoLinks(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT course_id FROM student_courses").
		WillReturnRows(sqlmock.NewRows([]string{"course_id"}).AddRow(2).AddRow(3))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), &models.Student{ID: 5, FirstName: "A", LastName: "B", CourseIDs: []int64{3, 2}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Update(context.Background(), &models.Student{ID: 77, FirstName: "A", LastName: "B"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteRemovesLinksFirst(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM student_courses WHERE student_id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDeleteMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewStudentRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM student_courses").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM students").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
