package models

import "time"

// Course represents an offered course and the students attending it.
type Course struct {
	ID             int64      `db:"id" json:"id"`
	CourseName     string     `db:"course_name" json:"courseName"`
	DepartmentName string     `db:"department_name" json:"departmentName"`
	Semester       string     `db:"semester" json:"semester"`
	CourseYear     int        `db:"course_year" json:"courseYear"`
	Credits        int        `db:"credits" json:"credits"`
	ProfessorName  string     `db:"professor_name" json:"professorName"`
	StudentIDs     []int64    `db:"-" json:"studentIds"`
	CreatedDate    time.Time  `db:"created_date" json:"createdDate"`
	ModifiedDate   *time.Time `db:"modified_date" json:"modifiedDate,omitempty"`
}

// WithStudentID returns a copy of the course with studentID appended.
func (c Course) WithStudentID(studentID int64) Course {
	ids := make([]int64, len(c.StudentIDs), len(c.StudentIDs)+1)
	copy(ids, c.StudentIDs)
	c.StudentIDs = append(ids, studentID)
	return c
}
