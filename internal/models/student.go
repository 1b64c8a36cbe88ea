package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Student represents a learner together with the courses they are enrolled in.
type Student struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"firstName"`
	LastName     string     `db:"last_name" json:"lastName"`
	Email        string     `db:"email" json:"email"`
	PhoneNumber  string     `db:"phone_number" json:"phoneNumber"`
	DateOfBirth  *Date      `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	GPA          *float64   `db:"gpa" json:"gpa,omitempty"`
	Major        string     `db:"major" json:"major"`
	CourseIDs    []int64    `db:"-" json:"courseIds"`
	CreatedDate  time.Time  `db:"created_date" json:"createdDate"`
	ModifiedDate *time.Time `db:"modified_date" json:"modifiedDate,omitempty"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// WithCourseID returns a copy of the student with courseID appended. The receiver's slice is never shared.
func (s Student) WithCourseID(courseID int64) Student {
	ids := make([]int64, len(s.CourseIDs), len(s.CourseIDs)+1)
	copy(ids, s.CourseIDs)
	s.CourseIDs = append(ids, courseID)
	return s
}

// MarshalJSON adds the derived fullName and guarantees courseIds is never null.
func (s Student) MarshalJSON() ([]byte, error) {
	type student Student
	payload := struct {
		student
		FullName string `json:"fullName"`
	}{student: student(s), FullName: s.FullName()}
	if payload.CourseIDs == nil {
		payload.CourseIDs = []int64{}
	}
	return json.Marshal(payload)
}
