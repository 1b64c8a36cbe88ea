package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/student-management-api/internal/models"
	"github.com/noah-isme/student-management-api/internal/query"
	appErrors "github.com/noah-isme/student-management-api/pkg/errors"
)

type studentRepository interface {
	Get(ctx context.Context, id int64) (*models.Student, error)
	List(ctx context.Context, spec query.Spec) (models.Page[models.Student], error)
	Insert(ctx context.Context, student *models.Student) (int64, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

// StudentRequest holds the payload for creating or replacing a student.
// CourseIDs is the complete desired set of enrolled courses.
type StudentRequest struct {
	ID          int64        `json:"id"`
	FirstName   string       `json:"firstName" validate:"required,max=100"`
	LastName    string       `json:"lastName" validate:"required,max=100"`
	Email       string       `json:"email" validate:"omitempty,email,max=255"`
	PhoneNumber string       `json:"phoneNumber" validate:"omitempty,max=32"`
	DateOfBirth *models.Date `json:"dateOfBirth"`
	GPA         *float64     `json:"gpa" validate:"omitempty,gte=0,lte=5"`
	Major       string       `json:"major" validate:"omitempty,max=100"`
	CourseIDs   []int64      `json:"courseIds" validate:"omitempty,dive,gt=0"`
}

func (r StudentRequest) toModel() *models.Student {
	return &models.Student{
		ID:          r.ID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth,
		GPA:         r.GPA,
		Major:       r.Major,
		CourseIDs:   r.CourseIDs,
	}
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of students and its pagination metadata.
func (s *StudentService) List(ctx context.Context, spec query.Spec) ([]models.Student, *models.Pagination, error) {
	spec = spec.Normalize()
	page, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	pagination := &models.Pagination{Page: spec.Page, PageSize: spec.PageSize, Count: page.Count, TotalCount: page.Total}
	return page.Data, pagination, nil
}

// Get returns a student with its course ids.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student and enrolls it in the requested courses.
// A client supplied id is only used to reject duplicates; the store assigns the real one.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.ID != 0 {
		if _, err := s.repo.Get(ctx, req.ID); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
		}
	}

	id, err := s.repo.Insert(ctx, req.toModel())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.logger.Info("student created", zap.Int64("student_id", id), zap.Int("courses", len(req.CourseIDs)))
	return s.Get(ctx, id)
}

// Update replaces the student's fields and course enrollment.
func (s *StudentService) Update(ctx context.Context, id int64, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student := req.toModel()
	student.ID = id
	if err := s.repo.Update(ctx, student); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.logger.Info("student updated", zap.Int64("student_id", id), zap.Int64s("course_ids", student.CourseIDs))
	return s.Get(ctx, id)
}

// Delete removes a student and its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.Int64("student_id", id))
	return nil
}
