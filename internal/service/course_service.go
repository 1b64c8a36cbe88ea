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

type courseRepository interface {
	Get(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, spec query.Spec) (models.Page[models.Course], error)
	Insert(ctx context.Context, course *models.Course) (int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

// CourseRequest holds the payload for creating or replacing a course.
// Enrollment is managed from the student side, so student ids are not accepted.
type CourseRequest struct {
	ID             int64  `json:"id"`
	CourseName     string `json:"courseName" validate:"required,max=200"`
	DepartmentName string `json:"departmentName" validate:"omitempty,max=200"`
	Semester       string `json:"semester" validate:"omitempty,max=32"`
	CourseYear     int    `json:"courseYear" validate:"omitempty,gte=1900,lte=9999"`
	Credits        int    `json:"credits" validate:"gte=0"`
	ProfessorName  string `json:"professorName" validate:"omitempty,max=200"`
}

func (r CourseRequest) toModel() *models.Course {
	return &models.Course{
		ID:             r.ID,
		CourseName:     r.CourseName,
		DepartmentName: r.DepartmentName,
		Semester:       r.Semester,
		CourseYear:     r.CourseYear,
		Credits:        r.Credits,
		ProfessorName:  r.ProfessorName,
	}
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns one page of courses and its pagination metadata.
func (s *CourseService) List(ctx context.Context, spec query.Spec) ([]models.Course, *models.Pagination, error) {
	spec = spec.Normalize()
	page, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return page.Data, &models.Pagination{Page: spec.Page, PageSize: spec.PageSize, Count: page.Count, TotalCount: page.Total}, nil
}

// Get returns a course with its student ids.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.ID != 0 {
		if _, err := s.repo.Get(ctx, req.ID); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
		}
	}

	id, err := s.repo.Insert(ctx, req.toModel())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	s.logger.Info("course created", zap.Int64("course_id", id))
	return s.Get(ctx, id)
}

// Update replaces the course's fields. Enrollment is left untouched.
func (s *CourseService) Update(ctx context.Context, id int64, req CourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := req.toModel()
	course.ID = id
	if err := s.repo.Update(ctx, course); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	s.logger.Info("course updated", zap.Int64("course_id", id))
	return s.Get(ctx, id)
}

// Delete removes a course and every enrollment pointing at it.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.Int64("course_id", id))
	return nil
}
