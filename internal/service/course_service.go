package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/UtonulVTebe/studyhub-api/internal/content"
	"github.com/UtonulVTebe/studyhub-api/internal/dto"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/policy"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
)

// ErrCourseNotFound indicates the course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrForbidden indicates the actor lacks permission for the operation.
var ErrForbidden = errors.New("operation not permitted")

// ContentStore is the write side of course content persistence.
type ContentStore interface {
	Save(ctx context.Context, courseID uint, tree map[string]interface{}) (string, error)
	Import(ctx context.Context, courseID uint, data []byte) (string, error)
	Remove(rel string) error
}

// ContentResolver is the read side, with cache invalidation for rewrites.
type ContentResolver interface {
	content.Resolver
	Invalidate(ctx context.Context, courseID uint)
}

// CourseService orchestrates course CRUD and content access.
type CourseService interface {
	Create(ctx context.Context, actor models.User, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Update(ctx context.Context, actor models.User, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error)
	Delete(ctx context.Context, actor models.User, id uint) error
	GetContent(ctx context.Context, actor models.User, id uint) (dto.CourseContentResponse, error)
	ImportContent(ctx context.Context, actor models.User, id uint, data []byte) (dto.CourseResponse, error)
	ListCreated(ctx context.Context, actor models.User) ([]dto.CourseResponse, error)
	ListEnrolled(ctx context.Context, actor models.User) ([]dto.CourseResponse, error)
}

type courseService struct {
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	store       ContentStore
	resolver    ContentResolver
	validator   *validator.Validate
	activity    ActivityRecorder
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewCourseService constructs a CourseService instance.
func NewCourseService(
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	store ContentStore,
	resolver ContentResolver,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		store:       store,
		resolver:    resolver,
		validator:   validate,
		activity:    activity,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, actor models.User, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	if !policy.CanCreateCourse(actor) {
		return dto.CourseResponse{}, ErrForbidden
	}

	status := models.CourseStatus(payload.Status)
	if payload.Status == "" {
		status = models.CourseStatusDraft
	}

	course := models.Course{
		Title:     s.sanitizer.Sanitize(payload.Title),
		Status:    status,
		CreatorID: actor.ID,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	rel, err := s.store.Save(ctx, course.ID, payload.Content)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	course.ContentPath = rel
	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.recordActivity(ctx, actor, "course.created", course.ID, map[string]interface{}{"title": course.Title})
	s.logger.Info().Uint("course_id", course.ID).Msg("course created")

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, actor models.User, id uint, payload dto.CourseUpdateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.getCourse(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !policy.CanManageCourse(course, actor) {
		return dto.CourseResponse{}, ErrForbidden
	}

	if payload.Title != nil {
		course.Title = s.sanitizer.Sanitize(*payload.Title)
	}
	if payload.Status != nil {
		course.Status = models.CourseStatus(*payload.Status)
	}
	if payload.Content != nil {
		rel, err := s.store.Save(ctx, course.ID, payload.Content)
		if err != nil {
			return dto.CourseResponse{}, err
		}
		course.ContentPath = rel
		s.resolver.Invalidate(ctx, course.ID)
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.recordActivity(ctx, actor, "course.updated", course.ID, nil)

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, actor models.User, id uint) error {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanManageCourse(course, actor) {
		return ErrForbidden
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	// Content cleanup must not block deletion.
	if err := s.store.Remove(course.ContentPath); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", id).Msg("failed to remove course content document")
	}
	s.resolver.Invalidate(ctx, id)

	s.recordActivity(ctx, actor, "course.deleted", id, nil)
	return nil
}

func (s *courseService) GetContent(ctx context.Context, actor models.User, id uint) (dto.CourseContentResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return dto.CourseContentResponse{}, err
	}

	enrolled, err := s.enrollments.Exists(ctx, actor.ID, course.ID)
	if err != nil {
		return dto.CourseContentResponse{}, err
	}

	if !policy.CanViewCourseContent(course, actor, enrolled) {
		return dto.CourseContentResponse{}, ErrForbidden
	}

	tree, err := s.resolver.Resolve(ctx, course)
	if err != nil {
		return dto.CourseContentResponse{}, err
	}

	return dto.CourseContentResponse{
		Course:  dto.NewCourseResponse(course),
		Content: tree,
	}, nil
}

func (s *courseService) ImportContent(ctx context.Context, actor models.User, id uint, data []byte) (dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return dto.CourseResponse{}, err
	}

	if !policy.CanManageCourse(course, actor) {
		return dto.CourseResponse{}, ErrForbidden
	}

	rel, err := s.store.Import(ctx, course.ID, data)
	if err != nil {
		return dto.CourseResponse{}, err
	}
	course.ContentPath = rel
	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}
	s.resolver.Invalidate(ctx, course.ID)

	s.recordActivity(ctx, actor, "course.content_imported", course.ID, nil)

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) ListCreated(ctx context.Context, actor models.User) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByCreator(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) ListEnrolled(ctx context.Context, actor models.User) ([]dto.CourseResponse, error) {
	ids, err := s.enrollments.ListCourseIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) getCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func (s *courseService) recordActivity(ctx context.Context, actor models.User, action string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := entityID
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "course",
		EntityID:   &id,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
