package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/UtonulVTebe/studyhub-api/internal/dto"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/policy"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
)

// ErrUserNotFound indicates the target account does not exist.
var ErrUserNotFound = errors.New("user not found")

// EnrollmentService manages course membership. The course owner rosters
// students onto any course; learners may self-enroll into public ones.
type EnrollmentService interface {
	Enroll(ctx context.Context, actor models.User, courseID, userID uint) (dto.EnrollmentResponse, error)
	Withdraw(ctx context.Context, actor models.User, courseID, userID uint) error
	ListStudents(ctx context.Context, actor models.User, courseID uint) ([]dto.UserResponse, error)
	AvailableStudents(ctx context.Context, actor models.User, courseID uint, search string) ([]dto.UserResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	users       repository.UserRepository
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
	userRepo repository.UserRepository,
	activity ActivityRecorder,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		users:       userRepo,
		activity:    activity,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, actor models.User, courseID, userID uint) (dto.EnrollmentResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	selfEnroll := userID == actor.ID && course.Status == models.CourseStatusPublic
	if !selfEnroll && !policy.CanManageCourse(course, actor) {
		return dto.EnrollmentResponse{}, ErrForbidden
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrUserNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrolled, err := s.enrollments.Exists(ctx, userID, courseID)
	if err != nil {
		return dto.EnrollmentResponse{}, err
	}
	if !enrolled {
		enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
		if err := s.enrollments.Create(ctx, &enrollment); err != nil {
			return dto.EnrollmentResponse{}, err
		}
		s.recordActivity(ctx, actor, "enrollment.created", courseID, userID)
	}

	return dto.EnrollmentResponse{CourseID: courseID, UserID: userID, Enrolled: true}, nil
}

func (s *enrollmentService) Withdraw(ctx context.Context, actor models.User, courseID, userID uint) error {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if userID != actor.ID && !policy.CanManageCourse(course, actor) {
		return ErrForbidden
	}

	if err := s.enrollments.Delete(ctx, userID, courseID); err != nil {
		return err
	}

	s.recordActivity(ctx, actor, "enrollment.removed", courseID, userID)
	return nil
}

// ListStudents returns the course roster. Only the course manager sees it.
func (s *enrollmentService) ListStudents(ctx context.Context, actor models.User, courseID uint) ([]dto.UserResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCourse(course, actor) {
		return nil, ErrForbidden
	}

	ids, err := s.enrollments.ListUserIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(students), nil
}

// AvailableStudents lists student accounts not yet rostered on the course,
// optionally narrowed by a case-insensitive name match.
func (s *enrollmentService) AvailableStudents(ctx context.Context, actor models.User, courseID uint, search string) ([]dto.UserResponse, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !policy.CanManageCourse(course, actor) {
		return nil, ErrForbidden
	}

	students, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, err
	}

	enrolledIDs, err := s.enrollments.ListUserIDs(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrolled := make(map[uint]struct{}, len(enrolledIDs))
	for _, id := range enrolledIDs {
		enrolled[id] = struct{}{}
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	available := make([]models.User, 0, len(students))
	for _, student := range students {
		if _, ok := enrolled[student.ID]; ok {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(student.Name), needle) {
			continue
		}
		available = append(available, student)
	}

	return dto.NewUserResponseSlice(available), nil
}

func (s *enrollmentService) getCourse(ctx context.Context, id uint) (models.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}

func (s *enrollmentService) recordActivity(ctx context.Context, actor models.User, action string, courseID, userID uint) {
	if s.activity == nil {
		return
	}
	id := courseID
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "enrollment",
		EntityID:   &id,
		Metadata:   map[string]interface{}{"student_id": userID},
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
