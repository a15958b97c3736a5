package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/UtonulVTebe/studyhub-api/internal/content"
	"github.com/UtonulVTebe/studyhub-api/internal/dto"
	"github.com/UtonulVTebe/studyhub-api/internal/grading"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/observability"
	"github.com/UtonulVTebe/studyhub-api/internal/policy"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
)

// ErrSubmissionNotFound indicates the submission does not exist.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService orchestrates the submit and review workflows.
type SubmissionService interface {
	Submit(ctx context.Context, actor models.User, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListMine(ctx context.Context, actor models.User, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	ListForReview(ctx context.Context, actor models.User, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
	GradeByTeacher(ctx context.Context, actor models.User, submissionID uint, payload dto.TeacherGradeRequest) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	courses     repository.CourseRepository
	enrollments repository.EnrollmentRepository
	users       repository.UserRepository
	resolver    content.Resolver
	validator   *validator.Validate
	activity    ActivityRecorder
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	userRepo repository.UserRepository,
	resolver content.Resolver,
	validate *validator.Validate,
	activity ActivityRecorder,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		courses:     courseRepo,
		enrollments: enrollmentRepo,
		users:       userRepo,
		resolver:    resolver,
		validator:   validate,
		activity:    activity,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Submit(ctx context.Context, actor models.User, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/UtonulVTebe/studyhub-api/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.submit")
	span.SetAttributes(
		attribute.Int64("submission.course_id", int64(payload.CourseID)),
		attribute.Int64("submission.user_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "course_not_found")
			return dto.SubmissionResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	verdict := s.gradeAnswer(ctx, course, payload)

	key := grading.SubmissionKey{
		CourseID:   payload.CourseID,
		TopicKey:   payload.TopicKey,
		LectureKey: payload.LectureKey,
		TaskKey:    payload.TaskKey,
		UserID:     actor.ID,
	}
	record := grading.ApplySubmission(nil, key, payload.Answer, verdict)

	if err := s.submissions.Upsert(ctx, &record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_upsert_failed")
		return dto.SubmissionResponse{}, err
	}

	autoGraded := verdict.Score != nil
	span.SetAttributes(attribute.Bool("submission.auto_graded", autoGraded))
	mode := "deferred"
	if autoGraded {
		mode = "auto"
	}
	observability.SubmissionsGraded().WithLabelValues(mode).Inc()

	metadata := map[string]interface{}{
		"course_id":   course.ID,
		"task_key":    payload.TaskKey,
		"auto_graded": autoGraded,
	}
	if verdict.Score != nil {
		metadata["score"] = *verdict.Score
	}
	s.recordActivity(ctx, actor, "submission.submitted", record.ID, metadata)

	s.logger.Info().
		Uint("submission_id", record.ID).
		Bool("auto_graded", autoGraded).
		Msg("submission stored")

	return dto.NewSubmissionResponse(record), nil
}

// gradeAnswer evaluates the answer against the task definition. Any failure
// to resolve the course content or locate the task degrades to a deferred
// verdict; the submit path never fails on malformed content.
func (s *submissionService) gradeAnswer(ctx context.Context, course models.Course, payload dto.SubmissionCreateRequest) grading.Verdict {
	tree, err := s.resolver.Resolve(ctx, course)
	if err != nil {
		s.logger.Warn().Err(err).Uint("course_id", course.ID).Msg("content unavailable, deferring to manual review")
		return grading.Verdict{}
	}

	task, ok := content.FindTask(tree, payload.TopicKey, payload.LectureKey, payload.TaskKey)
	if !ok {
		return grading.Verdict{}
	}

	return grading.Grade(task, payload.Answer)
}

func (s *submissionService) ListMine(ctx context.Context, actor models.User, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	userID := actor.ID
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		CourseID:   filter.CourseID,
		UserID:     &userID,
		LectureKey: filter.LectureKey,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewSubmissionResponseSlice(submissions), nil
}

func (s *submissionService) ListForReview(ctx context.Context, actor models.User, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	var visible []models.Submission

	if filter.CourseID != nil {
		course, err := s.courses.GetByID(ctx, *filter.CourseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCourseNotFound
			}
			return nil, err
		}
		if !policy.CanReviewSubmission(course, actor) {
			return nil, ErrForbidden
		}

		visible, err = s.reviewableForCourse(ctx, course, filter.LectureKey)
		if err != nil {
			return nil, err
		}
	} else {
		courses, err := s.courses.ListByCreator(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		for _, course := range courses {
			forCourse, err := s.reviewableForCourse(ctx, course, filter.LectureKey)
			if err != nil {
				return nil, err
			}
			visible = append(visible, forCourse...)
		}
	}

	return s.withUserNames(ctx, visible)
}

func (s *submissionService) reviewableForCourse(ctx context.Context, course models.Course, lectureKey *string) ([]models.Submission, error) {
	courseID := course.ID
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		CourseID:   &courseID,
		LectureKey: lectureKey,
	})
	if err != nil {
		return nil, err
	}

	enrolledIDs, err := s.enrollments.ListUserIDs(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	allowed, restricted := policy.VisibleSubmitterIDs(course, enrolledIDs)
	if !restricted {
		return submissions, nil
	}

	filtered := submissions[:0]
	for _, submission := range submissions {
		if _, ok := allowed[submission.UserID]; ok {
			filtered = append(filtered, submission)
		}
	}
	return filtered, nil
}

// withUserNames joins submitter names onto the responses for the reviewer UI.
func (s *submissionService) withUserNames(ctx context.Context, submissions []models.Submission) ([]dto.SubmissionResponse, error) {
	ids := make([]uint, 0, len(submissions))
	seen := make(map[uint]struct{}, len(submissions))
	for _, submission := range submissions {
		if _, ok := seen[submission.UserID]; !ok {
			seen[submission.UserID] = struct{}{}
			ids = append(ids, submission.UserID)
		}
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}

	responses := make([]dto.SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		response := dto.NewSubmissionResponse(submission)
		response.UserName = names[submission.UserID]
		responses = append(responses, response)
	}
	return responses, nil
}

func (s *submissionService) GradeByTeacher(ctx context.Context, actor models.User, submissionID uint, payload dto.TeacherGradeRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/UtonulVTebe/studyhub-api/internal/service/submission")
	ctx, span := tracer.Start(ctx, "submission.teacher_grade")
	span.SetAttributes(
		attribute.Int64("submission.id", int64(submissionID)),
		attribute.Int64("submission.reviewer_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, submission.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "course_not_found")
			return dto.SubmissionResponse{}, ErrCourseNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	updated, err := grading.ApplyTeacherGrade(submission, s.teacherPayload(payload), policy.CanReviewSubmission(course, actor))
	if err != nil {
		if errors.Is(err, grading.ErrForbidden) {
			span.SetStatus(codes.Error, "forbidden")
			return dto.SubmissionResponse{}, ErrForbidden
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if err := s.submissions.Update(ctx, &updated); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	metadata := map[string]interface{}{
		"course_id":  course.ID,
		"student_id": updated.UserID,
	}
	if updated.Grade != nil {
		metadata["grade"] = *updated.Grade
	}
	s.recordActivity(ctx, actor, "submission.graded", updated.ID, metadata)

	return dto.NewSubmissionResponse(updated), nil
}

// teacherPayload converts the request, sanitizing real comments while
// leaving the empty and sentinel values untouched so the auto-check rules in
// the grading core still see them verbatim.
func (s *submissionService) teacherPayload(payload dto.TeacherGradeRequest) grading.TeacherGradePayload {
	converted := grading.TeacherGradePayload{Grade: payload.Grade}

	if payload.Status != nil {
		status := models.GradeStatus(*payload.Status)
		converted.Status = &status
	}
	if payload.TeacherComment != nil {
		comment := *payload.TeacherComment
		if comment != "" && comment != models.AutoCheckComment {
			comment = s.sanitizer.Sanitize(comment)
		}
		converted.TeacherComment = &comment
	}
	return converted
}

func (s *submissionService) recordActivity(ctx context.Context, actor models.User, action string, entityID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	id := entityID
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "submission",
		EntityID:   &id,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
