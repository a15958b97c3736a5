package dto

import (
	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

// SubmissionCreateRequest is a learner's answer for one task.
type SubmissionCreateRequest struct {
	CourseID   uint   `json:"course_id" validate:"required,gt=0"`
	TopicKey   string `json:"topic_key" validate:"required"`
	LectureKey string `json:"lecture_key" validate:"required"`
	TaskKey    string `json:"task_key" validate:"required"`
	Answer     string `json:"answer"`
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	CourseID   *uint   `query:"course_id"`
	LectureKey *string `query:"lecture_key"`
}

// TeacherGradeRequest is a reviewer's manual grading payload.
type TeacherGradeRequest struct {
	Status         *string `json:"status" validate:"omitempty,oneof=rated checked 'not verified'"`
	Grade          *int    `json:"grade" validate:"omitempty,gte=1,lte=5"`
	TeacherComment *string `json:"teacher_comment"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID             uint    `json:"id"`
	CourseID       uint    `json:"course_id"`
	TopicKey       string  `json:"topic_key"`
	LectureKey     string  `json:"lecture_key"`
	TaskKey        string  `json:"task_key"`
	UserID         uint    `json:"user_id"`
	UserName       string  `json:"user_name,omitempty"`
	Answer         string  `json:"answer"`
	Status         string  `json:"status"`
	Grade          *int    `json:"grade"`
	TeacherComment *string `json:"teacher_comment"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             model.ID,
		CourseID:       model.CourseID,
		TopicKey:       model.TopicKey,
		LectureKey:     model.LectureKey,
		TaskKey:        model.TaskKey,
		UserID:         model.UserID,
		Answer:         model.Answer,
		Status:         string(model.Status),
		Grade:          model.Grade,
		TeacherComment: model.TeacherComment,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
