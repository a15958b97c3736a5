package dto

import (
	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

// CourseCreateRequest describes the payload for creating a course.
type CourseCreateRequest struct {
	Title   string                 `json:"title" validate:"required,min=1,max=255"`
	Status  string                 `json:"status" validate:"omitempty,oneof=draft private public"`
	Content map[string]interface{} `json:"content" validate:"required"`
}

// CourseUpdateRequest describes a partial course update.
type CourseUpdateRequest struct {
	Title   *string                `json:"title" validate:"omitempty,min=1,max=255"`
	Status  *string                `json:"status" validate:"omitempty,oneof=draft private public"`
	Content map[string]interface{} `json:"content"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	ContentPath string `json:"content_path"`
	CreatorID   uint   `json:"creator_id"`
}

// CourseContentResponse bundles a course with its resolved content tree.
type CourseContentResponse struct {
	Course  CourseResponse         `json:"course"`
	Content map[string]interface{} `json:"content"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:          model.ID,
		Title:       model.Title,
		Status:      string(model.Status),
		ContentPath: model.ContentPath,
		CreatorID:   model.CreatorID,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}
	return responses
}
