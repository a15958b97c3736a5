package dto

import "github.com/UtonulVTebe/studyhub-api/internal/models"

// EnrollmentResponse reports the outcome of an enrollment action.
type EnrollmentResponse struct {
	CourseID uint `json:"course_id"`
	UserID   uint `json:"user_id"`
	Enrolled bool `json:"enrolled"`
}

// UserResponse summarizes an account without credentials.
type UserResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// NewUserResponse converts a User model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	return UserResponse{ID: model.ID, Name: model.Name, Role: model.Role}
}

// NewUserResponseSlice converts user models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
