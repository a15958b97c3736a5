package models

import "time"

// CourseStatus controls who may see a course's content.
type CourseStatus string

const (
	// CourseStatusDraft hides the course from everyone but its creator.
	CourseStatusDraft CourseStatus = "draft"
	// CourseStatusPrivate limits the course to its creator and enrolled users.
	CourseStatusPrivate CourseStatus = "private"
	// CourseStatusPublic makes course content visible to any user.
	CourseStatusPublic CourseStatus = "public"
)

// Valid reports whether the status is one of the known values.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPrivate, CourseStatusPublic:
		return true
	}
	return false
}

// Course is a unit of published learning content owned by its creator.
// ContentPath points at the JSON content document relative to the content root.
type Course struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Status      CourseStatus `gorm:"size:16;not null;default:draft" json:"status"`
	ContentPath string       `gorm:"size:512" json:"content_path"`
	CreatorID   uint         `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Enrollment links a user to a course. Membership is binary; the pair is the key.
type Enrollment struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	CourseID  uint      `gorm:"primaryKey;autoIncrement:false" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}
