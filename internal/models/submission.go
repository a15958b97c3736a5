package models

import "time"

// GradeStatus tracks how far a submission has progressed through review.
type GradeStatus string

const (
	// GradeStatusNotVerified marks a submission awaiting human review.
	// The stored value keeps the space for compatibility with existing rows.
	GradeStatusNotVerified GradeStatus = "not verified"
	// GradeStatusRated marks a submission carrying a final grade.
	GradeStatusRated GradeStatus = "rated"
	// GradeStatusChecked is reserved; no current transition produces it.
	GradeStatusChecked GradeStatus = "checked"
)

// AutoCheckComment is the sentinel teacher comment written by the automatic
// grader. Its presence on a rated submission means the grade is machine
// produced and has not been reviewed by a human yet.
const AutoCheckComment = "Automatic check"

// Submission is a learner's answer for one task inside a course. At most one
// live row exists per (course, topic, lecture, task, user); resubmission
// overwrites in place.
type Submission struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	CourseID       uint        `gorm:"not null;uniqueIndex:idx_submission_key" json:"course_id"`
	TopicKey       string      `gorm:"size:255;not null;uniqueIndex:idx_submission_key" json:"topic_key"`
	LectureKey     string      `gorm:"size:255;not null;uniqueIndex:idx_submission_key" json:"lecture_key"`
	TaskKey        string      `gorm:"size:255;not null;uniqueIndex:idx_submission_key" json:"task_key"`
	UserID         uint        `gorm:"not null;uniqueIndex:idx_submission_key" json:"user_id"`
	Answer         string      `gorm:"type:text" json:"answer"`
	Status         GradeStatus `gorm:"size:16;not null;default:'not verified'" json:"status"`
	Grade          *int        `json:"grade"`
	TeacherComment *string     `gorm:"type:text" json:"teacher_comment"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsAutoChecked reports whether the current grade was produced by the
// automatic grader and is still unreviewed.
func (s Submission) IsAutoChecked() bool {
	return s.Status == GradeStatusRated && s.TeacherComment != nil && *s.TeacherComment == AutoCheckComment
}
