package grading

import (
	"errors"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

// ErrForbidden indicates the actor may not grade the submission.
var ErrForbidden = errors.New("not allowed to grade submission")

// SubmissionKey is the natural identity of a submission: one learner, one
// task, one course.
type SubmissionKey struct {
	CourseID   uint
	TopicKey   string
	LectureKey string
	TaskKey    string
	UserID     uint
}

// TeacherGradePayload carries a reviewer's grading input. Nil fields were
// omitted from the request.
type TeacherGradePayload struct {
	Status         *models.GradeStatus
	Grade          *int
	TeacherComment *string
}

// ApplySubmission produces the next persisted state for a learner answer.
// When existing is non-nil its identity is kept and the row is overwritten
// in place; otherwise a fresh record for the key is produced. A verdict with
// a score moves the submission straight to rated with the auto-check
// sentinel comment; a deferred verdict resets it to await human review.
func ApplySubmission(existing *models.Submission, key SubmissionKey, answer string, verdict Verdict) models.Submission {
	record := models.Submission{
		CourseID:   key.CourseID,
		TopicKey:   key.TopicKey,
		LectureKey: key.LectureKey,
		TaskKey:    key.TaskKey,
		UserID:     key.UserID,
	}
	if existing != nil {
		record = *existing
	}

	record.Answer = answer
	if verdict.Score != nil {
		score := *verdict.Score
		comment := models.AutoCheckComment
		record.Status = models.GradeStatusRated
		record.Grade = &score
		record.TeacherComment = &comment
	} else {
		record.Status = models.GradeStatusNotVerified
		record.Grade = nil
		record.TeacherComment = nil
	}
	return record
}

// ApplyTeacherGrade produces the next state of a submission after a manual
// grading action.
//
// An auto-checked record (rated with the sentinel comment) is spot-checked
// rather than overwritten: the grade changes only when supplied, the status
// stays rated, and the sentinel survives unless the reviewer writes a real
// comment. An empty comment explicitly restores the sentinel; supplying the
// sentinel itself is a no-op. Any other record is overwritten verbatim with
// the payload, defaulting the status to rated when omitted.
func ApplyTeacherGrade(record models.Submission, payload TeacherGradePayload, authorized bool) (models.Submission, error) {
	if !authorized {
		return models.Submission{}, ErrForbidden
	}

	if record.IsAutoChecked() {
		if payload.Grade != nil {
			grade := *payload.Grade
			record.Grade = &grade
		}
		if payload.TeacherComment != nil {
			switch comment := *payload.TeacherComment; comment {
			case "", models.AutoCheckComment:
				sentinel := models.AutoCheckComment
				record.TeacherComment = &sentinel
			default:
				record.TeacherComment = &comment
			}
		}
		return record, nil
	}

	if payload.Status != nil {
		record.Status = *payload.Status
	} else {
		record.Status = models.GradeStatusRated
	}
	record.Grade = payload.Grade
	record.TeacherComment = payload.TeacherComment
	return record, nil
}
