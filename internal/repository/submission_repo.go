package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

// SubmissionFilter narrows submission queries.
type SubmissionFilter struct {
	CourseID   *uint
	CourseIDs  []uint
	UserID     *uint
	LectureKey *string
	Status     *models.GradeStatus
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	// Upsert persists the record for its natural key inside a transaction
	// holding a row lock, so concurrent resubmissions for the same key
	// serialize into a single live row.
	Upsert(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if len(filter.CourseIDs) > 0 {
		query = query.Where("course_id IN ?", filter.CourseIDs)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.LectureKey != nil {
		query = query.Where("lecture_key = ?", *filter.LectureKey)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("updated_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) Upsert(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("course_id = ? AND topic_key = ? AND lecture_key = ? AND task_key = ? AND user_id = ?",
			submission.CourseID, submission.TopicKey, submission.LectureKey, submission.TaskKey, submission.UserID)
		// sqlite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var existing models.Submission
		err := query.First(&existing).Error
		switch {
		case err == nil:
			submission.ID = existing.ID
			submission.CreatedAt = existing.CreatedAt
			return tx.Save(submission).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(submission).Error
		default:
			return err
		}
	})
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
