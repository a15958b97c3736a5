package service

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/repository"
)

type fakeCourseRepo struct {
	courses map[uint]models.Course
	nextID  uint
}

func newFakeCourseRepo(courses ...models.Course) *fakeCourseRepo {
	repo := &fakeCourseRepo{courses: make(map[uint]models.Course), nextID: 1}
	for _, course := range courses {
		repo.courses[course.ID] = course
		if course.ID >= repo.nextID {
			repo.nextID = course.ID + 1
		}
	}
	return repo
}

func (f *fakeCourseRepo) GetByID(_ context.Context, id uint) (models.Course, error) {
	course, ok := f.courses[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) List(context.Context) ([]models.Course, error) {
	out := make([]models.Course, 0, len(f.courses))
	for _, course := range f.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) ListByCreator(_ context.Context, creatorID uint) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if course.CreatorID == creatorID {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourseRepo) ListByIDs(_ context.Context, ids []uint) ([]models.Course, error) {
	var out []models.Course
	for _, id := range ids {
		if course, ok := f.courses[id]; ok {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = f.nextID
	f.nextID++
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.courses[course.ID] = *course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id uint) error {
	delete(f.courses, id)
	return nil
}

type fakeEnrollmentRepo struct {
	rows map[[2]uint]struct{}
}

func newFakeEnrollmentRepo() *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{rows: make(map[[2]uint]struct{})}
}

func (f *fakeEnrollmentRepo) add(userID, courseID uint) {
	f.rows[[2]uint{userID, courseID}] = struct{}{}
}

func (f *fakeEnrollmentRepo) Exists(_ context.Context, userID, courseID uint) (bool, error) {
	_, ok := f.rows[[2]uint{userID, courseID}]
	return ok, nil
}

func (f *fakeEnrollmentRepo) ListUserIDs(_ context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	for key := range f.rows {
		if key[1] == courseID {
			ids = append(ids, key[0])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeEnrollmentRepo) ListCourseIDs(_ context.Context, userID uint) ([]uint, error) {
	var ids []uint
	for key := range f.rows {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f *fakeEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	f.add(enrollment.UserID, enrollment.CourseID)
	return nil
}

func (f *fakeEnrollmentRepo) Delete(_ context.Context, userID, courseID uint) error {
	delete(f.rows, [2]uint{userID, courseID})
	return nil
}

type fakeUserRepo struct {
	users map[uint]models.User
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) ListByIDs(_ context.Context, ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if user.Role == role {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeSubmissionRepo struct {
	rows   map[uint]models.Submission
	nextID uint
}

func newFakeSubmissionRepo(rows ...models.Submission) *fakeSubmissionRepo {
	repo := &fakeSubmissionRepo{rows: make(map[uint]models.Submission), nextID: 1}
	for _, row := range rows {
		repo.rows[row.ID] = row
		if row.ID >= repo.nextID {
			repo.nextID = row.ID + 1
		}
	}
	return repo
}

func (f *fakeSubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	row, ok := f.rows[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (f *fakeSubmissionRepo) List(_ context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	var out []models.Submission
	for _, row := range f.rows {
		if filter.CourseID != nil && row.CourseID != *filter.CourseID {
			continue
		}
		if filter.UserID != nil && row.UserID != *filter.UserID {
			continue
		}
		if filter.LectureKey != nil && row.LectureKey != *filter.LectureKey {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubmissionRepo) Upsert(_ context.Context, submission *models.Submission) error {
	for _, row := range f.rows {
		if row.CourseID == submission.CourseID &&
			row.TopicKey == submission.TopicKey &&
			row.LectureKey == submission.LectureKey &&
			row.TaskKey == submission.TaskKey &&
			row.UserID == submission.UserID {
			submission.ID = row.ID
			submission.CreatedAt = row.CreatedAt
			f.rows[row.ID] = *submission
			return nil
		}
	}
	submission.ID = f.nextID
	f.nextID++
	f.rows[submission.ID] = *submission
	return nil
}

func (f *fakeSubmissionRepo) Update(_ context.Context, submission *models.Submission) error {
	f.rows[submission.ID] = *submission
	return nil
}

type fakeResolver struct {
	tree map[string]interface{}
	err  error
}

func (f *fakeResolver) Resolve(context.Context, models.Course) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tree, nil
}

func (f *fakeResolver) Invalidate(context.Context, uint) {}

type fakeContentStore struct {
	saved    map[uint]map[string]interface{}
	imported map[uint][]byte
	removed  []string
	saveErr  error
}

func newFakeContentStore() *fakeContentStore {
	return &fakeContentStore{
		saved:    make(map[uint]map[string]interface{}),
		imported: make(map[uint][]byte),
	}
}

func (f *fakeContentStore) Save(_ context.Context, courseID uint, tree map[string]interface{}) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved[courseID] = tree
	return "courses/stored.json", nil
}

func (f *fakeContentStore) Import(_ context.Context, courseID uint, data []byte) (string, error) {
	f.imported[courseID] = data
	return "courses/imported.json", nil
}

func (f *fakeContentStore) Remove(rel string) error {
	f.removed = append(f.removed, rel)
	return nil
}

type fakeActivity struct {
	entries []ActivityEntry
	err     error
}

func (f *fakeActivity) Record(_ context.Context, entry ActivityEntry) error {
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, entry)
	return nil
}

var errBoom = errors.New("boom")
