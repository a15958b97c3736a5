package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

func newEnrollmentFixture(t *testing.T, course models.Course, users ...models.User) (EnrollmentService, *fakeEnrollmentRepo) {
	t.Helper()
	enrollments := newFakeEnrollmentRepo()
	svc := NewEnrollmentService(
		enrollments,
		newFakeCourseRepo(course),
		newFakeUserRepo(users...),
		&fakeActivity{},
		zerolog.Nop(),
	)
	return svc, enrollments
}

func TestEnrollRequiresCourseOwnership(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, _ := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})

	_, err := svc.Enroll(context.Background(), models.User{ID: 7, Role: models.RoleTeacher}, 1, 10)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestEnrollCreatesMembership(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	response, err := svc.Enroll(context.Background(), creator, 1, 10)
	require.NoError(t, err)
	require.True(t, response.Enrolled)

	enrolled, err := enrollments.Exists(context.Background(), 10, 1)
	require.NoError(t, err)
	require.True(t, enrolled)
}

func TestEnrollIsIdempotent(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})
	enrollments.add(10, 1)

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	response, err := svc.Enroll(context.Background(), creator, 1, 10)
	require.NoError(t, err)
	require.True(t, response.Enrolled)
	require.Len(t, enrollments.rows, 1)
}

func TestEnrollSelfIntoPublicCourse(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPublic, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})

	student := models.User{ID: 10, Role: models.RoleStudent}
	response, err := svc.Enroll(context.Background(), student, 1, 10)
	require.NoError(t, err)
	require.True(t, response.Enrolled)

	enrolled, err := enrollments.Exists(context.Background(), 10, 1)
	require.NoError(t, err)
	require.True(t, enrolled)
}

func TestEnrollSelfIntoPrivateCourseForbidden(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, _ := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})

	student := models.User{ID: 10, Role: models.RoleStudent}
	_, err := svc.Enroll(context.Background(), student, 1, 10)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestEnrollUnknownUser(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, _ := newEnrollmentFixture(t, course)

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	_, err := svc.Enroll(context.Background(), creator, 1, 99)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestWithdrawRemovesMembership(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course, models.User{ID: 10, Role: models.RoleStudent})
	enrollments.add(10, 1)

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	require.NoError(t, svc.Withdraw(context.Background(), creator, 1, 10))

	enrolled, err := enrollments.Exists(context.Background(), 10, 1)
	require.NoError(t, err)
	require.False(t, enrolled)
}

func TestListStudentsReturnsRoster(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course,
		models.User{ID: 10, Name: "Alice", Role: models.RoleStudent},
		models.User{ID: 11, Name: "Bob", Role: models.RoleStudent},
	)
	enrollments.add(10, 1)
	enrollments.add(11, 1)

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	roster, err := svc.ListStudents(context.Background(), creator, 1)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	require.Equal(t, "Alice", roster[0].Name)
	require.Equal(t, "Bob", roster[1].Name)
}

func TestListStudentsForbiddenForNonOwner(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course, models.User{ID: 10, Name: "Alice", Role: models.RoleStudent})
	enrollments.add(10, 1)

	_, err := svc.ListStudents(context.Background(), models.User{ID: 7, Role: models.RoleTeacher}, 1)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAvailableStudentsExcludesEnrolledAndMatchesSearch(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 2}
	svc, enrollments := newEnrollmentFixture(t, course,
		models.User{ID: 10, Name: "Alice", Role: models.RoleStudent},
		models.User{ID: 11, Name: "Bob", Role: models.RoleStudent},
		models.User{ID: 12, Name: "Alina", Role: models.RoleStudent},
		models.User{ID: 2, Name: "Prof", Role: models.RoleTeacher},
	)
	enrollments.add(10, 1)

	creator := models.User{ID: 2, Role: models.RoleTeacher}
	available, err := svc.AvailableStudents(context.Background(), creator, 1, "")
	require.NoError(t, err)
	require.Len(t, available, 2)

	matched, err := svc.AvailableStudents(context.Background(), creator, 1, "ali")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "Alina", matched[0].Name)
}
