package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/UtonulVTebe/studyhub-api/internal/models"
)

func TestCanViewCourseContentDraft(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusDraft, CreatorID: 7}

	require.True(t, CanViewCourseContent(course, models.User{ID: 7}, false))
	require.False(t, CanViewCourseContent(course, models.User{ID: 8}, false))
	require.False(t, CanViewCourseContent(course, models.User{ID: 8}, true), "enrollment must not open drafts")
}

func TestCanViewCourseContentPrivate(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPrivate, CreatorID: 7}

	require.True(t, CanViewCourseContent(course, models.User{ID: 7}, false))
	require.True(t, CanViewCourseContent(course, models.User{ID: 8}, true))
	require.False(t, CanViewCourseContent(course, models.User{ID: 8}, false))
}

func TestCanViewCourseContentPublicIgnoresEnrollment(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPublic, CreatorID: 7}

	require.True(t, CanViewCourseContent(course, models.User{ID: 99}, false))
	require.True(t, CanViewCourseContent(course, models.User{ID: 99}, true))
}

func TestCanViewCourseContentUnknownStatusFailsClosed(t *testing.T) {
	course := models.Course{ID: 1, Status: "archived", CreatorID: 7}

	require.False(t, CanViewCourseContent(course, models.User{ID: 7}, true))
}

func TestCanManageCourse(t *testing.T) {
	course := models.Course{ID: 1, CreatorID: 7}

	require.True(t, CanManageCourse(course, models.User{ID: 7, Role: models.RoleStudent}))
	require.False(t, CanManageCourse(course, models.User{ID: 8, Role: models.RoleAdmin}), "role is irrelevant without creatorship")
}

func TestCanCreateCourse(t *testing.T) {
	require.True(t, CanCreateCourse(models.User{Role: models.RoleTeacher}))
	require.True(t, CanCreateCourse(models.User{Role: models.RoleAdmin}))
	require.False(t, CanCreateCourse(models.User{Role: models.RoleStudent}))
}

func TestVisibleSubmitterIDsPublicRestrictsToEnrolled(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPublic, CreatorID: 7}

	visible, restricted := VisibleSubmitterIDs(course, []uint{3, 4})
	require.True(t, restricted)
	require.Len(t, visible, 2)
	require.Contains(t, visible, uint(3))
	require.NotContains(t, visible, uint(5))
}

func TestVisibleSubmitterIDsPublicEmptyEnrollmentHidesAll(t *testing.T) {
	course := models.Course{ID: 1, Status: models.CourseStatusPublic, CreatorID: 7}

	visible, restricted := VisibleSubmitterIDs(course, nil)
	require.True(t, restricted)
	require.Empty(t, visible)
}

func TestVisibleSubmitterIDsPrivateAndDraftUnrestricted(t *testing.T) {
	for _, status := range []models.CourseStatus{models.CourseStatusPrivate, models.CourseStatusDraft} {
		course := models.Course{ID: 1, Status: status, CreatorID: 7}
		_, restricted := VisibleSubmitterIDs(course, []uint{3})
		require.False(t, restricted, "status %s should not restrict review visibility", status)
	}
}
