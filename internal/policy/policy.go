// Package policy holds the pure access-control predicates for courses and
// submissions. Nothing here performs I/O; callers supply the enrollment facts.
package policy

import "github.com/UtonulVTebe/studyhub-api/internal/models"

// CanViewCourseContent decides whether user may read the course's content.
// Draft courses are creator-only, private courses additionally admit enrolled
// users, public courses admit everyone. Unknown statuses fail closed.
func CanViewCourseContent(course models.Course, user models.User, enrolled bool) bool {
	switch course.Status {
	case models.CourseStatusDraft:
		return user.ID == course.CreatorID
	case models.CourseStatusPrivate:
		return user.ID == course.CreatorID || enrolled
	case models.CourseStatusPublic:
		return true
	}
	return false
}

// CanManageCourse decides whether user may mutate the course. Only the
// creator qualifies; role does not matter once creatorship is established.
func CanManageCourse(course models.Course, user models.User) bool {
	return user.ID == course.CreatorID
}

// CanCreateCourse decides whether user may create courses at all.
func CanCreateCourse(user models.User) bool {
	return user.CanTeach()
}

// CanReviewSubmission decides whether user may list or grade submissions for
// the course. The rule is identical to course management.
func CanReviewSubmission(course models.Course, user models.User) bool {
	return CanManageCourse(course, user)
}

// VisibleSubmitterIDs returns the set of user ids whose submissions a
// reviewer may see for the course, plus whether the set is restrictive.
//
// Public courses expose only enrolled users' submissions even though their
// content needs no enrollment to view; an empty enrollment list therefore
// hides every submission. Draft and private courses are unrestricted
// (restricted == false, returned set is nil).
func VisibleSubmitterIDs(course models.Course, enrolledUserIDs []uint) (map[uint]struct{}, bool) {
	if course.Status != models.CourseStatusPublic {
		return nil, false
	}

	visible := make(map[uint]struct{}, len(enrolledUserIDs))
	for _, id := range enrolledUserIDs {
		visible[id] = struct{}{}
	}
	return visible, true
}
