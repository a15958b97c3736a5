package models

// Role values assigned to platform users.
const (
	RoleStudent = "Student"
	RoleTeacher = "Teacher"
	RoleAdmin   = "Admin"
)

// User represents a platform account. Password handling lives in the
// identity provider; this service only consumes id/role claims.
type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Login string `gorm:"size:255;uniqueIndex;not null" json:"login"`
	Role  string `gorm:"size:32;not null;default:Student" json:"role"`
}

// CanTeach reports whether the user may create and own courses.
func (u User) CanTeach() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
