package models

// UserRole represents the role of a user within the system
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

// User represents a user authenticated via the identity provider.
// Users are provisioned out-of-band; this API never creates them.
type User struct {
	ID     int64    `json:"id" bson:"_id"`
	Sub    string   `json:"sub" bson:"sub"` // identity provider subject, unique
	Role   UserRole `json:"role" bson:"role"`
	Avatar bool     `json:"-" bson:"avatar,omitempty"`
}

// CollectionName returns the collection name for the User model
func (User) CollectionName() string {
	return "users"
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsInstructor returns true if the user has instructor role
func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

// HasCourses returns true if the user's detail view carries a course list.
// Admins teach and take nothing, so their view omits it.
func (u *User) HasCourses() bool {
	return u.Role == RoleStudent || u.Role == RoleInstructor
}
