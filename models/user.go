package models

import "time"

// Roles assignable to a user account.
const (
	RoleAdmin      = "admin"
	RoleTeamMember = "team_member"
)

// User represents an account document. Accounts are immutable after
// signup; there are no update or delete endpoints for them.
type User struct {
	ID        string    `bson:"user_id" json:"user_id"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	FullName  string    `bson:"full_name" json:"full_name"`
	Role      string    `bson:"role" json:"role"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserDetails is the subset of user fields joined onto other resources
// at read time.
type UserDetails struct {
	UserID   string `bson:"user_id" json:"user_id"`
	FullName string `bson:"full_name" json:"full_name"`
	Email    string `bson:"email" json:"email"`
}

// Details returns the read-time projection of the user.
func (u *User) Details() *UserDetails {
	return &UserDetails{
		UserID:   u.ID,
		FullName: u.FullName,
		Email:    u.Email,
	}
}
