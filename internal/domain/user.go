package domain

import "time"

// Role is the authorization role of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a registered customer or administrator. The id is supplied by the
// caller at signup (it originates from the external identity provider).
type User struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Photo  string    `json:"photo"`
	Role   Role      `json:"role"`
	Gender string    `json:"gender"`
	DOB    time.Time `json:"dob"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Age computes the user's age in whole years as of now.
func (u User) Age() int {
	return u.AgeAt(time.Now())
}

// AgeAt computes the user's age in whole years at the given instant.
func (u User) AgeAt(now time.Time) int {
	age := now.Year() - u.DOB.Year()
	if now.Month() < u.DOB.Month() ||
		(now.Month() == u.DOB.Month() && now.Day() < u.DOB.Day()) {
		age--
	}
	return age
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
