package dto

import (
	"time"

	"blogmesh/internal/models"
)

// User is the outward profile of a user. It never carries the password hash.
type User struct {
	ID        uint        `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Contact   int64       `json:"contact"`
	About     string      `json:"about"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	Address   *Address    `json:"address"`
}

// UserRequest is the body of sign-up and user update.
type UserRequest struct {
	FirstName string `json:"firstName" validate:"notblank,min=2,max=50"`
	LastName  string `json:"lastName" validate:"notblank,min=2,max=50"`
	Contact   int64  `json:"contact" validate:"gte=1000000000,lte=999999999999999"`
	About     string `json:"about" validate:"notblank,max=500"`
	Email     string `json:"email" validate:"notblank,email"`
	Password  string `json:"password" validate:"notblank,min=2"`
}

var userRequestMessages = map[string]string{
	"firstName.notblank": "FirstName cannot be blank",
	"firstName":          "FirstName must be between 2 and 50 characters",
	"lastName.notblank":  "LastName cannot be blank",
	"lastName":           "LastName must be between 2 and 50 characters",
	"contact.gte":        "Contact number must be at least 10 digits",
	"contact.lte":        "Contact number cannot exceed 15 digits",
	"about.notblank":     "About field cannot be blank",
	"about.max":          "About field cannot exceed 500 characters",
	"email.notblank":     "Email cannot be blank",
	"email.email":        "Invalid email format",
	"password.notblank":  "Password cannot be blank",
	"password.min":       "Password must be at least 2 characters long",
}

func (UserRequest) ValidationMessages() map[string]string { return userRequestMessages }

// SignUpRequest registers a new account.
type SignUpRequest = UserRequest

// UpdateUserRequest replaces a user's profile fields.
type UpdateUserRequest = UserRequest

func UserFromModel(u *models.User) User {
	return User{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Contact:   u.Contact,
		About:     u.About,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserFromModelWithAddress maps u and attaches addr, which may be nil.
func UserFromModelWithAddress(u *models.User, addr *Address) User {
	out := UserFromModel(u)
	out.Address = addr
	return out
}

// Apply copies the profile fields onto u. The password is set by the caller after hashing.
func (r UserRequest) Apply(u *models.User) {
	u.FirstName = r.FirstName
	u.LastName = r.LastName
	u.Contact = r.Contact
	u.About = r.About
	u.Email = models.NormalizeEmail(r.Email)
}
