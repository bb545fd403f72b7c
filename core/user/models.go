package user

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bhavyajain7773/ATF-Design/core"
)

// AdminID is the identifier of the synthetic administrator user.
const AdminID = "ADMIN-ATF"

var validate, translator = core.NewValidate()

// User is a registered learner or the synthetic administrator.
// Passwords are stored in plaintext so the admin dashboard can display them.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password,omitempty"`
	Address  string `json:"address,omitempty"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}

// Public returns a copy of u without its password.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Admin returns the privileged pseudo-user created on a successful admin login.
func Admin() User {
	return User{
		ID:      AdminID,
		Name:    "Academy Administrator",
		Email:   "admin@atf.edu.in",
		Phone:   "+91 00000 00000",
		IsAdmin: true,
	}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"notblank"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"notblank"`
	Password string `json:"password" validate:"required"`
	Address  string `json:"address"`
}

// Validate cleans and validates nu. Emails are trimmed but keep their case.
func (nu *NewUser) Validate() error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email)
	nu.Phone = core.CleanString(nu.Phone)
	nu.Address = core.CleanString(nu.Address)
	return core.CheckStruct(validate, translator, nu)
}

func newID() string {
	return "USR-" + strings.ToUpper(uuid.New().String()[:8])
}
