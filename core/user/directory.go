package user

import (
	"github.com/pkg/errors"

	"github.com/bhavyajain7773/ATF-Design/core"
)

var (
	// errors
	ErrEmailExists      = errors.New("email already registered")
	ErrAccountNotFound  = errors.New("no account with this email")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidAdmin     = errors.New("invalid administrator credentials")
	ErrPasswordRequired = errors.New("password is required")

	// messages shown next to the form fields
	emailExistsText     = "This email is already registered."
	accountNotFoundText = "No account found with this email. Please Register first."
	wrongPasswordText   = "Incorrect password. Please try again."
	invalidAdminText    = "Invalid administrator credentials."
)

// Directory is the list of registered users, in registration order.
// Email is the unique key, compared case-sensitively.
type Directory []User

func (d Directory) FindByEmail(email string) (User, bool) {
	for _, u := range d {
		if u.Email == email {
			return u, true
		}
	}
	return User{}, false
}

func (d Directory) checkUniqueness(email string) error {
	if _, ok := d.FindByEmail(email); ok {
		return core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: emailExistsText})
	}
	return nil
}

// Register validates nu and returns the new user and the extended directory.
// d itself is never modified.
func (d Directory) Register(nu NewUser) (User, Directory, error) {
	if err := nu.Validate(); err != nil {
		return User{}, d, err
	}
	if err := d.checkUniqueness(nu.Email); err != nil {
		return User{}, d, err
	}

	usr := User{
		ID:       newID(),
		Name:     nu.Name,
		Email:    nu.Email,
		Phone:    nu.Phone,
		Password: nu.Password,
		Address:  nu.Address,
	}
	next := make(Directory, 0, len(d)+1)
	next = append(next, d...)
	next = append(next, usr)
	return usr, next, nil
}

// Authenticate returns the user registered under email if password matches.
// An unknown email and a wrong password fail with distinct errors.
func (d Directory) Authenticate(email, password string) (User, error) {
	usr, ok := d.FindByEmail(core.CleanString(email))
	if !ok {
		return User{}, core.NewValidationError(ErrAccountNotFound, core.FieldError{Field: "email", Error: accountNotFoundText})
	}
	if usr.Password != password {
		return User{}, core.NewValidationError(ErrWrongPassword, core.FieldError{Field: "password", Error: wrongPasswordText})
	}
	return usr, nil
}

// ResetPassword returns a copy of d where the user registered under email has a new password.
func (d Directory) ResetPassword(email, password string) (User, Directory, error) {
	if password == "" {
		return User{}, d, core.NewValidationError(ErrPasswordRequired, core.FieldError{Field: "password", Error: ErrPasswordRequired.Error()})
	}
	next := make(Directory, len(d))
	copy(next, d)
	for i := range next {
		if next[i].Email == email {
			next[i].Password = password
			return next[i], next, nil
		}
	}
	return User{}, d, core.NewValidationError(ErrAccountNotFound, core.FieldError{Field: "email", Error: accountNotFoundText})
}

// AdminAuthenticate checks the fixed admin credential pair and returns the synthetic admin.
func AdminAuthenticate(conf core.AdminConfig, id, password string) (User, error) {
	if conf.ID == "" || id != conf.ID || password != conf.Password {
		return User{}, core.NewValidationError(ErrInvalidAdmin, core.FieldError{Field: "id", Error: invalidAdminText})
	}
	return Admin(), nil
}
