package auth

import (
	"crypto/subtle"
	"fmt"
	"os"
)

// User is a configured API account.
type User struct {
	Name     string
	Password string
	Role     string
}

// Users authenticates username/password pairs against a fixed set of accounts.
type Users struct {
	users []User
}

// NewUsers returns a Users over the given accounts.
func NewUsers(users ...User) *Users {
	return &Users{users: users}
}

// UsersFromEnv builds the account set from ADMIN_USER/ADMIN_USER_PASSWORD (required) and
// VIEWER_USER/VIEWER_USER_PASSWORD (optional). Passwords are checked with ValidatePassword.
func UsersFromEnv() (*Users, error) {
	admin := User{Name: os.Getenv("ADMIN_USER"), Password: os.Getenv("ADMIN_USER_PASSWORD"), Role: RoleAdmin}
	if admin.Name == "" {
		return nil, fmt.Errorf("credentials validation failed: ADMIN_USER must not be empty")
	}
	if err := ValidatePassword("ADMIN_USER_PASSWORD", admin.Password); err != nil {
		return nil, err
	}
	users := []User{admin}

	if name := os.Getenv("VIEWER_USER"); name != "" {
		viewer := User{Name: name, Password: os.Getenv("VIEWER_USER_PASSWORD"), Role: RoleViewer}
		if viewer.Name == admin.Name {
			return nil, fmt.Errorf("credentials validation failed: VIEWER_USER must differ from ADMIN_USER")
		}
		if err := ValidatePassword("VIEWER_USER_PASSWORD", viewer.Password); err != nil {
			return nil, err
		}
		users = append(users, viewer)
	}
	return NewUsers(users...), nil
}

// Authenticate returns the role of the matching account or ErrInvalidCredentials.
// Every account is compared in constant time.
func (u *Users) Authenticate(name, password string) (string, error) {
	if name == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	role := ""
	for _, user := range u.users {
		nameMatch := subtle.ConstantTimeCompare([]byte(name), []byte(user.Name))
		passMatch := subtle.ConstantTimeCompare([]byte(password), []byte(user.Password))
		if nameMatch&passMatch == 1 && role == "" {
			role = user.Role
		}
	}
	if role == "" {
		return "", ErrInvalidCredentials
	}
	return role, nil
}
