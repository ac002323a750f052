package session

import (
	"errors"
	"fmt"
	"strings"
)

// Roles
const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

var (
	AllRoles = []Role{RoleStudent, RoleInstructor, RoleAdmin}

	// RegisterRoles are the roles a new account may sign up with.
	RegisterRoles = []Role{RoleStudent, RoleInstructor}

	errUnknownRole    = errors.New("unknown role")
	errRoleNotGranted = errors.New("role not granted")
)

type Role string

func (r Role) String() string { return string(r) }

// ParseRole validates a raw role value.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errUnknownRole, s)
}

// ActiveRole is the dashboard view selection. It can only be constructed
// against the granted role set, so an invalid selection is unrepresentable.
// The zero value behaves as "student".
type ActiveRole struct {
	value Role
}

func NewActiveRole(r Role, granted []Role) (ActiveRole, error) {
	for _, g := range granted {
		if g == r {
			return ActiveRole{value: r}, nil
		}
	}
	return ActiveRole{}, fmt.Errorf("%w: %s", errRoleNotGranted, r)
}

func (ar ActiveRole) Role() Role {
	if ar.value == "" {
		return RoleStudent
	}
	return ar.value
}

type User struct {
	ID           string   `json:"_id"`
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	Roles        []Role   `json:"roles"`
	ProfileImage string   `json:"profileImage,omitempty"`
	Bio          string   `json:"bio,omitempty"`
	Expertise    []string `json:"expertise,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) HasRole(r Role) bool {
	for _, role := range u.Roles {
		if role == r {
			return true
		}
	}
	return false
}

func (u User) IsAdmin() bool      { return u.HasRole(RoleAdmin) }
func (u User) IsInstructor() bool { return u.HasRole(RoleInstructor) }
func (u User) IsStudent() bool    { return u.HasRole(RoleStudent) }

// AuthResponse is the payload of every successful auth call.
type AuthResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RegisterData contains information needed to sign up a new account.
type RegisterData struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Role      Role   `json:"role" validate:"required,registerrole"`
}

func (rd *RegisterData) Validate() error {
	rd.FirstName = clean(rd.FirstName)
	rd.LastName = clean(rd.LastName)
	rd.Email = clean(rd.Email, true)
	return validateStruct(rd)
}

type LoginData struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe,omitempty"`
}

func (ld *LoginData) Validate() error {
	ld.Email = clean(ld.Email, true)
	return validateStruct(ld)
}

// State is the externally observable session snapshot.
type State struct {
	User            *User
	ActiveRole      Role
	AccessToken     string
	IsAuthenticated bool
	IsInitialized   bool
	IsLoading       bool
	Error           string
	Message         string
}
