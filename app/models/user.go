package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	ROLE_HOMEOWNER  = "homeowner"
	ROLE_CONTRACTOR = "contractor"
	ROLE_ADMIN      = "admin"
)

type User struct {
	Base
	Name      string `gorm:"type:varchar(150);not null" json:"name" validate:"required,min=2,max=150"`
	Email     string `gorm:"uniqueIndex;type:varchar(200);not null" json:"email" validate:"required,email,max=200"`
	Role      string `gorm:"type:varchar(20);not null;default:'homeowner';index" json:"role" validate:"oneof=homeowner contractor admin"`
	Phone     string `gorm:"type:varchar(30);default:''" json:"phone,omitempty" validate:"max=30"`
	AvatarURL string `gorm:"type:varchar(255);default:''" json:"avatarUrl,omitempty" validate:"max=255"`
}

var validate = validator.New()

func (u *User) Validate() error {
	return validate.Struct(u)
}

// NewUser normalizes and validates signup input.
func NewUser(name, email, role string) (*User, error) {
	u := &User{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  strings.ToLower(strings.TrimSpace(role)),
	}
	if u.Role == "" {
		u.Role = ROLE_HOMEOWNER
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) IsContractor() bool {
	return u.Role == ROLE_CONTRACTOR
}

func (u *User) IsHomeowner() bool {
	return u.Role == ROLE_HOMEOWNER
}

func (u *User) IsAdmin() bool {
	return u.Role == ROLE_ADMIN
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case ROLE_HOMEOWNER, ROLE_CONTRACTOR, ROLE_ADMIN:
		return true
	default:
		return false
	}
}
