package model

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// Valid reports whether r is one of the closed set of roles.
func (r UserRole) Valid() bool {
	switch r {
	case Student, Instructor, Admin:
		return true
	}
	return false
}

// Elevated roles need an administrator's approval before they take effect.
func (r UserRole) Elevated() bool {
	return r == Instructor || r == Admin
}

func ParseRole(s string) (UserRole, error) {
	r := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// swagger:model User
type User struct {
	BaseModel
	Username     string   `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:100;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;default:'student';index" json:"role"`
}

func (User) TableName() string {
	return "users"
}

type RoleRequestStatus string

const (
	RoleRequestPending  RoleRequestStatus = "pending"
	RoleRequestApproved RoleRequestStatus = "approved"
	RoleRequestRejected RoleRequestStatus = "rejected"
)

// RoleRequest records a registration that asked for an elevated role.
type RoleRequest struct {
	BaseModel
	UserID        uint              `gorm:"index;not null" json:"userId"`
	User          *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RequestedRole UserRole          `gorm:"size:20;not null" json:"requestedRole"`
	Status        RoleRequestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	DecidedBy     *uint             `json:"decidedBy,omitempty"`
	DecidedAt     *time.Time        `json:"decidedAt,omitempty"`
}

func (RoleRequest) TableName() string {
	return "role_requests"
}
