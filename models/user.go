package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
)

// User is the authenticated principal. An employee can have one manager;
// a manager can have many employees through the self-referential link.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(10);not null;default:'employee';check:role IN ('manager','employee')"`
	ManagerID    *uint     `json:"manager" gorm:"index"`
	Manager      *User     `json:"-" gorm:"foreignKey:ManagerID"`
	IsSuperuser  bool      `json:"is_superuser" gorm:"default:false"`
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Employees []User `json:"-" gorm:"foreignKey:ManagerID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	if u.ManagerID != nil {
		return validateManagerRef(tx, *u.ManagerID)
	}
	return nil
}

// IsValidRole checks if the user role is valid
func (u *User) IsValidRole() bool {
	switch u.Role {
	case RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// IsManager checks if the user is a manager
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// IsEmployee checks if the user is an employee
func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// UserCreate represents the provisioning request payload
type UserCreate struct {
	Username string   `json:"username" binding:"required"`
	Email    string   `json:"email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role" binding:"required"`
	Manager  *uint    `json:"manager"`
}
