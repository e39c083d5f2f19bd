package model

import (
	"strings"
	"time"
)

// Role is the access level attached to every user.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleInspector Role = "inspector"
	RoleWorker    Role = "worker"
	RoleClient    Role = "client"
)

// Roles lists every role in display order.
var Roles = []Role{RoleAdmin, RoleInspector, RoleWorker, RoleClient}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

const (
	DefaultCountry = "United Kingdom"
	DefaultCompany = "Unique Care limited Network"
)

// User represents an authenticated user in the system.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FirstName      string    `json:"first_name" gorm:"size:50;not null"`
	LastName       string    `json:"last_name" gorm:"size:50;not null"`
	Role           Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	PasswordHash   string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	ProfilePicture string    `json:"profile_picture" gorm:"size:255"`
	Bio            string    `json:"bio" gorm:"size:300"`
	PhoneNumber    string    `json:"phone_number" gorm:"size:16"`
	Location       string    `json:"location" gorm:"size:255"`
	Address        string    `json:"address" gorm:"size:255"`
	City           string    `json:"city" gorm:"size:100"`
	State          string    `json:"state" gorm:"size:100"`
	Country        string    `json:"country" gorm:"size:100"`
	Company        string    `json:"company" gorm:"size:100"`
	Qualification  string    `json:"qualification" gorm:"size:100"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true;index"`
	IsStaff        bool      `json:"is_staff" gorm:"not null;default:false"`
	CreatedByID    *uint     `json:"created_by"`
	CreatedBy      *User     `json:"-" gorm:"foreignKey:CreatedByID"`
	DateJoined     time.Time `json:"date_joined" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasRole reports whether the user holds any of roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// SeesAllInspections reports whether the user may read every inspection
// rather than only the ones they created.
func (u *User) SeesAllInspections() bool {
	return u.HasRole(RoleAdmin, RoleInspector)
}

// ApplyDefaults fills organisation fields left blank at registration.
func (u *User) ApplyDefaults() {
	if u.Country == "" {
		u.Country = DefaultCountry
	}
	if u.Company == "" {
		u.Company = DefaultCompany
	}
	u.IsStaff = u.Role == RoleAdmin
}
