package model

import "time"

// Profile is a one-to-one extension of a user holding role specific fields.
type Profile interface {
	TableName() string
	ProfileRole() Role
	Owner() *User
	Bind(user *User)
	ApplyDefaults()
}

// Department groups workers by area of the facility.
type Department string

const (
	DepartmentProduction  Department = "production"
	DepartmentMaintenance Department = "maintenance"
	DepartmentQuality     Department = "quality"
	DepartmentShipping    Department = "shipping"
	DepartmentOther       Department = "other"
)

// ShiftType is the pattern a worker is rostered on.
type ShiftType string

const (
	ShiftDay      ShiftType = "day"
	ShiftEvening  ShiftType = "evening"
	ShiftNight    ShiftType = "night"
	ShiftRotation ShiftType = "rotation"
)

// InspectorProfile holds inspector attributes.
type InspectorProfile struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	UserID            uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User              *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	YearsOfExperience uint      `json:"years_of_experience" validate:"lte=80"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (*InspectorProfile) TableName() string { return "inspectors" }
func (*InspectorProfile) ProfileRole() Role { return RoleInspector }
func (p *InspectorProfile) Owner() *User    { return p.User }
func (p *InspectorProfile) ApplyDefaults()  {}
func (p *InspectorProfile) Bind(user *User) { p.User, p.UserID = user, user.ID }

// AdminProfile holds admin attributes.
type AdminProfile struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User           *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	OfficeLocation string    `json:"office_location" gorm:"size:255" validate:"max=255"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (*AdminProfile) TableName() string { return "admins" }
func (*AdminProfile) ProfileRole() Role { return RoleAdmin }
func (p *AdminProfile) Owner() *User    { return p.User }
func (p *AdminProfile) ApplyDefaults()  {}
func (p *AdminProfile) Bind(user *User) { p.User, p.UserID = user, user.ID }

// WorkerProfile holds shift and department details for a worker.
type WorkerProfile struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"uniqueIndex;not null"`
	User           *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Department     Department `json:"department" gorm:"type:varchar(20);not null" validate:"omitempty,oneof=production maintenance quality shipping other"`
	ShiftType      ShiftType  `json:"shift_type" gorm:"type:varchar(20);not null" validate:"omitempty,oneof=day evening night rotation"`
	ShiftTime      string     `json:"shift_time" gorm:"size:5" validate:"omitempty,datetime=15:04"`
	NextShiftStart *time.Time `json:"next_shift_start"`
	HireDate       *time.Time `json:"hire_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (*WorkerProfile) TableName() string { return "workers" }
func (*WorkerProfile) ProfileRole() Role { return RoleWorker }
func (p *WorkerProfile) Owner() *User    { return p.User }
func (p *WorkerProfile) Bind(user *User) { p.User, p.UserID = user, user.ID }

func (p *WorkerProfile) ApplyDefaults() {
	if p.Department == "" {
		p.Department = DepartmentOther
	}
	if p.ShiftType == "" {
		p.ShiftType = ShiftDay
	}
}

// ClientProfile holds attributes of a client of the care network.
type ClientProfile struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CompanyName string    `json:"company_name" gorm:"size:100" validate:"max=100"`
	Age         *uint     `json:"age" validate:"omitempty,lte=130"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (*ClientProfile) TableName() string { return "clients" }
func (*ClientProfile) ProfileRole() Role { return RoleClient }
func (p *ClientProfile) Owner() *User    { return p.User }
func (p *ClientProfile) ApplyDefaults()  {}
func (p *ClientProfile) Bind(user *User) { p.User, p.UserID = user, user.ID }

// NewProfileFor returns an empty profile matching role.
func NewProfileFor(role Role) Profile {
	var p Profile
	switch role {
	case RoleAdmin:
		p = &AdminProfile{}
	case RoleInspector:
		p = &InspectorProfile{}
	case RoleWorker:
		p = &WorkerProfile{}
	case RoleClient:
		p = &ClientProfile{}
	default:
		return nil
	}
	p.ApplyDefaults()
	return p
}
