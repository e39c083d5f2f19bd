package model

import "time"

// Checklist is implemented by every checklist variant. Each variant owns
// exactly one base inspection.
type Checklist interface {
	TableName() string
	InspectionType() InspectionType
	Meta() *ChecklistMeta
	Base() *BaseInspection
	Attach(base *BaseInspection)
}

// Preloader is implemented by checklists with child rows to load alongside.
type Preloader interface {
	Preloads() []string
}

// ChildResetter is implemented by checklists whose child rows must be
// inserted fresh when the checklist is created.
type ChildResetter interface {
	ResetChildren()
}

// ChildReplacer is implemented by checklists whose child rows are replaced
// as a whole when a partial update sends the field.
type ChildReplacer interface {
	ClearChildren(field string)
}

// ChecklistMeta carries the columns every checklist variant shares.
type ChecklistMeta struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Comments  string    `json:"comments" gorm:"type:text"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
