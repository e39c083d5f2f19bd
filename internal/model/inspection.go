package model

import (
	"time"

	"gorm.io/datatypes"
)

// InspectionType identifies which checklist a base inspection anchors.
type InspectionType string

const (
	InspectionTypeMedicationComprehensive InspectionType = "medication_audit_comprehensive"
	InspectionTypeWeeklyMedication        InspectionType = "weekly_medication_audit"
	InspectionTypeFireAlarm               InspectionType = "fire_alarm_weekly"
	InspectionTypeSmokeAlarm              InspectionType = "smoke_alarm_weekly"
	InspectionTypeHealthSafety            InspectionType = "health_safety_checklist"
	InspectionTypeFirstAid                InspectionType = "first_aid_checklist"
)

// InspectionTypes lists every checklist type in display order.
var InspectionTypes = []InspectionType{
	InspectionTypeMedicationComprehensive,
	InspectionTypeWeeklyMedication,
	InspectionTypeFireAlarm,
	InspectionTypeSmokeAlarm,
	InspectionTypeHealthSafety,
	InspectionTypeFirstAid,
}

var inspectionTypeNames = map[InspectionType]string{
	InspectionTypeMedicationComprehensive: "Medication Audit Comprehensive",
	InspectionTypeWeeklyMedication:        "Weekly Medication Audit",
	InspectionTypeFireAlarm:               "Fire Alarm Weekly",
	InspectionTypeSmokeAlarm:              "Smoke Alarm Weekly",
	InspectionTypeHealthSafety:            "Health & Safety Checklist",
	InspectionTypeFirstAid:                "First Aid Checklist",
}

// DisplayName returns the human readable label of t.
func (t InspectionType) DisplayName() string {
	if name, ok := inspectionTypeNames[t]; ok {
		return name
	}
	return string(t)
}

// Valid reports whether t is a known inspection type.
func (t InspectionType) Valid() bool {
	_, ok := inspectionTypeNames[t]
	return ok
}

// InspectionStatus is the lifecycle state of a base inspection.
type InspectionStatus string

const (
	StatusPending   InspectionStatus = "pending"
	StatusApproved  InspectionStatus = "approved"
	StatusRejected  InspectionStatus = "rejected"
	StatusCompleted InspectionStatus = "completed"
)

// Statuses lists every status in display order.
var Statuses = []InspectionStatus{StatusPending, StatusApproved, StatusRejected, StatusCompleted}

// Valid reports whether s is a known status.
func (s InspectionStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// BaseInspection is the shared record every checklist points to. It carries
// the conduct and approval trail.
type BaseInspection struct {
	ID                 uint             `json:"id" gorm:"primaryKey"`
	InspectionType     InspectionType   `json:"inspection_type" gorm:"type:varchar(40);not null;index"`
	Location           string           `json:"location" gorm:"size:255;not null"`
	ClientName         string           `json:"client_name" gorm:"size:100;not null;index"`
	Status             InspectionStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedByID        uint             `json:"created_by" gorm:"not null;index"`
	CreatedBy          *User            `json:"created_by_user,omitempty" gorm:"foreignKey:CreatedByID"`
	SubmittedByRole    Role             `json:"submitted_by_role" gorm:"type:varchar(20)"`
	ConductedByID      *uint            `json:"inspection_conducted_by"`
	ConductedBy        *User            `json:"-" gorm:"foreignKey:ConductedByID"`
	InspectionComments string           `json:"inspection_comments" gorm:"type:text"`
	InspectionDate     *time.Time       `json:"inspection_date"`
	ApprovedByID       *uint            `json:"approved_by"`
	ApprovedBy         *User            `json:"-" gorm:"foreignKey:ApprovedByID"`
	ApprovalComments   string           `json:"approval_comments" gorm:"type:text"`
	ApprovalDate       *time.Time       `json:"approval_date"`
	CreatedAt          time.Time        `json:"created_at" gorm:"index"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

// Conducted reports whether the conduct step has been recorded.
func (b *BaseInspection) Conducted() bool {
	return b.ConductedByID != nil
}

// Approved reports whether the approval step has been recorded.
func (b *BaseInspection) Approved() bool {
	return b.ApprovedByID != nil
}

// CreatorName returns the creator's full name when loaded.
func (b *BaseInspection) CreatorName() string {
	if b.CreatedBy == nil {
		return ""
	}
	return b.CreatedBy.FullName()
}

// EventAction names an entry in an inspection's history.
type EventAction string

const (
	EventCreated   EventAction = "created"
	EventUpdated   EventAction = "updated"
	EventConducted EventAction = "conducted"
	EventApproved  EventAction = "approved"
	EventDeleted   EventAction = "deleted"
)

// InspectionEvent is one entry in the audit trail of a base inspection.
type InspectionEvent struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	InspectionID uint           `json:"inspection_id" gorm:"not null;index"`
	ActorID      uint           `json:"actor_id" gorm:"not null;index"`
	Action       EventAction    `json:"action" gorm:"type:varchar(20);not null"`
	Details      datatypes.JSON `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AllModels returns every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&User{},
		&InspectorProfile{},
		&AdminProfile{},
		&WorkerProfile{},
		&ClientProfile{},
		&BaseInspection{},
		&InspectionEvent{},
		&FireAlarmChecklist{},
		&SmokeAlarmChecklist{},
		&HealthSafetyChecklist{},
		&MedicationComprehensiveChecklist{},
		&WeeklyMedicationAuditChecklist{},
		&FirstAidChecklist{},
		&FirstAidItem{},
	}
}
