package model

// FireAlarmChecklist is the weekly fire alarm test.
type FireAlarmChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	PointChecked            string `json:"point_checked" gorm:"size:100" validate:"max=100"`
	AlarmFunctional         bool   `json:"alarm_functional"`
	CallPointsAccessible    bool   `json:"call_points_accessible"`
	EmergencyLightsWorking  bool   `json:"emergency_lights_working"`
	FaultsIdentifiedDetails string `json:"faults_identified_details" gorm:"type:text"`
	ActionTakenDetails      string `json:"action_taken_details" gorm:"type:text"`
	ManagementBookInitials  string `json:"management_book_initials" gorm:"size:10" validate:"max=10"`
}

func (*FireAlarmChecklist) TableName() string              { return "fire_alarm_checklists" }
func (*FireAlarmChecklist) InspectionType() InspectionType { return InspectionTypeFireAlarm }
func (c *FireAlarmChecklist) Meta() *ChecklistMeta         { return &c.ChecklistMeta }
func (c *FireAlarmChecklist) Base() *BaseInspection        { return c.Inspection }
func (c *FireAlarmChecklist) Attach(base *BaseInspection)  { c.Inspection, c.InspectionID = base, base.ID }

// SmokeAlarmChecklist is the weekly smoke alarm test.
type SmokeAlarmChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	InstalledConditionOk   bool   `json:"installed_condition_ok"`
	AlarmFunctional        bool   `json:"alarm_functional"`
	BatteryReplaced        bool   `json:"battery_replaced"`
	FaultsIdentified       string `json:"faults_identified" gorm:"type:text"`
	ActionTaken            string `json:"action_taken" gorm:"type:text"`
	ManagementBookInitials string `json:"management_book_initials" gorm:"size:10" validate:"max=10"`
}

func (*SmokeAlarmChecklist) TableName() string              { return "smoke_alarm_checklists" }
func (*SmokeAlarmChecklist) InspectionType() InspectionType { return InspectionTypeSmokeAlarm }
func (c *SmokeAlarmChecklist) Meta() *ChecklistMeta         { return &c.ChecklistMeta }
func (c *SmokeAlarmChecklist) Base() *BaseInspection        { return c.Inspection }
func (c *SmokeAlarmChecklist) Attach(base *BaseInspection)  { c.Inspection, c.InspectionID = base, base.ID }
