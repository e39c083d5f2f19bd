package model

// HealthSafetyChecklist is the periodic workplace health and safety review.
type HealthSafetyChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	// policy and training
	PreviousConcernsAddressed                          bool `json:"previous_concerns_addressed"`
	PolicyUpToDateLocalHealthSafety                    bool `json:"policy_up_to_date_local_health_safety"`
	StaffIssuedPersonalCopyPolicyToldText              bool `json:"staff_issued_personal_copy_policy_told_text"`
	HealthSafetyStandingItemAgendaPreviousStaffMeeting bool `json:"health_safety_standing_item_agenda_previous_staff_meeting"`
	AllStaffReceivedTrainingHealthSafetyProcedures     bool `json:"all_staff_received_training_health_safety_procedures"`
	NewStaffReceiveTrainingBeginningEmployment         bool `json:"new_staff_receive_training_beginning_employment"`
	TemporaryStaffReceiveNecessaryTraining             bool `json:"temporary_staff_receive_necessary_training"`

	// risk assessment
	StaffCarryOutManualHandlingRiskAssessment        bool `json:"staff_carry_out_manual_handling_risk_assessment"`
	EquipmentUsedMobilityRiskAssessment              bool `json:"equipment_used_mobility_risk_assessment"`
	ComputerWorkstationAssessmentsCarriedOutRecorded bool `json:"computer_workstation_assessments_carried_out_recorded"`

	// workplace
	WorkingConditionsSuitable                bool `json:"working_conditions_suitable_noise_lighting_ventilation_temperature" gorm:"column:working_conditions_suitable"`
	FurnitureFurnishingsGoodConditionStable  bool `json:"furniture_furnishings_good_condition_suitable_stable" gorm:"column:furniture_furnishings_good_condition_suitable_stable"`
	EquipmentSuitableMaintainedGoodCondition bool `json:"equipment_suitable_maintained_good_condition"`
	FloorSurfacesAcceptableCondition         bool `json:"floor_surfaces_acceptable_condition"`

	// fire
	FireDoorsKeptClosed               bool `json:"fire_doors_kept_closed"`
	NoticesInformingStaffWhatToDoFire bool `json:"notices_informing_staff_what_to_do_fire"`
	StaffKnowWhatToDoEventFire        bool `json:"staff_know_what_to_do_event_fire"`

	// first aid
	AdequateFirstAidersAvailable bool `json:"adequate_first_aiders_available"`
	EasyToFindFirstAiders        bool `json:"easy_to_find_first_aiders"`

	// electrical
	ElectricityObviousDefectsElectricalEquipment bool `json:"electricity_obvious_defects_electrical_equipment"`
	SocketsOverloaded                            bool `json:"sockets_overloaded"`
	AllElectricalEquipmentInspected              bool `json:"all_electrical_equipment_inspected"`

	CirculationRoutesKeptClearObstructions bool `json:"circulation_routes_kept_clear_obstructions_wires_cables_boxes" gorm:"column:circulation_routes_kept_clear"`

	HarmfulSubstancesInUsePrecautionsAgreed string `json:"harmful_substances_in_use_precautions_agreed" gorm:"type:text"`
}

func (*HealthSafetyChecklist) TableName() string              { return "health_safety_checklists" }
func (*HealthSafetyChecklist) InspectionType() InspectionType { return InspectionTypeHealthSafety }
func (c *HealthSafetyChecklist) Meta() *ChecklistMeta         { return &c.ChecklistMeta }
func (c *HealthSafetyChecklist) Base() *BaseInspection        { return c.Inspection }
func (c *HealthSafetyChecklist) Attach(base *BaseInspection)  { c.Inspection, c.InspectionID = base, base.ID }
