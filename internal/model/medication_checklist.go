package model

// MedicationComprehensiveChecklist is the full monthly medication audit of a client.
type MedicationComprehensiveChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	MedicationsCabinetSecurelyLocked                 bool `json:"medications_cabinet_securely_locked"`
	MedicationCabinetCleanNoSpillages                bool `json:"medication_cabinet_clean_no_spillages"`
	MedicationsHaveOpeningDatesOriginalLabels        bool `json:"medications_have_opening_dates_original_labels"`
	MedicationLabelHasClientDetails                  bool `json:"medication_label_has_client_details"`
	MedicationStoredCorrectly                        bool `json:"medication_stored_correctly"`
	CurrentMarrSheetMatchClientRecords               bool `json:"current_marr_sheet_match_client_records"`
	MarrSheetListAllMedicationsPrescribed            bool `json:"marr_sheet_list_all_medications_prescribed"`
	GapOnMarrSheet                                   bool `json:"gap_on_marr_sheet"`
	AllDocumentationBlackInk                         bool `json:"all_documentation_black_ink"`
	ControlDrugForClient                             bool `json:"control_drug_for_client"`
	ControlledDrugsStoredRecordedCorrectly           bool `json:"controlled_drugs_stored_recorded_correctly_count_correct" gorm:"column:controlled_drugs_stored_recorded_correctly"`
	PrnMedications                                   bool `json:"prn_medications"`
	DirectivesForPrnClearComprehensive               bool `json:"directives_for_prn_clear_comprehensive"`
	MedicationsAdministrationCodedOnMarrSheet        bool `json:"medications_administration_coded_on_marr_sheet"`
	RecordsOfRefusalGpInformed                       bool `json:"records_of_refusal_gp_informed"`
	TransdermalPatchProtocolForUse                   bool `json:"transdermal_patch_protocol_for_use"`
	ClientTakeAnyBloodThinnersUpToDateRiskAssessment bool `json:"client_take_any_blood_thinners_up_to_date_risk_assessment"`
	OrderOfMedicationDoneMonthlyBasis                bool `json:"order_of_medication_done_monthly_basis"`
	ReturnsMedicationRecordedCorrectlyReturnsBook    bool `json:"returns_medication_recorded_correctly_returns_book"`

	MissingAdministrationWhy      string `json:"missing_administration_why" gorm:"type:text"`
	WhyReturnsMedicationForClient string `json:"why_returns_medication_for_client" gorm:"type:text"`
	AnyAdditionalComments         string `json:"any_additional_comments" gorm:"type:text"`
	AnyFollowUpRequiresByWhom     string `json:"any_follow_up_requires_by_whom" gorm:"type:text"`
}

func (*MedicationComprehensiveChecklist) TableName() string {
	return "medication_comprehensive_checklists"
}

func (*MedicationComprehensiveChecklist) InspectionType() InspectionType {
	return InspectionTypeMedicationComprehensive
}

func (c *MedicationComprehensiveChecklist) Meta() *ChecklistMeta  { return &c.ChecklistMeta }
func (c *MedicationComprehensiveChecklist) Base() *BaseInspection { return c.Inspection }

func (c *MedicationComprehensiveChecklist) Attach(base *BaseInspection) {
	c.Inspection, c.InspectionID = base, base.ID
}

// WeeklyMedicationAuditChecklist is the shorter weekly medication check.
type WeeklyMedicationAuditChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	MedicationsCabinetSecurelyLocked          bool `json:"medications_cabinet_securely_locked"`
	MedicationCabinetCleanNoSpillages         bool `json:"medication_cabinet_clean_no_spillages"`
	MedicationsHaveOpeningDatesOriginalLabels bool `json:"medications_have_opening_dates_original_labels"`
	MedicationLabelHasClientDetails           bool `json:"medication_label_has_client_details"`
	MedicationStoredCorrectly                 bool `json:"medication_stored_correctly"`
	CurrentMarrSheetMatchClientRecords        bool `json:"current_marr_sheet_match_client_records"`
	MarrSheetListAllMedicationsPrescribed     bool `json:"marr_sheet_list_all_medications_prescribed"`
	GapOnMarrSheet                            bool `json:"gap_on_marr_sheet"`
	BoxedBottledMedicationsStockCountEntered  bool `json:"boxed_bottled_medications_stock_count_entered"`
	AllDocumentationBlackInk                  bool `json:"all_documentation_black_ink"`
	ControlDrugForClient                      bool `json:"control_drug_for_client"`
	ControlledDrugsStoredRecordedCorrectly    bool `json:"controlled_drugs_stored_recorded_correctly_count_correct" gorm:"column:controlled_drugs_stored_recorded_correctly"`
	PrnMedications                            bool `json:"prn_medications"`
	DirectivesForPrnClearComprehensive        bool `json:"directives_for_prn_clear_comprehensive"`
	MedicationCountAccurate                   bool `json:"medication_count_accurate"`
	MedicationExpiryChecked                   bool `json:"medication_expiry_checked"`

	MissingAdministrationWhy string `json:"missing_administration_why" gorm:"type:text"`
	AnyIssues                string `json:"any_issues" gorm:"type:text"`
}

func (*WeeklyMedicationAuditChecklist) TableName() string {
	return "weekly_medication_audit_checklists"
}

func (*WeeklyMedicationAuditChecklist) InspectionType() InspectionType {
	return InspectionTypeWeeklyMedication
}

func (c *WeeklyMedicationAuditChecklist) Meta() *ChecklistMeta  { return &c.ChecklistMeta }
func (c *WeeklyMedicationAuditChecklist) Base() *BaseInspection { return c.Inspection }

func (c *WeeklyMedicationAuditChecklist) Attach(base *BaseInspection) {
	c.Inspection, c.InspectionID = base, base.ID
}
