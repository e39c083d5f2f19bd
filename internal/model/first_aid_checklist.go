package model

import (
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// FirstAidChecklist records the contents of a first aid kit.
type FirstAidChecklist struct {
	ChecklistMeta
	InspectionID uint            `json:"inspection_id" gorm:"not null;index"`
	Inspection   *BaseInspection `json:"inspection,omitempty" gorm:"foreignKey:InspectionID"`

	FirstAidKitLocation string         `json:"first_aid_kit_location" gorm:"size:255" validate:"max=255"`
	Items               []FirstAidItem `json:"items" gorm:"foreignKey:ChecklistID" validate:"dive"`
}

func (*FirstAidChecklist) TableName() string              { return "first_aid_checklists" }
func (*FirstAidChecklist) InspectionType() InspectionType { return InspectionTypeFirstAid }
func (c *FirstAidChecklist) Meta() *ChecklistMeta         { return &c.ChecklistMeta }
func (c *FirstAidChecklist) Base() *BaseInspection        { return c.Inspection }
func (c *FirstAidChecklist) Attach(base *BaseInspection)  { c.Inspection, c.InspectionID = base, base.ID }

// Preloads loads kit items with the checklist.
func (c *FirstAidChecklist) Preloads() []string {
	return []string{"Items"}
}

// AfterFind orders kit items by name.
func (c *FirstAidChecklist) AfterFind(tx *gorm.DB) error {
	sort.SliceStable(c.Items, func(i, j int) bool { return c.Items[i].ItemName < c.Items[j].ItemName })
	return nil
}

// ResetChildren clears item keys so they are inserted as new rows.
func (c *FirstAidChecklist) ResetChildren() {
	for i := range c.Items {
		c.Items[i].ID = 0
		c.Items[i].ChecklistID = 0
	}
}

// ClearChildren drops the loaded items when field is "items".
func (c *FirstAidChecklist) ClearChildren(field string) {
	if field == "items" {
		c.Items = nil
	}
}

// SyncItems rewrites the stored kit items so they match c.Items.
func (c *FirstAidChecklist) SyncItems(tx *gorm.DB) error {
	if err := tx.Where("checklist_id = ?", c.ID).Delete(&FirstAidItem{}).Error; err != nil {
		return fmt.Errorf("clear first aid items: %w", err)
	}
	if len(c.Items) == 0 {
		return nil
	}
	for i := range c.Items {
		c.Items[i].ID = 0
		c.Items[i].ChecklistID = c.ID
	}
	if err := tx.Create(&c.Items).Error; err != nil {
		return fmt.Errorf("create first aid items: %w", err)
	}
	return nil
}

// FirstAidItem is one line of a first aid kit inventory.
type FirstAidItem struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ChecklistID uint   `json:"-" gorm:"not null;index"`
	ItemName    string `json:"item_name" gorm:"size:100;not null" validate:"required,max=100"`
	Quantity    uint   `json:"quantity"`
	Available   bool   `json:"available"`
}

func (*FirstAidItem) TableName() string { return "first_aid_items" }

func (i FirstAidItem) String() string {
	state := "missing"
	if i.Available {
		state = "available"
	}
	return fmt.Sprintf("%s x%d (%s)", i.ItemName, i.Quantity, state)
}
