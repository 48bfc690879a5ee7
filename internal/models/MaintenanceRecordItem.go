package models

import "gorm.io/gorm"

const (
	ItemStatusPass         = "pass"
	ItemStatusFail         = "fail"
	ItemStatusRepairNeeded = "repair_needed"
)

// MaintenanceRecordItem is the evaluated outcome of one checklist item within
// a record. ItemID is nullable so a record survives a stale or removed
// template item. Rows are created together with the parent record and never
// updated.
type MaintenanceRecordItem struct {
	gorm.Model
	RecordID uint   `json:"record_id" gorm:"index;not null"`
	ItemID   *uint  `json:"item_id"`
	Status   string `json:"status" gorm:"default:pass"`
	Comments string `json:"comments"`
	PhotoURL string `json:"photo_url"`
}

// ValidItemStatus reports whether s is a recognized checklist result status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusPass, ItemStatusFail, ItemStatusRepairNeeded:
		return true
	}
	return false
}
