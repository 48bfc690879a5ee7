package models

import "gorm.io/gorm"

// ChecklistTemplate groups the inspection items for one vehicle type.
// Templates are seeded at first initialization and treated as read-only
// configuration afterwards.
type ChecklistTemplate struct {
	gorm.Model
	VehicleType string          `json:"vehicle_type" gorm:"not null"`
	Title       string          `json:"title" gorm:"not null"`
	Items       []ChecklistItem `json:"items,omitempty" gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE;"`
}
