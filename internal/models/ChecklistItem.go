package models

import "gorm.io/gorm"

type ChecklistItem struct {
	gorm.Model
	TemplateID  uint   `json:"template_id" gorm:"index;not null"`
	ItemName    string `json:"item_name" gorm:"not null"`
	Description string `json:"description"`
	IsRequired  bool   `json:"is_required" gorm:"default:true"`
}
