// internal/models/unit.go
package models

import "gorm.io/gorm"

const (
	UnitTypeTractor = "tractor"
	UnitTypeTrailer = "trailer"
)

// Unit is a tracked vehicle identity. Units are immutable once registered:
// there is no update or delete path.
type Unit struct {
	gorm.Model
	UnitNumber string `json:"unit_number" gorm:"unique;not null"`
	Type       string `json:"type" gorm:"not null"` // "tractor" or "trailer"
	Make       string `json:"make"`
	ModelName  string `json:"model" gorm:"column:model"`
	Year       int    `json:"year"`
	VIN        string `json:"vin"`
}

// ValidUnitType reports whether t is a recognized vehicle type.
func ValidUnitType(t string) bool {
	return t == UnitTypeTractor || t == UnitTypeTrailer
}
