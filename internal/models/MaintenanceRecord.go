// internal/models/maintenance_record.go
package models

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const (
	RecordStatusInProgress = "in_progress"
	RecordStatusCompleted  = "completed"
)

// MaintenanceRecord is one submitted inspection/service event for a unit.
// Records are created once and mutated only by the in_progress -> completed
// status transition; they are never deleted through the API.
type MaintenanceRecord struct {
	gorm.Model
	UnitID               uint   `json:"unit_id" gorm:"index;not null"`
	Unit                 Unit   `json:"-" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE;"`
	DriverID             *uint  `json:"driver_id"`
	TechnicianID         *uint  `json:"technician_id"`
	CompanyName          string `json:"company_name"`
	Mileage              int64  `json:"mileage"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
	Notes                string `json:"notes"`
	Status               string `json:"status" gorm:"default:completed"`

	// Items and Signature are exclusively owned by the record and go away
	// with it.
	Items     []MaintenanceRecordItem `json:"items,omitempty" gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE;"`
	Signature *Signature              `json:"signature,omitempty" gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE;"`
}

// ValidRecordStatus reports whether s is a recognized record status.
func ValidRecordStatus(s string) bool {
	return s == RecordStatusInProgress || s == RecordStatusCompleted
}

// ParseMileage converts a submitted mileage string to a non-negative integer.
// Thousands separators ("100,000") and surrounding whitespace are tolerated
// since clients format the field for display; everything else is rejected.
// The server re-validates here regardless of any client-side normalization.
func ParseMileage(raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid mileage %q", raw)
	}
	if n < 0 {
		return 0, fmt.Errorf("mileage must be non-negative, got %d", n)
	}
	return n, nil
}
