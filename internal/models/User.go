package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Name         string `json:"name"`
	Email        string `json:"email" gorm:"unique"`
	Role         string `json:"role"` // "admin", "driver", "technician"
	PasswordHash string `json:"-"`
}

// ValidRole reports whether role is one of the recognized user roles.
func ValidRole(role string) bool {
	switch role {
	case "admin", "driver", "technician":
		return true
	}
	return false
}
