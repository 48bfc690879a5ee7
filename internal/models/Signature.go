package models

import (
	"time"

	"gorm.io/gorm"
)

// Signature is an optional image attachment proving the submitter signed off
// on a record. At most one per record; written atomically with the record and
// never updated.
type Signature struct {
	gorm.Model
	RecordID          uint      `json:"record_id" gorm:"index;not null"`
	SignatureImageURL string    `json:"signature_image_url" gorm:"not null"`
	SignedAt          time.Time `json:"signed_at"`
}
