package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the distribution lifecycle axis of a unit.
type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusScanned  ProductStatus = "scanned"
	StatusRecalled ProductStatus = "recalled" // modeled, no in-repo transition yet (administrative recall path)
)

// ProductCondition is the physical condition axis, independent of status.
type ProductCondition string

const (
	ConditionTerkirim ProductCondition = "terkirim" // delivered
	ConditionTerpakai ProductCondition = "terpakai" // used
	ConditionRusak    ProductCondition = "rusak"    // damaged
)

// ValidCondition reports whether the value is one of the enumerated conditions.
func ValidCondition(c ProductCondition) bool {
	switch c {
	case ConditionTerkirim, ConditionTerpakai, ConditionRusak:
		return true
	}
	return false
}

// Product is one physical UBT unit, identified by its QR code.
// QRCode is immutable once created; uniqueness is enforced by the unique index.
type Product struct {
	BaseModel
	QRCode            string           `gorm:"type:varchar(50);uniqueIndex;not null" json:"qr_code"`
	PartnerID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"partner_id"`
	Partner           *Partner         `json:"partner,omitempty" validate:"-"`
	BatchNumber       string           `gorm:"type:varchar(100);not null" json:"batch_number"`
	ManufacturingDate time.Time        `gorm:"type:date;not null" json:"manufacturing_date"`
	ExpiryDate        time.Time        `gorm:"type:date;not null" json:"expiry_date"`
	Status            ProductStatus    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Condition         ProductCondition `gorm:"type:varchar(20);not null;default:'terkirim'" json:"condition"`
	ScannedAt         *time.Time       `json:"scanned_at,omitempty"`
	ScannedBy         *string          `gorm:"type:varchar(255)" json:"scanned_by,omitempty"`
}

// ScannedView is the enriched projection returned by the scan pipeline.
type ScannedView struct {
	Product
	PartnerInfo *PartnerRef `json:"partner"`
}
