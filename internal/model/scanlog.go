package model

import "github.com/google/uuid"

// ScanLog records every scan event. The product itself only keeps the latest
// scanned_at/scanned_by stamp, the log keeps the full history.
type ScanLog struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty" validate:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty" validate:"-"`
	QRCode    string    `gorm:"type:varchar(50);not null" json:"qr_code"` // snapshot, survives product deletion
}
