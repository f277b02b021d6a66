package model

// Partner is a receiving institution (hospital/clinic) that UBT units are shipped to.
// Deleting a partner removes all of its products, the cascade lives in the repository.
type Partner struct {
	BaseModel
	Name          string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Address       string `gorm:"type:text;not null" json:"address" validate:"required"`
	Province      string `gorm:"type:varchar(100);not null" json:"province" validate:"required,province"`
	Phone         string `gorm:"type:varchar(30);not null" json:"phone" validate:"required"`
	Email         string `gorm:"type:varchar(255);not null" json:"email" validate:"required,email"`
	ContactPerson string `gorm:"type:varchar(255);not null" json:"contact_person" validate:"required"`
	Active        bool   `gorm:"default:true" json:"active"`

	// Relasi
	Products []Product `json:"products,omitempty"`
}

// PartnerRef is the minimal projection attached to scan responses.
type PartnerRef struct {
	Name     string `json:"name"`
	Province string `json:"province"`
}

// ToRef returns the minimal projection of the partner.
func (p *Partner) ToRef() *PartnerRef {
	return &PartnerRef{Name: p.Name, Province: p.Province}
}
