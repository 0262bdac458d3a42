package entities

import (
	"github.com/google/uuid"
)

type Item struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	OwnerID       uuid.UUID `gorm:"index" json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"` // Books, Furniture, Clothes, Electronics, Accessories, Plants
	ImageURL      string    `json:"image_url,omitempty"`
	ImageKey      string    `json:"-"`
	ContactNumber string    `json:"contact_number"`
	Status        string    `gorm:"index" json:"status"` // available, requested, accepted, donated

	Owner    *User      `gorm:"foreignKey:OwnerID"`
	Requests []*Request `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	Timestamp
}
