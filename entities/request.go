package entities

import (
	"github.com/google/uuid"
)

// Request rows are unique per (item, requester): a repeated request from the
// same user collides on the composite index instead of creating a duplicate.
type Request struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ItemID      uuid.UUID `gorm:"uniqueIndex:idx_item_requester" json:"item_id"`
	ItemOwnerID uuid.UUID `gorm:"index" json:"item_owner_id"`
	RequesterID uuid.UUID `gorm:"uniqueIndex:idx_item_requester" json:"requester_id"`
	Status      string    `gorm:"index" json:"status"` // pending, approved, rejected

	Item      *Item `gorm:"foreignKey:ItemID"`
	Requester *User `gorm:"foreignKey:RequesterID"`
	Timestamp
}
