package entities

import (
	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ToUserID   uuid.UUID `gorm:"index" json:"to_user_id"`
	FromUserID uuid.UUID `json:"from_user_id"`
	ItemID     uuid.UUID `json:"item_id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Type       string    `json:"type"` // request_received, request_approved, request_rejected
	Read       bool      `gorm:"index" json:"read"`

	ToUser   *User `gorm:"foreignKey:ToUserID"`
	FromUser *User `gorm:"foreignKey:FromUserID"`
	Timestamp
}
