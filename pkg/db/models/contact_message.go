package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/enums"
)

// ContactMessage is a storefront contact-form submission. TelegramSent
// records whether the best-effort relay to the staff channel went through.
type ContactMessage struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string              `gorm:"column:name;not null"`
	Phone        *string             `gorm:"column:phone"`
	Email        *string             `gorm:"column:email"`
	Subject      *string             `gorm:"column:subject"`
	Body         string              `gorm:"column:body;not null"`
	Status       enums.MessageStatus `gorm:"column:status;not null;default:'new'"`
	Reply        *string             `gorm:"column:reply"`
	RepliedAt    *time.Time          `gorm:"column:replied_at"`
	TelegramSent bool                `gorm:"column:telegram_sent;not null;default:false"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
