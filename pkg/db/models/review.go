package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a product review left from the storefront and moderated from the
// back office.
type Review struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID  `gorm:"column:product_id;type:uuid;not null;index"`
	CustomerName string     `gorm:"column:customer_name;not null"`
	Rating       int        `gorm:"column:rating;not null"`
	Comment      string     `gorm:"column:comment;not null"`
	Reply        *string    `gorm:"column:reply"`
	RepliedAt    *time.Time `gorm:"column:replied_at"`
	Verified     bool       `gorm:"column:verified;not null;default:false"`
	IsActive     bool       `gorm:"column:is_active;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
