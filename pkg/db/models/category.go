package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups catalog products (interior, exterior, decorative, ...).
type Category struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string    `gorm:"column:name;not null"`
	NameEN        *string   `gorm:"column:name_en"`
	Description   *string   `gorm:"column:description"`
	DescriptionEN *string   `gorm:"column:description_en"`
	ImageURL      *string   `gorm:"column:image_url"`
	SortOrder     int       `gorm:"column:sort_order;not null;default:0"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
