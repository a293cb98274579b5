package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ProductSpecifications holds the paint datasheet fields. Every field is
// optional; absent values render as empty on the storefront.
type ProductSpecifications struct {
	Color       *string `gorm:"column:spec_color" json:"color,omitempty"`
	Coverage    *string `gorm:"column:spec_coverage" json:"coverage,omitempty"`
	DryingTime  *string `gorm:"column:spec_drying_time" json:"drying_time,omitempty"`
	Application *string `gorm:"column:spec_application" json:"application,omitempty"`
	Finish      *string `gorm:"column:spec_finish" json:"finish,omitempty"`
}

// ProductFeatures is the fixed set of marketing badges a product can carry.
type ProductFeatures struct {
	EasyToApply      bool `gorm:"column:feature_easy_to_apply;not null;default:false" json:"easy_to_apply"`
	HighQuality      bool `gorm:"column:feature_high_quality;not null;default:false" json:"high_quality"`
	TenYearWarranty  bool `gorm:"column:feature_ten_year_warranty;not null;default:false" json:"ten_year_warranty"`
	WeatherResistant bool `gorm:"column:feature_weather_resistant;not null;default:false" json:"weather_resistant"`
	Waterproof       bool `gorm:"column:feature_waterproof;not null;default:false" json:"waterproof"`
	EcoFriendly      bool `gorm:"column:feature_eco_friendly;not null;default:false" json:"eco_friendly"`
	FastDrying       bool `gorm:"column:feature_fast_drying;not null;default:false" json:"fast_drying"`
	New              bool `gorm:"column:feature_new;not null;default:false" json:"new"`
}

// Product represents a catalog listing.
type Product struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID     uuid.UUID             `gorm:"column:category_id;type:uuid;not null"`
	Name           string                `gorm:"column:name;not null"`
	NameEN         *string               `gorm:"column:name_en"`
	Description    *string               `gorm:"column:description"`
	DescriptionEN  *string               `gorm:"column:description_en"`
	PriceCents     int                   `gorm:"column:price_cents;not null"`
	OldPriceCents  *int                  `gorm:"column:old_price_cents"`
	Stock          int                   `gorm:"column:stock;not null;default:0"`
	SizeLiters     *float64              `gorm:"column:size_liters;type:numeric(6,2)"`
	Images         pq.StringArray        `gorm:"column:images;type:text[];not null;default:'{}'"`
	Specifications ProductSpecifications `gorm:"embedded"`
	Features       ProductFeatures       `gorm:"embedded"`
	IsActive       bool                  `gorm:"column:is_active;not null;default:true"`
	IsFeatured     bool                  `gorm:"column:is_featured;not null;default:false"`
	Category       *Category             `gorm:"foreignKey:CategoryID"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
