package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sipeslibya/storefront-backend/pkg/enums"
)

// Order is a submitted storefront order. Contact fields are snapshotted at
// submission time; later customer edits never rewrite history.
type Order struct {
	ID                       uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID               uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	CustomerName             string              `gorm:"column:customer_name;not null"`
	CustomerPhone            string              `gorm:"column:customer_phone;not null"`
	CustomerEmail            *string             `gorm:"column:customer_email"`
	ShippingAddress          string              `gorm:"column:shipping_address;not null"`
	Notes                    *string             `gorm:"column:notes"`
	Status                   enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus            enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'"`
	PaymentMethod            enums.PaymentMethod `gorm:"column:payment_method;not null;default:'cash'"`
	TotalCents               int                 `gorm:"column:total_cents;not null"`
	TelegramNotificationSent bool                `gorm:"column:telegram_notification_sent;not null;default:false"`
	Items                    []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is a priced line snapshot; it does not follow later product edits.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name           string    `gorm:"column:name;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	Quantity       int       `gorm:"column:qty;not null"`
	LineTotalCents int       `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
