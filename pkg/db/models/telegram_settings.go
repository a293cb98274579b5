package models

import "time"

// TelegramSettings is the single-row notification channel configuration.
// Environment variables seed it; admins edit it at runtime.
type TelegramSettings struct {
	ID                   int       `gorm:"column:id;primaryKey"`
	BotToken             string    `gorm:"column:bot_token;not null;default:''"`
	ChatID               string    `gorm:"column:chat_id;not null;default:''"`
	Enabled              bool      `gorm:"column:enabled;not null;default:false"`
	NotifyOrderSubmitted bool      `gorm:"column:notify_order_submitted;not null;default:true"`
	NotifyOrderUpdate    bool      `gorm:"column:notify_order_update;not null;default:true"`
	NotifyContactMessage bool      `gorm:"column:notify_contact_message;not null;default:true"`
	NotifyLowStock       bool      `gorm:"column:notify_low_stock;not null;default:true"`
	NotifyDailyReport    bool      `gorm:"column:notify_daily_report;not null;default:false"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the singular-feeling table name.
func (TelegramSettings) TableName() string {
	return "telegram_settings"
}

// SettingsRowID is the fixed primary key of the singleton row.
const SettingsRowID = 1
