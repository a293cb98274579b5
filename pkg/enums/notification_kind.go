package enums

import "fmt"

// NotificationKind identifies the Telegram broadcast categories the back
// office can toggle individually.
type NotificationKind string

const (
	NotificationKindOrderSubmitted NotificationKind = "order_submitted"
	NotificationKindOrderUpdate    NotificationKind = "order_update"
	NotificationKindContactMessage NotificationKind = "contact_message"
	NotificationKindLowStock       NotificationKind = "low_stock"
	NotificationKindDailyReport    NotificationKind = "daily_report"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindOrderSubmitted,
	NotificationKindOrderUpdate,
	NotificationKindContactMessage,
	NotificationKindLowStock,
	NotificationKindDailyReport,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
