package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sipeslibya/storefront-backend/pkg/db/models"
	"github.com/sipeslibya/storefront-backend/pkg/enums"
)

// The storefront runs in Arabic only, so the broadcast texts are fixed
// Arabic strings rather than translated resources.

var statusEmoji = map[enums.OrderStatus]string{
	enums.OrderStatusPending:    "⏳",
	enums.OrderStatusConfirmed:  "✅",
	enums.OrderStatusProcessing: "🔄",
	enums.OrderStatusShipped:    "🚚",
	enums.OrderStatusDelivered:  "🎉",
	enums.OrderStatusCancelled:  "❌",
}

var statusText = map[enums.OrderStatus]string{
	enums.OrderStatusPending:    "في الانتظار",
	enums.OrderStatusConfirmed:  "مؤكد",
	enums.OrderStatusProcessing: "قيد المعالجة",
	enums.OrderStatusShipped:    "تم الشحن",
	enums.OrderStatusDelivered:  "تم التسليم",
	enums.OrderStatusCancelled:  "ملغي",
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// LowStockThreshold is the stock level at or under which a product counts as
// running out.
const LowStockThreshold = 10

// ReportStats carries the aggregate numbers rendered in the daily report.
type ReportStats struct {
	TotalProducts       int64
	TotalOrders         int64
	TotalCustomers      int64
	TotalRevenueCents   int64
	PendingOrders       int64
	LowStockProducts    int64
	MonthlyRevenueCents int64
	WeeklyOrders        int64
}

// Formatter renders Telegram-HTML broadcast messages. The clock is injected
// so message timestamps are reproducible in tests.
type Formatter struct {
	clock func() time.Time
}

// NewFormatter builds a formatter; a nil clock falls back to time.Now.
func NewFormatter(clock func() time.Time) *Formatter {
	if clock == nil {
		clock = time.Now
	}
	return &Formatter{clock: clock}
}

// FormatOrder renders the storefront checkout broadcast. Optional contact
// fields are omitted entirely when absent.
func (f *Formatter) FormatOrder(order *models.Order) string {
	var b strings.Builder
	b.WriteString("🛒 <b>طلب جديد من السلة</b>\n\n")
	fmt.Fprintf(&b, "👤 <b>الاسم:</b> %s\n", escape(order.CustomerName))
	fmt.Fprintf(&b, "📞 <b>رقم الهاتف:</b> %s\n", escape(order.CustomerPhone))
	fmt.Fprintf(&b, "📍 <b>العنوان:</b> %s\n", escape(order.ShippingAddress))
	if order.CustomerEmail != nil && *order.CustomerEmail != "" {
		fmt.Fprintf(&b, "📧 <b>البريد الإلكتروني:</b> %s\n", escape(*order.CustomerEmail))
	}
	b.WriteString("\n🛍️ <b>المنتجات:</b>\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s × %d = %s د.ل\n", escape(item.Name), item.Quantity, dinars(item.LineTotalCents))
	}
	fmt.Fprintf(&b, "\n💰 <b>المجموع الكلي:</b> %s د.ل\n", dinars(order.TotalCents))
	if order.Notes != nil && *order.Notes != "" {
		fmt.Fprintf(&b, "\n💬 <b>ملاحظات:</b>\n%s\n", escape(*order.Notes))
	}
	fmt.Fprintf(&b, "\n⏰ <b>وقت الطلب:</b> %s", f.timestamp())
	return b.String()
}

// FormatNewOrder renders the compact staff-facing order summary used when an
// existing order is re-broadcast.
func (f *Formatter) FormatNewOrder(order *models.Order) string {
	var b strings.Builder
	b.WriteString("🆕 <b>طلب جديد - سايبس ليبيا</b>\n\n")
	fmt.Fprintf(&b, "📋 <b>رقم الطلب:</b> #%s\n", order.ID)
	fmt.Fprintf(&b, "👤 <b>العميل:</b> %s\n", escape(order.CustomerName))
	fmt.Fprintf(&b, "📞 <b>الهاتف:</b> %s\n", escape(order.CustomerPhone))
	fmt.Fprintf(&b, "💰 <b>المبلغ الإجمالي:</b> %s د.ل\n", dinars(order.TotalCents))
	b.WriteString("\n📦 <b>المنتجات:</b>\n")
	if len(order.Items) == 0 {
		b.WriteString("لا توجد منتجات\n")
	}
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %s - الكمية: %d\n", escape(item.Name), item.Quantity)
	}
	fmt.Fprintf(&b, "\n📍 <b>عنوان التسليم:</b>\n%s\n", escape(order.ShippingAddress))
	fmt.Fprintf(&b, "\n⏰ <b>وقت الطلب:</b> %s", formatTime(order.CreatedAt))
	return b.String()
}

// FormatStatusChange renders the order status update broadcast.
func (f *Formatter) FormatStatusChange(order *models.Order) string {
	var b strings.Builder
	b.WriteString("📝 <b>تحديث حالة الطلب - سايبس ليبيا</b>\n\n")
	fmt.Fprintf(&b, "📋 <b>رقم الطلب:</b> #%s\n", order.ID)
	fmt.Fprintf(&b, "%s <b>الحالة الجديدة:</b> %s\n", statusEmoji[order.Status], statusLabel(order.Status))
	fmt.Fprintf(&b, "\n👤 <b>العميل:</b> %s\n", escape(order.CustomerName))
	fmt.Fprintf(&b, "💰 <b>المبلغ الإجمالي:</b> %s د.ل\n", dinars(order.TotalCents))
	fmt.Fprintf(&b, "\n⏰ <b>وقت التحديث:</b> %s", f.timestamp())
	return b.String()
}

// FormatContactMessage renders the contact-form relay.
func (f *Formatter) FormatContactMessage(msg *models.ContactMessage) string {
	var b strings.Builder
	b.WriteString("✉️ <b>رسالة جديدة - سايبس ليبيا</b>\n\n")
	fmt.Fprintf(&b, "👤 <b>الاسم:</b> %s\n", escape(msg.Name))
	if msg.Phone != nil && *msg.Phone != "" {
		fmt.Fprintf(&b, "📞 <b>رقم الهاتف:</b> %s\n", escape(*msg.Phone))
	}
	if msg.Email != nil && *msg.Email != "" {
		fmt.Fprintf(&b, "📧 <b>البريد الإلكتروني:</b> %s\n", escape(*msg.Email))
	}
	if msg.Subject != nil && *msg.Subject != "" {
		fmt.Fprintf(&b, "📌 <b>الموضوع:</b> %s\n", escape(*msg.Subject))
	}
	fmt.Fprintf(&b, "\n💬 <b>الرسالة:</b>\n%s\n", escape(msg.Body))
	fmt.Fprintf(&b, "\n⏰ <b>وقت الإرسال:</b> %s", f.timestamp())
	return b.String()
}

// FormatLowStock renders the restock warning for the provided products.
func (f *Formatter) FormatLowStock(products []models.Product) string {
	var b strings.Builder
	b.WriteString("⚠️ <b>تحذير: مخزون منخفض - سايبس ليبيا</b>\n\n")
	b.WriteString("المنتجات التالية تحتاج إلى إعادة تخزين:\n\n")
	blocks := make([]string, 0, len(products))
	for _, product := range products {
		blocks = append(blocks, fmt.Sprintf("📦 <b>%s</b>\n   الكمية المتبقية: %d وحدة\n   الحد الأدنى: %d وحدة", escape(product.Name), product.Stock, LowStockThreshold))
	}
	b.WriteString(strings.Join(blocks, "\n\n"))
	fmt.Fprintf(&b, "\n\n⏰ <b>وقت التحذير:</b> %s", f.timestamp())
	return b.String()
}

// FormatDailyReport renders the aggregate daily statistics broadcast.
func (f *Formatter) FormatDailyReport(stats ReportStats) string {
	var b strings.Builder
	b.WriteString("📊 <b>التقرير اليومي - سايبس ليبيا</b>\n\n")
	fmt.Fprintf(&b, "📅 <b>التاريخ:</b> %s\n", f.clock().Format("02/01/2006"))
	b.WriteString("\n📈 <b>الإحصائيات:</b>\n")
	fmt.Fprintf(&b, "• إجمالي المنتجات: %d\n", stats.TotalProducts)
	fmt.Fprintf(&b, "• إجمالي الطلبات: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "• إجمالي العملاء: %d\n", stats.TotalCustomers)
	fmt.Fprintf(&b, "• إجمالي الإيرادات: %s د.ل\n", dinars64(stats.TotalRevenueCents))
	fmt.Fprintf(&b, "• الطلبات المعلقة: %d\n", stats.PendingOrders)
	fmt.Fprintf(&b, "• منتجات المخزون المنخفض: %d\n", stats.LowStockProducts)
	fmt.Fprintf(&b, "\n💰 <b>إيرادات الشهر:</b> %s د.ل\n", dinars64(stats.MonthlyRevenueCents))
	fmt.Fprintf(&b, "📦 <b>طلبات الأسبوع:</b> %d\n", stats.WeeklyOrders)
	fmt.Fprintf(&b, "\n⏰ <b>وقت التقرير:</b> %s", f.timestamp())
	return b.String()
}

// FormatConnectionTest renders the fixed settings-check message.
func (f *Formatter) FormatConnectionTest() string {
	return "✅ تم ربط Telegram بنجاح مع سايبس ليبيا!\n\nيمكنك الآن تلقي الإشعارات والإحصائيات."
}

func (f *Formatter) timestamp() string {
	return formatTime(f.clock())
}

func formatTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func statusLabel(status enums.OrderStatus) string {
	if label, ok := statusText[status]; ok {
		return label
	}
	return status.String()
}

func escape(value string) string {
	return htmlEscaper.Replace(value)
}

func dinars(cents int) string {
	return dinars64(int64(cents))
}

func dinars64(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).String()
}
