package domain

// NotificationCategory groups outbound notifications for the delivery layer.
type NotificationCategory string

const (
	NotifyTransaction NotificationCategory = "TRANSACTION"
	NotifyCorrection  NotificationCategory = "CORRECTION"
	NotifyRollover    NotificationCategory = "ROLLOVER"
)

// Notification is the outbound request handed to the external delivery
// collaborator. Delivery is best-effort; a failed notification never fails
// the ledger operation that produced it.
type Notification struct {
	UserID   string               `json:"userID"`
	Title    string               `json:"title"`
	Message  string               `json:"message"`
	Category NotificationCategory `json:"category"`
}
