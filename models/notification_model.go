package models

import "time"

type NotificationType string

const (
	NotificationMessage  NotificationType = "message"
	NotificationFollow   NotificationType = "follow"
	NotificationMeetup   NotificationType = "meetup"
	NotificationReminder NotificationType = "reminder"
	NotificationSystem   NotificationType = "system"
)

type Notification struct {
	ID        int64            `json:"id"`
	UserID    int64            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	RelatedID int64            `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}

type ReportStatus string

const (
	ReportPending   ReportStatus = "pending"
	ReportResolved  ReportStatus = "resolved"
	ReportDismissed ReportStatus = "dismissed"
)

// Report is the audit record emitted by reportUser. It is fire-and-forget
// from the reporter's perspective and is not retained in session state.
type Report struct {
	Reference   string       `json:"reference"`
	ReporterID  int64        `json:"reporter_id"`
	ReportedID  int64        `json:"reported_id"`
	Reason      string       `json:"reason"`
	Description string       `json:"description"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

type Message struct {
	ID         string    `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}
