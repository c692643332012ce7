package entity

import "time"

type NotificationType string

const (
	NotifEventDecided        NotificationType = "EVENT_DECIDED"
	NotifNewRegistration     NotificationType = "NEW_REGISTRATION"
	NotifRegistrationDecided NotificationType = "REGISTRATION_DECIDED"
	NotifAttendanceConfirmed NotificationType = "ATTENDANCE_CONFIRMED"
	NotifNewPost             NotificationType = "NEW_POST"
	NotifPostCommented       NotificationType = "POST_COMMENTED"
	NotifPostLiked           NotificationType = "POST_LIKED"
)

// Notification is an in-app alert. Content is pre-rendered; only IsRead
// changes after creation.
type Notification struct {
	ID          string
	RecipientID string
	Type        NotificationType
	Content     string
	Link        string
	ActorID     string
	ActorName   string
	TargetID    string
	IsRead      bool
	CreatedAt   time.Time
}
