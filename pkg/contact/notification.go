package contact

import (
	"errors"
	"time"
)

// NotificationType selects how a notification is styled.
type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// NotificationLifetime is how long a notification stays up unless dismissed.
const NotificationLifetime = 5 * time.Second

const (
	msgReceived = "Thank you for your message! We'll get back to you soon."
	msgRequired = "Please fill in all required fields."
	msgEmail    = "Please enter a valid email address."
	msgInvalid  = "Please check the highlighted fields."
)

// Notification is the toast shown after a submission. A newer notification
// replaces the one on screen.
type Notification struct {
	Type           NotificationType `json:"type"`
	Message        string           `json:"message"`
	DismissAfterMs int64            `json:"dismiss_after_ms"`
}

func newNotification(kind NotificationType, msg string) Notification {
	return Notification{Type: kind, Message: msg, DismissAfterMs: NotificationLifetime.Milliseconds()}
}

// Received is the notification for an accepted submission.
func Received() Notification {
	return newNotification(NotifySuccess, msgReceived)
}

// NotificationFor picks the notification for a failed validation. Missing
// required fields take precedence over a malformed address.
func NotificationFor(err error) Notification {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return newNotification(NotifyError, msgInvalid)
	}

	email := false
	for _, f := range verr.Fields {
		switch {
		case f.Message == msgFieldRequired:
			return newNotification(NotifyError, msgRequired)
		case f.Field == "email":
			email = true
		}
	}
	if email {
		return newNotification(NotifyError, msgEmail)
	}
	return newNotification(NotifyError, msgInvalid)
}
