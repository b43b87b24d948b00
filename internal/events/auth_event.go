package events

import "time"

type AuthEventType string

const (
	EventLogin       AuthEventType = "login"
	EventLoginFailed AuthEventType = "login_failed"
	EventSignup      AuthEventType = "signup"
	EventLogout      AuthEventType = "logout"
)

// AuthEvent is one entry of the sign-in audit stream.
type AuthEvent struct {
	Type      AuthEventType
	UserID    string
	IP        string
	Client    string
	Timestamp time.Time
}

func (e *AuthEvent) fields() map[string]interface{} {
	fields := map[string]interface{}{
		"type":      string(e.Type),
		"timestamp": e.Timestamp.UnixMilli(),
	}

	if e.UserID != "" {
		fields["user_id"] = e.UserID
	}
	if e.IP != "" {
		fields["ip"] = e.IP
	}
	if e.Client != "" {
		fields["client"] = e.Client
	}

	return fields
}
