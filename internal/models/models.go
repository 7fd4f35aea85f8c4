package models

import "time"

// AdminUser is an operator account on one kiosk. The PIN pair is the
// local recovery credential; master-password login carries no per-user
// secret (it is derived from the base secret and the kiosk MAC).
type AdminUser struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:64;not null"`
	Role        string `gorm:"size:32;default:operator"`
	PINHash     string `gorm:"size:64"`
	PINSalt     string `gorm:"size:32"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SecurityEvent is the payload shipped to the fleet monitoring topic.
type SecurityEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Username  string    `json:"username,omitempty"`
	DeviceID  string    `json:"device_id"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Security event types.
const (
	EventLoginSuccess  = "login_success"
	EventLoginFailed   = "login_failed"
	EventLockout       = "lockout"
	EventPINChanged    = "pin_changed"
	EventSupportIssued = "support_password_issued"
)
