package model

import "time"

// Contact message statuses. Any status may transition to any other.
const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
	StatusReplied  = "replied"
)

// ValidStatuses lists the allowed contact message statuses
var ValidStatuses = []string{StatusUnread, StatusRead, StatusArchived, StatusReplied}

// IsValidStatus reports whether s is one of the four contact statuses
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ContactMessage represents a persisted contact-form submission
type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// ContactStats holds aggregate counts over all contact messages
type ContactStats struct {
	Total    int64            `json:"total"`
	Today    int64            `json:"today"`
	ByStatus map[string]int64 `json:"byStatus"`
}
