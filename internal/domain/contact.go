package domain

import "time"

// ContactStatus tracks where an inbox message sits in the admin workflow.
type ContactStatus string

const (
	ContactPending  ContactStatus = "pending"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message"`
	Status    ContactStatus `json:"status"`
	IP        string        `json:"ip,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ContactStats is the per-status message count summary shown in the admin inbox.
type ContactStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Read     int `json:"read"`
	Replied  int `json:"replied"`
	Archived int `json:"archived"`
}
