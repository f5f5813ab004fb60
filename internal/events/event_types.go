package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEnquiryReceived      EventType = "enquiry_received"
	EventEnquiryStatusChanged EventType = "enquiry_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	EnquiryID string      `json:"enquiry_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// EnquiryReceivedPayload payload.
type EnquiryReceivedPayload struct {
	Reference  string `json:"reference"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	TotalItems int    `json:"total_items"`
}

// EnquiryStatusChangedPayload payload.
type EnquiryStatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
