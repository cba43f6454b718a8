package models

// ReminderPayload is the asynq task body for a scheduled booking reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	AccountID string `json:"accountId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireAt    string `json:"fireAt"`
}
