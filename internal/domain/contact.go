package domain

import "time"

// ContactMessage is a help-center inquiry kept in the local outbox.
type ContactMessage struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Topic     string    `json:"topic"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
