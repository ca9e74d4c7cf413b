package models

import "time"

// Message is a broadcast shown on the customer message board.
type Message struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
