package models

import "time"

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Link      *string   `db:"link" json:"link,omitempty"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationFeed is the latest notifications of a user with the unread total.
type NotificationFeed struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unread_count"`
}
