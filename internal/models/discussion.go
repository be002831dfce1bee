package models

import "time"

// DiscussionMessage is one forum message posted in a class.
type DiscussionMessage struct {
	ID        string    `db:"id" json:"-"`
	Code      string    `db:"code" json:"id"`
	Email     string    `db:"email" json:"owner"`
	Message   string    `db:"message" json:"pesan"`
	CreatedAt time.Time `db:"created_at" json:"tanggal"`
}

// DiscussionView joins a message with its author.
type DiscussionView struct {
	DiscussionMessage
	Name    *string   `db:"name" json:"nama"`
	Profile *string   `db:"profile" json:"profile"`
	Role    *UserRole `db:"role" json:"peran"`
}

// SendMessageRequest is the discussion send form.
type SendMessageRequest struct {
	Code    string `form:"kode" validate:"required"`
	Message string `form:"pesan" validate:"required,max=2000"`
}
