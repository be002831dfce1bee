package models

import "time"

// Announcement represents a persisted announcement row.
type Announcement struct {
	ID        string     `db:"id" json:"id"`
	Code      string     `db:"code" json:"kelas"`
	Body      string     `db:"body" json:"pengumuman"`
	Owner     string     `db:"owner" json:"owner"`
	Role      UserRole   `db:"role" json:"peran"`
	CreatedAt time.Time  `db:"created_at" json:"dibuat"`
	EditedAt  *time.Time `db:"edited_at" json:"diedit"`
}

// AnnouncementView joins an announcement with its class and author.
type AnnouncementView struct {
	Announcement
	ClassName *string `db:"class_name" json:"nama_kelas"`
	OwnerName *string `db:"owner_name" json:"nama"`
	Profile   *string `db:"profile" json:"profile"`
}

// CreateAnnouncementRequest is the announcement form.
type CreateAnnouncementRequest struct {
	Code string `form:"kode" json:"kode" validate:"required"`
	Body string `form:"pengumuman" json:"pengumuman" validate:"required,max=5000"`
}
