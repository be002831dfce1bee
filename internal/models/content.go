package models

import "time"

// IDKind names an identifier family issued by the code generator.
type IDKind string

const (
	KindClass      IDKind = "kelas"
	KindAssignment IDKind = "tugas"
	KindMaterial   IDKind = "materi"
	KindQuiz       IDKind = "quiz"
)

// ContentType distinguishes uploaded files from external links.
type ContentType string

const (
	ContentLink ContentType = "link"
	ContentFile ContentType = "file"
)

// Assignment is a task (tugas) posted to a class.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	Code        string     `db:"code" json:"kelas"`
	Owner       string     `db:"owner" json:"owner"`
	Title       string     `db:"title" json:"judul_tugas"`
	Description string     `db:"description" json:"deskripsi"`
	Deadline    *time.Time `db:"deadline" json:"deadline"`
	Link        *string    `db:"link" json:"link,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"dibuat"`
}

// AssignmentView joins an assignment with its class name.
type AssignmentView struct {
	Assignment
	ClassName *string `db:"class_name" json:"nama_kelas"`
}

// Material is learning material (materi) or a quiz attached to a class.
type Material struct {
	ID        string      `db:"id" json:"id"`
	Code      string      `db:"code" json:"kelas"`
	Owner     string      `db:"owner" json:"owner"`
	Title     string      `db:"title" json:"judul"`
	Type      ContentType `db:"type" json:"jenis"`
	Link      string      `db:"link" json:"data"`
	CreatedAt time.Time   `db:"created_at" json:"dibuat"`
}

// CreateAssignmentRequest is the assignment form.
type CreateAssignmentRequest struct {
	Code        string     `form:"kelas" json:"kelas" validate:"required"`
	Title       string     `form:"nama" json:"nama" validate:"required,max=200"`
	Description string     `form:"deskripsi" json:"deskripsi"`
	Deadline    *time.Time `form:"deadline" json:"deadline" time_format:"2006-01-02T15:04"`
	Link        string     `form:"content" json:"content" validate:"omitempty,url"`
}

// CreateMaterialRequest is the material and quiz form. Only links are accepted.
type CreateMaterialRequest struct {
	Code  string      `form:"kelas" json:"kelas" validate:"required"`
	Title string      `form:"nama" json:"nama" validate:"required,max=200"`
	Type  ContentType `form:"option" json:"option" validate:"required,eq=link"`
	Link  string      `form:"content" json:"content" validate:"required,url"`
}

// FeedItem is one entry of the merged class feed. Each source query selects
// the subset of columns relevant to its type.
type FeedItem struct {
	Type        string     `db:"type" json:"type"`
	ID          *string    `db:"id" json:"id,omitempty"`
	Code        string     `db:"code" json:"kelas"`
	ClassName   *string    `db:"class_name" json:"nama_kelas,omitempty"`
	Body        *string    `db:"body" json:"pengumuman,omitempty"`
	Title       *string    `db:"title" json:"judul,omitempty"`
	Description *string    `db:"description" json:"deskripsi,omitempty"`
	Kind        *string    `db:"kind" json:"jenis,omitempty"`
	Data        *string    `db:"data" json:"data,omitempty"`
	Deadline    *time.Time `db:"deadline" json:"deadline,omitempty"`
	Role        *string    `db:"role" json:"peran,omitempty"`
	Owner       string     `db:"owner" json:"owner"`
	OwnerName   *string    `db:"owner_name" json:"nama"`
	Profile     *string    `db:"profile" json:"profile"`
	CreatedAt   time.Time  `db:"created_at" json:"dibuat"`
	EditedAt    *time.Time `db:"edited_at" json:"diedit,omitempty"`
}

// Feed item types.
const (
	FeedAnnouncement = "pengumuman"
	FeedAssignment   = "tugas"
	FeedMaterial     = "materi"
)
