package models

import "time"

// Membership is one user's relationship to one class. Class fields are
// denormalised snapshots kept in sync by class edits and role transitions.
type Membership struct {
	Code        string      `db:"code" json:"anggota_kode"`
	Email       string      `db:"email" json:"anggota_owner"`
	ClassName   string      `db:"class_name" json:"anggota_kelas"`
	Description string      `db:"description" json:"anggota_deskripsi"`
	MemberName  string      `db:"member_name" json:"anggota_nama"`
	Advisors    AdvisorList `db:"advisors" json:"anggota_pembimbing"`
	Institution string      `db:"institution" json:"anggota_instansi"`
	Role        UserRole    `db:"role" json:"anggota_status"`
	Archived    bool        `db:"archived" json:"anggota_arsip"`
	JoinedAt    time.Time   `db:"joined_at" json:"joined_at"`
}

// MembershipSnapshot carries the class fields copied into a new membership.
type MembershipSnapshot struct {
	ClassName   string
	Description string
	MemberName  string
	Advisors    AdvisorList
	Institution string
}

// SnapshotOf builds the membership snapshot of class c for a member named memberName.
func SnapshotOf(c *Class, memberName string) MembershipSnapshot {
	return MembershipSnapshot{
		ClassName:   c.Name,
		Description: c.Description,
		MemberName:  memberName,
		Advisors:    c.Advisors,
		Institution: c.Institution,
	}
}

// ClassSummary is one entry of a member's class list with the class headcount.
type ClassSummary struct {
	ClassName string `db:"class_name" json:"kelas"`
	Code      string `db:"code" json:"kode"`
	Total     int    `db:"-" json:"total"`
}

// CodeCount is one row of the per-class member count query.
type CodeCount struct {
	Code  string `db:"code"`
	Total int    `db:"total"`
}

// RoleAction selects a role transition.
type RoleAction string

const (
	RoleActionUpgrade   RoleAction = "upgrade"
	RoleActionDowngrade RoleAction = "downgrade"
	RoleActionDelete    RoleAction = "delete"
)

// RoleChangeRequest mirrors the member status query string.
type RoleChangeRequest struct {
	Code   string     `form:"kode" validate:"required"`
	Email  string     `form:"owner" validate:"required,email"`
	Action RoleAction `form:"action" validate:"required,oneof=upgrade downgrade delete"`
}

// InviteRequest asks for an invitation email to be sent.
type InviteRequest struct {
	Email string `form:"email" validate:"required,email"`
	Code  string `form:"kode" validate:"required"`
}

// JoinResult is the data payload of a successful join by code.
type JoinResult struct {
	Code        string `json:"kode"`
	ClassName   string `json:"kelas_nama"`
	Institution string `json:"instansi"`
}

// AlertType classifies a flash alert.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertInfo    AlertType = "info"
)

// Alert is the flash message shown by the frontend after a redirect.
type Alert struct {
	Type    AlertType `json:"type"`
	Icon    string    `json:"icon"`
	Message string    `json:"message"`
	Email   string    `json:"email,omitempty"`
}

// JoinOutcome tells the invite-link handler where to send the browser.
type JoinOutcome struct {
	Redirect string
	Alert    Alert
}
