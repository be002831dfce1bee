package models

import "time"

// Class is a classroom created by a teacher and identified by its code.
type Class struct {
	Code        string      `db:"code" json:"kelas_kode"`
	Owner       string      `db:"owner" json:"kelas_owner"`
	Name        string      `db:"name" json:"kelas_nama"`
	Description string      `db:"description" json:"kelas_deskripsi"`
	Advisors    AdvisorList `db:"advisors" json:"kelas_pembimbing"`
	Institution string      `db:"institution" json:"kelas_instansi"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}

// CreateClassRequest is the payload of class creation.
type CreateClassRequest struct {
	Code        string `form:"kode" json:"kode" validate:"required,len=6,alphanum,uppercase"`
	Name        string `form:"nama" json:"nama" validate:"required,max=120"`
	Description string `form:"desk" json:"desk" validate:"required"`
}

// EditClassRequest updates class metadata.
type EditClassRequest struct {
	Code        string `validate:"required"`
	Name        string `validate:"required,max=120"`
	Description string `validate:"required"`
}

// ClassAction selects the operation performed by the class action endpoint.
type ClassAction string

const (
	ClassActionEdit        ClassAction = "edit"
	ClassActionArchive     ClassAction = "arsip"
	ClassActionRestore     ClassAction = "pulihkan"
	ClassActionDeleteGuru  ClassAction = "delete_guru"
	ClassActionDeleteSiswa ClassAction = "delete_siswa"
)

// ClassActionRequest mirrors the class action query string.
type ClassActionRequest struct {
	Code        string      `form:"kode" validate:"required"`
	Name        string      `form:"nama"`
	Description string      `form:"desk"`
	Owner       string      `form:"owner"`
	Action      ClassAction `form:"action" validate:"required,oneof=edit arsip pulihkan delete_guru delete_siswa"`
}

// ClassActionResult is returned by the class action endpoint.
type ClassActionResult struct {
	Message string
	Data    map[string]interface{}
}

// ClassCreated is the data payload after class creation.
type ClassCreated struct {
	Code        string `json:"kode"`
	Owner       string `json:"owner"`
	Name        string `json:"nama"`
	Institution string `json:"instansi"`
}

// RosterFormat selects the class roster export encoding.
type RosterFormat string

const (
	RosterFormatCSV RosterFormat = "csv"
	RosterFormatPDF RosterFormat = "pdf"
)

// RosterExportRequest mirrors the roster export query string.
type RosterExportRequest struct {
	Code   string       `form:"kode" validate:"required"`
	Format RosterFormat `form:"format" validate:"omitempty,oneof=csv pdf"`
}
