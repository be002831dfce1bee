package models

import "time"

// UserRole is the account role fixed at registration.
type UserRole string

const (
	RoleGuru  UserRole = "GURU"
	RoleSiswa UserRole = "SISWA"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleGuru || r == RoleSiswa
}

// User represents an application user stored in the users table.
type User struct {
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"nama"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"peran"`
	Level        string    `db:"level" json:"jenjang"`
	Institution  string    `db:"institution" json:"instansi"`
	Profile      *string   `db:"profile" json:"profile,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity returns the authenticated identity carried by this user.
func (u *User) Identity() Identity {
	return Identity{Email: u.Email, Name: u.Name, Role: u.Role, Institution: u.Institution}
}
