package models

// User defines an administrative account stored in the 'users' table
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password_hash"` // bcrypt hash
}
