// CaterEase API | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Phone        string     `db:"phone"`
	Address      string     `db:"address"`
	City         string     `db:"city"`
	State        string     `db:"state"`
	Role         string     `db:"role"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsCaterer() bool {
	return u.Role == RoleCaterer
}

const (
	RoleUser    = "user"
	RoleCaterer = "caterer"
	RoleAdmin   = "admin"
)
