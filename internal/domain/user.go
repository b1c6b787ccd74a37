package domain

import "time"

// User is an account. Name is the display name shown to collaborators.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Name      string    `gorm:"type:varchar(191)"`
	Password  string    `gorm:"type:text;not null"` // bcrypt hash
	Email     string    `gorm:"type:varchar(191);index:idx_email"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// DisplayName falls back to the username, then to "Anonymous".
func (u *User) DisplayName() string {
	if u == nil {
		return AnonymousName
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return AnonymousName
}

const AnonymousName = "Anonymous"
