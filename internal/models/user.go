package models

import "time"

// User represents a registered account. Password only ever holds a digest.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // No json tag for security
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserView is the public projection of a User.
type UserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// View projects the user without its password digest.
func (u *User) View() UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email}
}
