package models

import "time"

// User is one row of the users table. Password always holds a hash.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(128);not null" json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserPatch carries the columns an update may overwrite. Nil fields keep their
// stored value.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
}
