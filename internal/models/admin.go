package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Admin is a placement-cell account.
type Admin struct {
	ID           string    `gorm:"column:id;size:36;primaryKey" json:"id"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:text" json:"-"`
	Name         string    `gorm:"column:name;type:text" json:"name"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Admin) TableName() string { return "admins" }
