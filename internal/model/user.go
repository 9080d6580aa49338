package model

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	FullName     string    `gorm:"size:128" json:"full_name"`
	FarmLocation string    `gorm:"size:128" json:"farm_location"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
