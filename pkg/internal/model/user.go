package model

import "time"

// User 用户. Password 为 bcrypt 哈希，不参与序列化.
type User struct {
	ID           uint      `gorm:"primaryKey;column:user_id"      json:"userId"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"  json:"email"`
	Password     string    `gorm:"size:255;not null"              json:"-"`
	FullName     string    `gorm:"size:255;not null"              json:"fullName"`
	DOB          string    `gorm:"size:32;column:dob"             json:"dob,omitempty"`
	Gender       string    `gorm:"size:32"                        json:"gender,omitempty"`
	City         string    `gorm:"size:128"                       json:"city,omitempty"`
	State        string    `gorm:"size:2"                         json:"state,omitempty"`
	ZipCode      string    `gorm:"size:16"                        json:"zipCode,omitempty"`
	IsAdmin      bool      `gorm:"not null;default:false"         json:"isAdmin"`
	Role         string    `gorm:"size:128;index"                 json:"role,omitempty"`
	LastLoggedIn time.Time `json:"lastLoggedIn"`
	CreatedAt    time.Time `gorm:"index"                          json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}
