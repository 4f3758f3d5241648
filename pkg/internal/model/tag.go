package model

import "time"

// Tag 内容标签.
type Tag struct {
	ID          uint      `gorm:"primaryKey;column:tag_id"      json:"tagId"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Value       string    `gorm:"size:128"                      json:"value"`
	Description string    `gorm:"type:text"                     json:"description"`
	CreatedAt   time.Time `gorm:"index"                         json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}
