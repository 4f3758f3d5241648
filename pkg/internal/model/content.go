package model

import "time"

// StatusDraft 新建内容的默认状态.
const StatusDraft = "DRAFT"

// Song 歌曲，音频与封面存放在对象存储中.
type Song struct {
	ID                 uint      `gorm:"primaryKey;column:song_id"     json:"songId"`
	Title              string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	URL                string    `gorm:"size:1024;column:url"          json:"url"`
	CoverImage         string    `gorm:"size:1024"                     json:"coverImage"`
	SongKey            string    `gorm:"size:512;not null"             json:"songKey"`
	CoverImageKey      string    `gorm:"size:512"                      json:"coverImageKey"`
	Description        string    `gorm:"type:text"                     json:"description"`
	Duration           string    `gorm:"size:32"                       json:"duration"`
	Listens            int64     `gorm:"not null;default:0"            json:"listens"`
	Author             string    `gorm:"size:255"                      json:"author,omitempty"`
	IsAvailableForSale bool      `gorm:"not null"                     json:"isAvailableForSale"`
	Status             string    `gorm:"size:32;not null;default:DRAFT" json:"status"`
	Tags               []string  `gorm:"type:text;serializer:json"     json:"tags"`
	CreatedAt          time.Time `gorm:"index"                         json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}

// Video 视频，视频文件与缩略图存放在对象存储中.
type Video struct {
	ID                 uint      `gorm:"primaryKey;column:video_id"    json:"videoId"`
	Title              string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	URL                string    `gorm:"size:1024;column:url"          json:"url"`
	Thumbnail          string    `gorm:"size:1024"                     json:"thumbnail"`
	VideoKey           string    `gorm:"size:512;not null"             json:"videoKey"`
	ThumbnailKey       string    `gorm:"size:512"                      json:"thumbnailKey"`
	Description        string    `gorm:"type:text"                     json:"description"`
	Duration           string    `gorm:"size:32"                       json:"duration"`
	Views              int64     `gorm:"not null;default:0"            json:"views"`
	Author             string    `gorm:"size:255"                      json:"author,omitempty"`
	IsAvailableForSale bool      `gorm:"not null"                     json:"isAvailableForSale"`
	Status             string    `gorm:"size:32;not null;default:DRAFT" json:"status"`
	Tags               []string  `gorm:"type:text;serializer:json"     json:"tags"`
	CreatedAt          time.Time `gorm:"index"                         json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}
