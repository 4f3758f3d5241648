package model

import "time"

// Login 登录记录，只追加.
type Login struct {
	ID           uint      `gorm:"primaryKey;column:login_id" json:"loginId"`
	UserID       uint      `gorm:"index;not null"             json:"userId"`
	LastLoggedIn time.Time `gorm:"index"                      json:"lastLoggedIn"`
	IPAddress    string    `gorm:"size:64"                    json:"ipAddress"`
	UserAgent    string    `gorm:"size:512"                   json:"userAgent"`
}

// Code 密码重置验证码，每个用户最多一条.
type Code struct {
	ID        uint      `gorm:"primaryKey;column:code_id" json:"codeId"`
	UserID    uint      `gorm:"uniqueIndex;not null"      json:"userId"`
	Email     string    `gorm:"size:255;index;not null"   json:"email"`
	OTPCode   string    `gorm:"size:32;not null;column:otp_code" json:"otpCode"`
	CreatedAt time.Time `gorm:"index"                     json:"createdAt"`
}

// Expired 判断验证码在 now 时刻是否已过期.
func (c *Code) Expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(c.CreatedAt) >= ttl
}
