package model

import "time"

// Role 角色，Permissions 为权限 value 列表，按写入顺序保存.
type Role struct {
	ID          uint      `gorm:"primaryKey;column:role_id"       json:"roleId"`
	Name        string    `gorm:"size:128;uniqueIndex;not null"   json:"name"`
	Value       string    `gorm:"size:128;uniqueIndex;not null"   json:"value"`
	Description string    `gorm:"type:text"                       json:"description"`
	Permissions []string  `gorm:"type:text;serializer:json"       json:"permissions"`
	CreatedAt   time.Time `gorm:"index"                           json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}

// Permission 权限.
type Permission struct {
	ID          uint      `gorm:"primaryKey;column:permission_id" json:"permissionId"`
	Name        string    `gorm:"size:128;uniqueIndex;not null"   json:"name"`
	Value       string    `gorm:"size:128;index;not null"         json:"value"`
	Description string    `gorm:"type:text"                       json:"description"`
	CreatedAt   time.Time `gorm:"index"                           json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Paging `gorm:"-"`
}

// 内置权限码.
const (
	PermSystemAdmin     = "SYSTEM_ADMIN"
	PermManageUsers     = "MANAGE_USERS"
	PermProfileView     = "PROFILE_VIEW"
	PermProfileCreate   = "PROFILE_CREATE"
	PermProfileEdit     = "PROFILE_EDIT"
	PermProfileDelete   = "PROFILE_DELETE"
	PermTagView         = "TAG_VIEW"
	PermTagCreate       = "TAG_CREATE"
	PermTagUpdate       = "TAG_UPDATE"
	PermTagDelete       = "TAG_DELETE"
	PermContentView     = "CONTENT_VIEW"
	PermContentCreate   = "CONTENT_CREATE"
	PermContentUpdate   = "CONTENT_UPDATE"
	PermContentInteract = "CONTENT_INTERACT"
	PermContentDelete   = "CONTENT_DELETE"
)

// BuiltinPermissions 种子数据使用的全部权限码.
var BuiltinPermissions = []string{
	PermSystemAdmin, PermManageUsers,
	PermProfileView, PermProfileCreate, PermProfileEdit, PermProfileDelete,
	PermTagView, PermTagCreate, PermTagUpdate, PermTagDelete,
	PermContentView, PermContentCreate, PermContentUpdate, PermContentInteract, PermContentDelete,
}
