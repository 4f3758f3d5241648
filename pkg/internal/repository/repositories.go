package repository

import "gorm.io/gorm"

// Repositories 聚合全部仓库，由 app 启动时创建后注入服务层.
type Repositories struct {
	Users       *UserRepository
	Roles       *RoleRepository
	Permissions *PermissionRepository
	Tags        *TagRepository
	Songs       *SongRepository
	Videos      *VideoRepository
	Logins      *LoginRepository
	Codes       *CodeRepository
}

// New 基于同一个连接创建全部仓库.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Roles:       NewRoleRepository(db),
		Permissions: NewPermissionRepository(db),
		Tags:        NewTagRepository(db),
		Songs:       NewSongRepository(db),
		Videos:      NewVideoRepository(db),
		Logins:      NewLoginRepository(db),
		Codes:       NewCodeRepository(db),
	}
}
