// Package service 实现业务规则. 预期内的失败返回 *Error（携带状态码），其余错误向上包装返回.
package service

import (
	"time"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	"github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	"github.com/yeisme/hydrogen/pkg/queue"
)

// Deps 业务层依赖，由 app 启动时显式注入.
type Deps struct {
	Config *configs.AppConfig
	Repos  *repository.Repositories
	Media  *s3.Media
	KV     kv.KVStore
	Events *queue.Publisher
	Signer *auth.Signer
}

// Services 聚合所有业务服务.
type Services struct {
	Users       *UserService
	Roles       *RoleService
	Permissions *PermissionService
	Tags        *TagService
	Songs       *SongService
	Videos      *VideoService
	Logins      *LoginService
	Auth        *AuthService
	Resolver    *PermissionResolver
}

// New 构建全部服务.
func New(d Deps) *Services {
	resolver := NewPermissionResolver(d.Repos.Users, d.Repos.Roles, d.KV, DefaultPermissionCacheTTL)
	users := NewUserService(d.Repos, d.Config.Auth.HashCost)

	return &Services{
		Users:       users,
		Roles:       NewRoleService(d.Repos, resolver),
		Permissions: NewPermissionService(d.Repos),
		Tags:        NewTagService(d.Repos),
		Songs:       NewSongService(d.Repos.Songs, d.Media, d.Events),
		Videos:      NewVideoService(d.Repos.Videos, d.Media, d.Events),
		Logins:      NewLoginService(d.Repos.Logins),
		Auth:        NewAuthService(d.Repos, users, d.Signer, d.Events, d.Config.Auth),
		Resolver:    resolver,
	}
}

// clock 可替换的时间源.
type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now()
	}

	return c()
}
