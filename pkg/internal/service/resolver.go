package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/storage/kv"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

// DefaultPermissionCacheTTL 角色权限缓存时长.
const DefaultPermissionCacheTTL = time.Minute

const permissionCachePrefix = "perm:role:"

// ErrUserLookup 令牌中的用户不存在.
var ErrUserLookup = Forbidden("User with email does not exist.")

// PermissionResolver 根据用户角色解析权限集合. 角色权限缓存在 KV 中，并发请求经 singleflight 合并.
type PermissionResolver struct {
	users *repository.UserRepository
	roles *repository.RoleRepository
	kv    kv.KVStore
	ttl   time.Duration
	group singleflight.Group
}

// NewPermissionResolver 创建权限解析器，store 为 nil 时不缓存.
func NewPermissionResolver(users *repository.UserRepository, roles *repository.RoleRepository, store kv.KVStore, ttl time.Duration) *PermissionResolver {
	return &PermissionResolver{users: users, roles: roles, kv: store, ttl: ttl}
}

// Resolve 返回邮箱对应用户的权限集合.
func (r *PermissionResolver) Resolve(ctx context.Context, email string) ([]string, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserLookup
	}

	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return r.RolePermissions(ctx, user.Role)
}

// RolePermissions 返回角色值对应的权限列表，角色不存在时为空.
func (r *PermissionResolver) RolePermissions(ctx context.Context, role string) ([]string, error) {
	if role == "" {
		return nil, nil
	}

	if perms, ok := r.cached(ctx, role); ok {
		return perms, nil
	}

	v, err, _ := r.group.Do(role, func() (any, error) {
		found, err := r.roles.FindByValue(ctx, role)
		if errors.Is(err, repository.ErrNotFound) {
			return []string{}, nil
		}

		if err != nil {
			return nil, fmt.Errorf("find role: %w", err)
		}

		r.store(ctx, role, found.Permissions)

		return found.Permissions, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]string), nil
}

// Invalidate 删除角色的权限缓存.
func (r *PermissionResolver) Invalidate(ctx context.Context, roles ...string) {
	if r == nil || r.kv == nil {
		return
	}

	for _, role := range roles {
		if role == "" {
			continue
		}

		if err := r.kv.Delete(ctx, permissionCachePrefix+role); err != nil {
			nlog.Ctx(ctx).Warn().Err(err).Str("role", role).Msg("invalidate permission cache failed")
		}
	}
}

func (r *PermissionResolver) cached(ctx context.Context, role string) ([]string, bool) {
	if r.kv == nil {
		return nil, false
	}

	b, err := r.kv.Get(ctx, permissionCachePrefix+role)
	if err != nil {
		return nil, false
	}

	var perms []string
	if err := sonic.Unmarshal(b, &perms); err != nil {
		return nil, false
	}

	return perms, true
}

func (r *PermissionResolver) store(ctx context.Context, role string, perms []string) {
	if r.kv == nil {
		return
	}

	if perms == nil {
		perms = []string{}
	}

	b, err := sonic.Marshal(perms)
	if err != nil {
		return
	}

	if err := r.kv.Set(ctx, permissionCachePrefix+role, b, r.ttl); err != nil {
		nlog.Ctx(ctx).Warn().Err(err).Str("role", role).Msg("cache role permissions failed")
	}
}

// HasAll 判断 granted 是否包含 required 的全部权限.
func HasAll(granted []string, required ...string) bool {
	set := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		set[p] = struct{}{}
	}

	for _, p := range required {
		if _, ok := set[p]; !ok {
			return false
		}
	}

	return true
}
