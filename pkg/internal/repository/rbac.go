package repository

import (
	"context"
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// RoleRepository 角色数据访问.
type RoleRepository struct {
	*Store[model.Role, *model.Role]
}

// NewRoleRepository 创建角色仓库.
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{Store: NewStore[model.Role](db)}
}

// FindByValue 按角色 value 查找.
func (r *RoleRepository) FindByValue(ctx context.Context, value string) (*model.Role, error) {
	return r.FindOne(ctx, "value = ?", value)
}

// NameTaken 判断角色名是否被除 exceptID 以外的角色占用.
func (r *RoleRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "name = ? AND role_id <> ?", name, exceptID)
}

// ValueTaken 判断角色 value 是否被除 exceptID 以外的角色占用.
func (r *RoleRepository) ValueTaken(ctx context.Context, value string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "value = ? AND role_id <> ?", value, exceptID)
}

// Referencing 返回引用了权限 value 的角色.
func (r *RoleRepository) Referencing(ctx context.Context, permission string) ([]model.Role, error) {
	var candidates []model.Role

	// permissions 以 JSON 文本保存，先粗筛再精确比对
	if err := r.DB(ctx).Where("permissions LIKE ?", `%"`+permission+`"%`).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}

	out := candidates[:0]
	for _, role := range candidates {
		if slices.Contains(role.Permissions, permission) {
			out = append(out, role)
		}
	}

	return out, nil
}

// PermissionRepository 权限数据访问.
type PermissionRepository struct {
	*Store[model.Permission, *model.Permission]
}

// NewPermissionRepository 创建权限仓库.
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{Store: NewStore[model.Permission](db)}
}

// NameTaken 判断权限名是否被除 exceptID 以外的权限占用.
func (r *PermissionRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "name = ? AND permission_id <> ?", name, exceptID)
}

// Missing 返回 values 中不存在的权限 value，保持输入顺序并去重.
func (r *PermissionRepository) Missing(ctx context.Context, values []string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	var found []string
	if err := r.DB(ctx).Model(&model.Permission{}).Where("value IN ?", values).Pluck("value", &found).Error; err != nil {
		return nil, fmt.Errorf("find permissions: %w", err)
	}

	var missing []string

	for _, v := range values {
		if !slices.Contains(found, v) && !slices.Contains(missing, v) {
			missing = append(missing, v)
		}
	}

	return missing, nil
}
