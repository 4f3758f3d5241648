package types

import "github.com/yeisme/hydrogen/pkg/internal/model"

// CreateRoleRequest 创建角色. Permissions 为权限值列表.
type CreateRoleRequest struct {
	Name        string   `json:"name"        rule:"required" msg:"Must provide a role name."`
	Value       string   `json:"value"       rule:"required" msg:"Must provide a value for the role."`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// UpdateRoleRequest 更新角色.
type UpdateRoleRequest struct {
	Name        *string   `json:"name"`
	Value       *string   `json:"value"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

// CreatePermissionRequest 创建权限.
type CreatePermissionRequest struct {
	Name        string `json:"name"        rule:"required" msg:"Must provide a permission name."`
	Value       string `json:"value"       rule:"required" msg:"Must provide a value for the permission."`
	Description string `json:"description"`
}

// UpdatePermissionRequest 更新权限.
type UpdatePermissionRequest struct {
	Name        *string `json:"name"`
	Value       *string `json:"value"`
	Description *string `json:"description"`
}

// RolesResponse 角色列表.
type RolesResponse struct {
	Message string       `json:"message"`
	Roles   []model.Role `json:"roles"`
}

// RoleResponse 单个角色.
type RoleResponse struct {
	Message string      `json:"message"`
	Role    *model.Role `json:"role"`
}

// PermissionsResponse 权限列表.
type PermissionsResponse struct {
	Message     string             `json:"message"`
	Permissions []model.Permission `json:"permissions"`
}

// PermissionResponse 单个权限.
type PermissionResponse struct {
	Message    string            `json:"message"`
	Permission *model.Permission `json:"permission"`
}
