package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

const (
	MsgRolesFetched   = "Roles fetched from db with success"
	MsgRoleFetched    = "Role fetched from db with success"
	MsgRoleCreated    = "Role created with success."
	MsgRoleUpdated    = "Role updated with success."
	MsgRoleNotFound   = "Role with id does not exist."
	MsgRoleNameExists = "Role with name already exists."
	MsgRoleNoUpdate   = "Unable to find role to update details."
	MsgRoleNoDelete   = "Unable to find role to delete details."
	MsgRoleValueTaken = "Role with value already exists."
	MsgRoleInUse      = "Role is still assigned to a user."
	msgPermsMissing   = "Permissions provided do not exist: "
)

// RoleService 角色管理. 写入时校验权限引用.
type RoleService struct {
	roles       *repository.RoleRepository
	permissions *repository.PermissionRepository
	users       *repository.UserRepository
	resolver    *PermissionResolver
}

// NewRoleService 创建角色服务.
func NewRoleService(repos *repository.Repositories, resolver *PermissionResolver) *RoleService {
	return &RoleService{roles: repos.Roles, permissions: repos.Permissions, users: repos.Users, resolver: resolver}
}

// List 分页查询角色.
func (s *RoleService) List(ctx context.Context, q repository.Query) ([]model.Role, error) {
	roles, err := s.roles.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	return roles, nil
}

// Get 按 ID 查询角色.
func (s *RoleService) Get(ctx context.Context, id uint) (*model.Role, error) {
	return s.find(ctx, id, MsgRoleNotFound)
}

// Create 创建角色.
func (s *RoleService) Create(ctx context.Context, req *types.CreateRoleRequest) (*model.Role, error) {
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	if err := s.checkValue(ctx, req.Value, 0); err != nil {
		return nil, err
	}

	perms, err := s.checkPermissions(ctx, req.Permissions)
	if err != nil {
		return nil, err
	}

	role := &model.Role{
		Name:        strings.TrimSpace(req.Name),
		Value:       strings.TrimSpace(req.Value),
		Description: req.Description,
		Permissions: perms,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgRoleNameExists)
		}

		return nil, fmt.Errorf("create role: %w", err)
	}

	s.resolver.Invalidate(ctx, role.Value)

	return role, nil
}

// Update 更新角色.
func (s *RoleService) Update(ctx context.Context, id uint, req *types.UpdateRoleRequest) (*model.Role, error) {
	role, err := s.find(ctx, id, MsgRoleNoUpdate)
	if err != nil {
		return nil, err
	}

	oldValue := role.Value

	if req.Name != nil {
		if err := s.checkName(ctx, *req.Name, id); err != nil {
			return nil, err
		}

		role.Name = strings.TrimSpace(*req.Name)
	}

	if req.Permissions != nil {
		perms, err := s.checkPermissions(ctx, *req.Permissions)
		if err != nil {
			return nil, err
		}

		role.Permissions = perms
	}

	if req.Value != nil && strings.TrimSpace(*req.Value) != role.Value {
		value := strings.TrimSpace(*req.Value)

		if err := s.checkUnused(ctx, role.Value); err != nil {
			return nil, err
		}

		if err := s.checkValue(ctx, value, id); err != nil {
			return nil, err
		}

		role.Value = value
	}

	if req.Description != nil {
		role.Description = *req.Description
	}

	if err := s.roles.Save(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgRoleNameExists)
		}

		return nil, fmt.Errorf("update role: %w", err)
	}

	s.resolver.Invalidate(ctx, oldValue, role.Value)

	return role, nil
}

// Delete 删除角色.
func (s *RoleService) Delete(ctx context.Context, id uint) error {
	role, err := s.find(ctx, id, MsgRoleNoDelete)
	if err != nil {
		return err
	}

	if err := s.checkUnused(ctx, role.Value); err != nil {
		return err
	}

	ok, err := s.roles.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}

	if !ok {
		return BadRequest(MsgRoleNoDelete)
	}

	s.resolver.Invalidate(ctx, role.Value)

	return nil
}

func (s *RoleService) find(ctx context.Context, id uint, notFound string) (*model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(notFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}

	return role, nil
}

func (s *RoleService) checkName(ctx context.Context, name string, exceptID uint) error {
	taken, err := s.roles.NameTaken(ctx, strings.TrimSpace(name), exceptID)
	if err != nil {
		return fmt.Errorf("check role name: %w", err)
	}

	if taken {
		return BadRequest(MsgRoleNameExists)
	}

	return nil
}

func (s *RoleService) checkValue(ctx context.Context, value string, exceptID uint) error {
	taken, err := s.roles.ValueTaken(ctx, strings.TrimSpace(value), exceptID)
	if err != nil {
		return fmt.Errorf("check role value: %w", err)
	}

	if taken {
		return BadRequest(MsgRoleValueTaken)
	}

	return nil
}

// checkUnused 仍被用户持有的角色不能删除或修改 value.
func (s *RoleService) checkUnused(ctx context.Context, value string) error {
	inUse, err := s.users.RoleInUse(ctx, value)
	if err != nil {
		return fmt.Errorf("check role usage: %w", err)
	}

	if inUse {
		return BadRequest(MsgRoleInUse)
	}

	return nil
}

// checkPermissions 要求每一项都是已存在权限的 value，返回去除空白后的列表.
func (s *RoleService) checkPermissions(ctx context.Context, values []string) ([]string, error) {
	perms := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			perms = append(perms, v)
		}
	}

	missing, err := s.permissions.Missing(ctx, perms)
	if err != nil {
		return nil, fmt.Errorf("check permissions: %w", err)
	}

	if len(missing) > 0 {
		return nil, BadRequest(msgPermsMissing + strings.Join(missing, ", "))
	}

	return perms, nil
}
