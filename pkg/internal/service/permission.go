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
	MsgPermissionsFetched   = "Permissions fetched from db with success"
	MsgPermissionFetched    = "Permission fetched from db with success"
	MsgPermissionCreated    = "Permission created with success."
	MsgPermissionUpdated    = "Permission updated with success."
	MsgPermissionNotFound   = "No permission found with id provided."
	MsgPermissionNameExists = "Permission with name already exists."
	MsgPermissionNoUpdate   = "Unable to find permission to update details."
	MsgPermissionNoDelete   = "Unable to find permission to delete details."
	MsgPermissionInUse      = "Permission is still assigned to a role."
)

// PermissionService 权限管理. 仍被角色引用的权限不可删除或修改 value.
type PermissionService struct {
	permissions *repository.PermissionRepository
	roles       *repository.RoleRepository
}

// NewPermissionService 创建权限服务.
func NewPermissionService(repos *repository.Repositories) *PermissionService {
	return &PermissionService{permissions: repos.Permissions, roles: repos.Roles}
}

// List 分页查询权限.
func (s *PermissionService) List(ctx context.Context, q repository.Query) ([]model.Permission, error) {
	perms, err := s.permissions.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	return perms, nil
}

// Get 按 ID 查询权限.
func (s *PermissionService) Get(ctx context.Context, id uint) (*model.Permission, error) {
	return s.find(ctx, id, MsgPermissionNotFound)
}

// Create 创建权限.
func (s *PermissionService) Create(ctx context.Context, req *types.CreatePermissionRequest) (*model.Permission, error) {
	if err := s.checkName(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	perm := &model.Permission{
		Name:        strings.TrimSpace(req.Name),
		Value:       strings.TrimSpace(req.Value),
		Description: req.Description,
	}

	if err := s.permissions.Create(ctx, perm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgPermissionNameExists)
		}

		return nil, fmt.Errorf("create permission: %w", err)
	}

	return perm, nil
}

// Update 更新权限.
func (s *PermissionService) Update(ctx context.Context, id uint, req *types.UpdatePermissionRequest) (*model.Permission, error) {
	perm, err := s.find(ctx, id, MsgPermissionNoUpdate)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := s.checkName(ctx, *req.Name, id); err != nil {
			return nil, err
		}

		perm.Name = strings.TrimSpace(*req.Name)
	}

	if req.Value != nil && strings.TrimSpace(*req.Value) != perm.Value {
		if err := s.checkUnused(ctx, perm.Value); err != nil {
			return nil, err
		}

		perm.Value = strings.TrimSpace(*req.Value)
	}

	if req.Description != nil {
		perm.Description = *req.Description
	}

	if err := s.permissions.Save(ctx, perm); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgPermissionNameExists)
		}

		return nil, fmt.Errorf("update permission: %w", err)
	}

	return perm, nil
}

// Delete 删除权限.
func (s *PermissionService) Delete(ctx context.Context, id uint) error {
	perm, err := s.find(ctx, id, MsgPermissionNoDelete)
	if err != nil {
		return err
	}

	if err := s.checkUnused(ctx, perm.Value); err != nil {
		return err
	}

	ok, err := s.permissions.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}

	if !ok {
		return BadRequest(MsgPermissionNoDelete)
	}

	return nil
}

func (s *PermissionService) find(ctx context.Context, id uint, notFound string) (*model.Permission, error) {
	perm, err := s.permissions.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(notFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return perm, nil
}

func (s *PermissionService) checkName(ctx context.Context, name string, exceptID uint) error {
	taken, err := s.permissions.NameTaken(ctx, strings.TrimSpace(name), exceptID)
	if err != nil {
		return fmt.Errorf("check permission name: %w", err)
	}

	if taken {
		return BadRequest(MsgPermissionNameExists)
	}

	return nil
}

func (s *PermissionService) checkUnused(ctx context.Context, value string) error {
	roles, err := s.roles.Referencing(ctx, value)
	if err != nil {
		return fmt.Errorf("check permission usage: %w", err)
	}

	if len(roles) > 0 {
		return BadRequest(MsgPermissionInUse)
	}

	return nil
}
