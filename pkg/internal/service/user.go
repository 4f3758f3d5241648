package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	nlog "github.com/yeisme/hydrogen/pkg/log"
)

const (
	MsgUsersFetched      = "Fetcing of users action was successful."
	MsgUserFetched       = "User was successfully fetched."
	MsgUserCreated       = "User created with success."
	MsgUserUpdated       = "User was successfully updated."
	MsgUserNotFound      = "User with id does not exist."
	MsgUserEmailExists   = "User with email already exists."
	MsgUserEmailInUse    = "Unable to change email. Email already in use."
	MsgUserUpdateFailed  = "Unable to update user details."
	MsgRoleNotFoundValue = "Role provided does not exist."
)

// UserService 用户管理.
type UserService struct {
	users    *repository.UserRepository
	roles    *repository.RoleRepository
	hashCost int
}

// NewUserService 创建用户服务.
func NewUserService(repos *repository.Repositories, hashCost int) *UserService {
	return &UserService{users: repos.Users, roles: repos.Roles, hashCost: hashCost}
}

// List 分页查询用户.
func (s *UserService) List(ctx context.Context, q repository.Query) ([]model.User, error) {
	users, err := s.users.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

// Get 按 ID 查询用户.
func (s *UserService) Get(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(MsgUserNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

// Create 创建用户，邮箱统一转为小写.
func (s *UserService) Create(ctx context.Context, req *types.CreateUserRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.users.EmailInUse(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}

	if taken {
		return nil, BadRequest(MsgUserEmailExists)
	}

	if err := s.checkRole(ctx, req.Role); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password, s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(req.FullName),
		DOB:      req.DOB,
		Gender:   req.Gender,
		City:     req.City,
		State:    strings.ToUpper(req.State),
		ZipCode:  req.ZipCode,
		IsAdmin:  req.IsAdmin,
		Role:     req.Role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgUserEmailExists)
		}

		return nil, fmt.Errorf("create user: %w", err)
	}

	nlog.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("user created")

	return user, nil
}

// Update 更新用户资料，密码会重新哈希.
func (s *UserService) Update(ctx context.Context, id uint, req *types.UpdateUserRequest) (*types.UserSummary, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)

		inUse, err := s.users.EmailInUse(ctx, email, id)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}

		if inUse {
			return nil, BadRequest(MsgUserEmailInUse)
		}

		fields["email"] = email
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, s.hashCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}

		fields["password"] = hash
	}

	if req.Role != nil {
		if err := s.checkRole(ctx, *req.Role); err != nil {
			return nil, err
		}

		fields["role"] = *req.Role
	}

	setIf(fields, "full_name", req.FullName)
	setIf(fields, "dob", req.DOB)
	setIf(fields, "gender", req.Gender)
	setIf(fields, "city", req.City)
	setIf(fields, "zip_code", req.ZipCode)

	if req.State != nil {
		fields["state"] = strings.ToUpper(*req.State)
	}

	if req.IsAdmin != nil {
		fields["is_admin"] = *req.IsAdmin
	}

	if len(fields) > 0 {
		ok, err := s.users.Update(ctx, id, fields)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return nil, BadRequest(MsgUserEmailInUse)
			}

			nlog.Ctx(ctx).Error().Err(err).Uint("user_id", id).Msg("update user failed")

			return nil, BadRequest(MsgUserUpdateFailed)
		}

		if !ok {
			return nil, BadRequest(MsgUserUpdateFailed)
		}
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &types.UserSummary{
		Email:    user.Email,
		FullName: user.FullName,
		City:     user.City,
		State:    user.State,
		IsAdmin:  user.IsAdmin,
	}, nil
}

// Delete 删除用户.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	ok, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if !ok {
		return BadRequest(MsgUserNotFound)
	}

	return nil
}

func (s *UserService) checkRole(ctx context.Context, role string) error {
	if role == "" {
		return nil
	}

	_, err := s.roles.FindByValue(ctx, role)
	if errors.Is(err, repository.ErrNotFound) {
		return BadRequest(MsgRoleNotFoundValue)
	}

	if err != nil {
		return fmt.Errorf("find role: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func setIf(fields map[string]any, column string, v *string) {
	if v != nil {
		fields[column] = *v
	}
}
