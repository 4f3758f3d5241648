package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/storage/db"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	"github.com/yeisme/hydrogen/pkg/log"
)

// AdminRole 种子数据中拥有全部权限的角色.
const AdminRole = "admin"

// AdminSeed 初始管理员，Email 为空时不创建.
type AdminSeed struct {
	Email    string
	Password string
	FullName string
}

// SeedResult 本次新写入的数量，已存在的记录不计入.
type SeedResult struct {
	Permissions int  `json:"permissions"`
	Role        bool `json:"role"`
	Admin       bool `json:"admin"`
}

// Migrate 仅连接数据库并执行表结构迁移.
func Migrate(ctx context.Context, cfg *configs.AppConfig) error {
	client, err := db.New(ctx, &cfg.DB, false)
	if err != nil {
		return err
	}

	defer func() { _ = client.Close() }()

	return client.Migrate(ctx, model.All()...)
}

// SeedDatabase 连接数据库、迁移并写入种子数据.
func SeedDatabase(ctx context.Context, cfg *configs.AppConfig, admin AdminSeed) (SeedResult, error) {
	client, err := db.New(ctx, &cfg.DB, false)
	if err != nil {
		return SeedResult{}, err
	}

	defer func() { _ = client.Close() }()

	if err := client.Migrate(ctx, model.All()...); err != nil {
		return SeedResult{}, fmt.Errorf("migrate: %w", err)
	}

	svc := service.New(service.Deps{Config: cfg, Repos: repository.New(client.GetDB())})

	return Seed(ctx, svc, admin)
}

// Seed 写入全部权限、admin 角色以及可选的管理员账号，可重复执行.
func Seed(ctx context.Context, svc *service.Services, admin AdminSeed) (SeedResult, error) {
	var res SeedResult

	perms := model.BuiltinPermissions

	for _, p := range perms {
		_, err := svc.Permissions.Create(ctx, &types.CreatePermissionRequest{Name: p, Value: p})

		created, err := skipExisting(err)
		if err != nil {
			return res, fmt.Errorf("seed permission %s: %w", p, err)
		}

		if created {
			res.Permissions++
		}
	}

	_, err := svc.Roles.Create(ctx, &types.CreateRoleRequest{
		Name:        "Administrator",
		Value:       AdminRole,
		Description: "Full access",
		Permissions: perms,
	})
	if res.Role, err = skipExisting(err); err != nil {
		return res, fmt.Errorf("seed role: %w", err)
	}

	if admin.Email != "" {
		name := admin.FullName
		if name == "" {
			name = "Administrator"
		}

		_, err := svc.Users.Create(ctx, &types.CreateUserRequest{
			Email:    admin.Email,
			Password: admin.Password,
			FullName: name,
			IsAdmin:  true,
			Role:     AdminRole,
		})
		if res.Admin, err = skipExisting(err); err != nil {
			return res, fmt.Errorf("seed admin: %w", err)
		}
	}

	log.Ctx(ctx).Info().
		Int("permissions", res.Permissions).
		Bool("role", res.Role).
		Bool("admin", res.Admin).
		Msg("seed complete")

	return res, nil
}

// skipExisting 将“已存在”类的 400 视为成功但未创建.
func skipExisting(err error) (bool, error) {
	if err == nil {
		return true, nil
	}

	if e, ok := service.AsError(err); ok && e.Status == http.StatusBadRequest {
		return false, nil
	}

	return false, err
}
