package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// UserRepository 用户数据访问.
type UserRepository struct {
	*Store[model.User, *model.User]
}

// NewUserRepository 创建用户仓库.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Store: NewStore[model.User](db)}
}

// FindByEmail 按邮箱查找，大小写不敏感.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.FindOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// EmailInUse 判断邮箱是否被除 exceptID 以外的用户占用.
func (r *UserRepository) EmailInUse(ctx context.Context, email string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "email = ? AND user_id <> ?", strings.ToLower(strings.TrimSpace(email)), exceptID)
}

// RoleInUse 判断是否仍有用户持有角色 value.
func (r *UserRepository) RoleInUse(ctx context.Context, role string) (bool, error) {
	return r.Exists(ctx, "role = ?", role)
}

// Update 按主键更新给定列.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]any) (bool, error) {
	res := r.DB(ctx).Model(&model.User{}).Where("user_id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("update user: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// TouchLastLogin 记录最近登录时间.
func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.DB(ctx).Model(&model.User{}).Where("user_id = ?", id).UpdateColumn("last_logged_in", at).Error
}

// SetPassword 写入新的密码哈希.
func (r *UserRepository) SetPassword(ctx context.Context, id uint, hash string) error {
	return r.DB(ctx).Model(&model.User{}).Where("user_id = ?", id).Update("password", hash).Error
}
