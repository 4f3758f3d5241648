package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// LoginRepository 登录记录数据访问.
type LoginRepository struct {
	db *gorm.DB
}

// NewLoginRepository 创建登录记录仓库.
func NewLoginRepository(db *gorm.DB) *LoginRepository {
	return &LoginRepository{db: db}
}

// Create 追加一条登录记录.
func (r *LoginRepository) Create(ctx context.Context, l *model.Login) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create login: %w", err)
	}

	return nil
}

// ListByUser 按时间倒序返回用户的登录记录.
func (r *LoginRepository) ListByUser(ctx context.Context, userID uint) ([]model.Login, error) {
	logins := []model.Login{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("last_logged_in DESC").Order("login_id DESC").Find(&logins).Error; err != nil {
		return nil, fmt.Errorf("list logins: %w", err)
	}

	return logins, nil
}

// DeleteBefore 删除早于 t 的登录记录，返回删除条数.
func (r *LoginRepository) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("last_logged_in < ?", t).Delete(&model.Login{})

	return res.RowsAffected, res.Error
}

// CodeRepository 验证码数据访问.
type CodeRepository struct {
	db *gorm.DB
}

// NewCodeRepository 创建验证码仓库.
func NewCodeRepository(db *gorm.DB) *CodeRepository {
	return &CodeRepository{db: db}
}

// FindByEmail 返回邮箱对应的验证码.
func (r *CodeRepository) FindByEmail(ctx context.Context, email string) (*model.Code, error) {
	var c model.Code
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error; err != nil {
		return nil, wrap(err)
	}

	return &c, nil
}

// Replace 删除用户已有验证码后写入新码，保证每个用户只有一条.
func (r *CodeRepository) Replace(ctx context.Context, c *model.Code) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", c.UserID).Delete(&model.Code{}).Error; err != nil {
			return fmt.Errorf("delete old code: %w", err)
		}

		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create code: %w", err)
		}

		return nil
	})
}

// DeleteByUser 删除用户的验证码.
func (r *CodeRepository) DeleteByUser(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Code{}).Error
}

// DeleteBefore 删除创建时间早于 t 的验证码，返回删除条数.
func (r *CodeRepository) DeleteBefore(ctx context.Context, t time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", t).Delete(&model.Code{})

	return res.RowsAffected, res.Error
}
