// Package repository 封装实体的数据库访问，业务层只依赖这里返回的模型与错误.
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate 违反唯一约束.
	ErrDuplicate = errors.New("duplicate key")
)

// Pageable 可写入分页元数据的模型指针.
type Pageable[T any] interface {
	*T
	SetPaging(total int64, pages int)
}

// Store 单表通用 CRUD.
type Store[T any, PT Pageable[T]] struct {
	db *gorm.DB
}

// NewStore 创建通用存储.
func NewStore[T any, PT Pageable[T]](db *gorm.DB) *Store[T, PT] {
	return &Store[T, PT]{db: db}
}

// DB 返回绑定 ctx 的 gorm 会话.
func (s *Store[T, PT]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// FindByID 按业务主键查找.
func (s *Store[T, PT]) FindByID(ctx context.Context, id uint) (*T, error) {
	var v T
	if err := s.DB(ctx).First(&v, id).Error; err != nil {
		return nil, wrap(err)
	}

	return &v, nil
}

// FindOne 按条件查找第一条.
func (s *Store[T, PT]) FindOne(ctx context.Context, query string, args ...any) (*T, error) {
	var v T
	if err := s.DB(ctx).Where(query, args...).First(&v).Error; err != nil {
		return nil, wrap(err)
	}

	return &v, nil
}

// Exists 判断是否存在满足条件的记录.
func (s *Store[T, PT]) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	var n int64
	if err := s.DB(ctx).Model(new(T)).Where(query, args...).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count: %w", err)
	}

	return n > 0, nil
}

// Create 插入记录，主键回填.
func (s *Store[T, PT]) Create(ctx context.Context, v *T) error {
	if err := s.DB(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create: %w", wrap(err))
	}

	return nil
}

// Save 保存全部字段，主键为零时插入.
func (s *Store[T, PT]) Save(ctx context.Context, v *T) error {
	if err := s.DB(ctx).Save(v).Error; err != nil {
		return fmt.Errorf("save: %w", wrap(err))
	}

	return nil
}

// DeleteByID 按主键删除，返回是否删除了记录.
func (s *Store[T, PT]) DeleteByID(ctx context.Context, id uint) (bool, error) {
	res := s.DB(ctx).Delete(new(T), id)
	if res.Error != nil {
		return false, fmt.Errorf("delete: %w", res.Error)
	}

	return res.RowsAffected > 0, nil
}

// Count 统计全部记录.
func (s *Store[T, PT]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}

	return n, nil
}

func wrap(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}

	return err
}
