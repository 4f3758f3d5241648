package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// TagRepository 标签数据访问.
type TagRepository struct {
	*Store[model.Tag, *model.Tag]
}

// NewTagRepository 创建标签仓库.
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{Store: NewStore[model.Tag](db)}
}

// NameTaken 判断标签名是否被除 exceptID 以外的标签占用.
func (r *TagRepository) NameTaken(ctx context.Context, name string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "name = ? AND tag_id <> ?", name, exceptID)
}
