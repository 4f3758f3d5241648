package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// SongRepository 歌曲数据访问.
type SongRepository struct {
	*Store[model.Song, *model.Song]
}

// NewSongRepository 创建歌曲仓库.
func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{Store: NewStore[model.Song](db)}
}

// TitleTaken 判断标题是否被除 exceptID 以外的歌曲占用.
func (r *SongRepository) TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "title = ? AND song_id <> ?", title, exceptID)
}

// IncrementListens 原子地为播放次数加一并返回最新记录.
func (r *SongRepository) IncrementListens(ctx context.Context, id uint) (*model.Song, error) {
	return increment(ctx, r.Store, "song_id", "listens", id)
}

// VideoRepository 视频数据访问.
type VideoRepository struct {
	*Store[model.Video, *model.Video]
}

// NewVideoRepository 创建视频仓库.
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{Store: NewStore[model.Video](db)}
}

// TitleTaken 判断标题是否被除 exceptID 以外的视频占用.
func (r *VideoRepository) TitleTaken(ctx context.Context, title string, exceptID uint) (bool, error) {
	return r.Exists(ctx, "title = ? AND video_id <> ?", title, exceptID)
}

// IncrementViews 原子地为观看次数加一并返回最新记录.
func (r *VideoRepository) IncrementViews(ctx context.Context, id uint) (*model.Video, error) {
	return increment(ctx, r.Store, "video_id", "views", id)
}

func increment[T any, PT Pageable[T]](ctx context.Context, s *Store[T, PT], pk, column string, id uint) (*T, error) {
	res := s.DB(ctx).Model(new(T)).Where(pk+" = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("increment %s: %w", column, res.Error)
	}

	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.FindByID(ctx, id)
}
