package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeisme/hydrogen/pkg/configs"
)

// Kind 媒体内容类型.
type Kind string

const (
	KindVideo      Kind = "video"
	KindThumbnail  Kind = "thumbnail"
	KindSong       Kind = "song"
	KindCoverImage Kind = "coverImage"
)

// 各类内容的默认文件扩展名.
const (
	DefaultVideoExt      = "mp4"
	DefaultThumbnailExt  = "jpeg"
	DefaultSongExt       = "mp3"
	DefaultCoverImageExt = "jpeg"
)

type kindLayout struct {
	bucket string
	cdn    string
	ext    string
}

// Media 将业务层的存储键映射为具体的桶、对象名与 CDN 地址.
type Media struct {
	store ObjectStore
	kinds map[Kind]kindLayout
}

// NewMedia 基于对象存储与配置构建 Media.
func NewMedia(store ObjectStore, cfg configs.S3Config) *Media {
	return &Media{
		store: store,
		kinds: map[Kind]kindLayout{
			KindVideo:      {bucket: cfg.Buckets.Video, cdn: cfg.CDN.Video, ext: DefaultVideoExt},
			KindThumbnail:  {bucket: cfg.Buckets.Thumbnail, cdn: cfg.CDN.Thumbnail, ext: DefaultThumbnailExt},
			KindSong:       {bucket: cfg.Buckets.Song, cdn: cfg.CDN.Song, ext: DefaultSongExt},
			KindCoverImage: {bucket: cfg.Buckets.CoverImage, cdn: cfg.CDN.CoverImage, ext: DefaultCoverImageExt},
		},
	}
}

func (m *Media) layout(kind Kind) (kindLayout, error) {
	s, ok := m.kinds[kind]
	if !ok {
		return kindLayout{}, fmt.Errorf("unknown media kind %q", kind)
	}

	return s, nil
}

// Bucket 返回内容类型对应的桶.
func (m *Media) Bucket(kind Kind) string {
	return m.kinds[kind].bucket
}

// ObjectKey 返回 key.ext 形式的对象名.
func (m *Media) ObjectKey(kind Kind, key string) string {
	return fmt.Sprintf("%s.%s", key, m.kinds[kind].ext)
}

// DistributionURI 返回对象的 CDN 地址；未配置 CDN 或 key 为空时返回空串.
func (m *Media) DistributionURI(kind Kind, key string) string {
	s := m.kinds[kind]
	if s.cdn == "" || key == "" {
		return ""
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(s.cdn, "/"), m.ObjectKey(kind, key))
}

// EnsureBucket 桶不存在时创建.
func (m *Media) EnsureBucket(ctx context.Context, kind Kind) error {
	s, err := m.layout(kind)
	if err != nil {
		return err
	}

	ok, err := m.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check %s bucket: %w", kind, err)
	}

	if ok {
		return nil
	}

	if err := m.store.MakeBucket(ctx, s.bucket); err != nil {
		return fmt.Errorf("create %s bucket: %w", kind, err)
	}

	return nil
}

// Exists 判断对象是否存在.
func (m *Media) Exists(ctx context.Context, kind Kind, key string) (bool, error) {
	s, err := m.layout(kind)
	if err != nil {
		return false, err
	}

	return m.store.ObjectExists(ctx, s.bucket, m.ObjectKey(kind, key))
}

// Copy 将 oldKey 对应的对象复制到 newKey.
func (m *Media) Copy(ctx context.Context, kind Kind, oldKey, newKey string) error {
	s, err := m.layout(kind)
	if err != nil {
		return err
	}

	if err := m.store.CopyObject(ctx, s.bucket, m.ObjectKey(kind, oldKey), m.ObjectKey(kind, newKey)); err != nil {
		return fmt.Errorf("copy %s object %s -> %s: %w", kind, oldKey, newKey, err)
	}

	return nil
}

// Remove 删除对象.
func (m *Media) Remove(ctx context.Context, kind Kind, key string) error {
	s, err := m.layout(kind)
	if err != nil {
		return err
	}

	if err := m.store.RemoveObject(ctx, s.bucket, m.ObjectKey(kind, key)); err != nil {
		return fmt.Errorf("remove %s object %s: %w", kind, key, err)
	}

	return nil
}

// RemoveIfExists 对象存在时删除，返回是否执行了删除.
func (m *Media) RemoveIfExists(ctx context.Context, kind Kind, key string) (bool, error) {
	if key == "" {
		return false, nil
	}

	ok, err := m.Exists(ctx, kind, key)
	if err != nil || !ok {
		return false, err
	}

	return true, m.Remove(ctx, kind, key)
}
