package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/storage/s3"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	nlog "github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/queue"
)

const (
	MsgVideosFetched      = "Videos fetched from db with success"
	MsgVideoFetched       = "Video fetched from db with success"
	MsgVideoUploaded      = "Video uploaded to s3 with success"
	MsgVideoUpdated       = "Video updated to s3 with success"
	MsgVideoNotFound      = "No video found with id provided."
	MsgVideoTitleTaken    = "Please provide another title for the video."
	MsgVideoNoUpdate      = "No video was found to update by videoId provided."
	MsgVideoNoViews       = "No videos found to update clicks."
	MsgVideoUpdateFailure = "Error updating video metadata."
)

// VideoService 视频元数据与对象存储协调.
type VideoService struct {
	videos  *repository.VideoRepository
	content *reconciler
	events  *queue.Publisher
}

// NewVideoService 创建视频服务.
func NewVideoService(videos *repository.VideoRepository, media *s3.Media, events *queue.Publisher) *VideoService {
	return &VideoService{videos: videos, content: newReconciler(media, events), events: events}
}

// List 分页查询视频.
func (s *VideoService) List(ctx context.Context, q repository.Query) ([]model.Video, error) {
	videos, err := s.videos.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	return videos, nil
}

// Get 按 ID 查询视频.
func (s *VideoService) Get(ctx context.Context, id uint) (*model.Video, error) {
	video, err := s.videos.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(MsgVideoNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	return video, nil
}

// Upload 写入新视频的元数据，对象已由客户端上传到存储.
func (s *VideoService) Upload(ctx context.Context, req *types.UploadVideoRequest) (*model.Video, error) {
	return s.create(ctx, req)
}

func (s *VideoService) create(ctx context.Context, req *types.UploadVideoRequest) (*model.Video, error) {
	title := strings.TrimSpace(req.Title)

	taken, err := s.videos.TitleTaken(ctx, title, 0)
	if err != nil {
		return nil, fmt.Errorf("check video title: %w", err)
	}

	if taken {
		return nil, BadRequest(MsgVideoTitleTaken)
	}

	video := &model.Video{
		Title:              title,
		Description:        req.Description,
		VideoKey:           req.VideoKey,
		ThumbnailKey:       req.ThumbnailKey,
		URL:                s.content.distribution(s3.KindVideo, req.VideoKey, req.URL),
		Thumbnail:          s.content.distribution(s3.KindThumbnail, req.ThumbnailKey, req.Thumbnail),
		Duration:           req.Duration,
		Author:             req.Author,
		Tags:               splitTags(req.Tags),
		IsAvailableForSale: true,
		Status:             model.StatusDraft,
	}

	if err := s.videos.Create(ctx, video); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgVideoTitleTaken)
		}

		return nil, fmt.Errorf("create video: %w", err)
	}

	s.events.ContentCreated(ctx, s.payload(video))

	return video, nil
}

// Update 更新视频. 键变化时先复制对象，写入元数据后删除旧对象；videoId 不存在且字段完整时创建，新主键由数据库分配.
func (s *VideoService) Update(ctx context.Context, req *types.UpdateVideoRequest) (*model.Video, error) {
	video, err := s.videos.FindByID(ctx, req.VideoID)
	if errors.Is(err, repository.ErrNotFound) {
		if upload, ok := videoUpload(req); ok {
			return s.create(ctx, upload)
		}

		return nil, BadRequest(MsgVideoNoUpdate)
	}

	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != video.Title {
		taken, err := s.videos.TitleTaken(ctx, strings.TrimSpace(*req.Title), video.ID)
		if err != nil {
			return nil, fmt.Errorf("check video title: %w", err)
		}

		if taken {
			return nil, BadRequest(MsgVideoTitleTaken)
		}
	}

	changes := []keyChange{
		{kind: s3.KindVideo, old: video.VideoKey, new: deref(req.VideoKey, video.VideoKey)},
		{kind: s3.KindThumbnail, old: video.ThumbnailKey, new: deref(req.ThumbnailKey, video.ThumbnailKey)},
	}

	if err := s.content.stage(ctx, changes); err != nil {
		nlog.Ctx(ctx).Error().Err(err).Uint("video_id", video.ID).Msg("stage video objects failed")

		return nil, Internal(MsgVideoUpdateFailure)
	}

	before := s.payload(video)
	applyVideoUpdate(video, req, s.content)

	if err := s.videos.Save(ctx, video); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgVideoTitleTaken)
		}

		return nil, fmt.Errorf("update video: %w", err)
	}

	s.content.release(ctx, before, changes)
	s.events.ContentUpdated(ctx, s.payload(video))

	return video, nil
}

// UpdateViews 观看次数加一，返回提示信息.
func (s *VideoService) UpdateViews(ctx context.Context, id uint) (string, *model.Video, error) {
	video, err := s.videos.IncrementViews(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, BadRequest(MsgVideoNoViews)
	}

	if err != nil {
		return "", nil, fmt.Errorf("update views: %w", err)
	}

	p := s.payload(video)
	p.Counter = video.Views
	s.events.ContentInteracted(ctx, p)

	return fmt.Sprintf("Video with title '%s' has %d views.", strings.TrimSpace(video.Title), video.Views), video, nil
}

// Delete 删除视频及其对象.
func (s *VideoService) Delete(ctx context.Context, id uint) error {
	video, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	p := s.payload(video)
	s.content.purge(ctx, p, map[s3.Kind]string{
		s3.KindVideo:     video.VideoKey,
		s3.KindThumbnail: video.ThumbnailKey,
	})

	ok, err := s.videos.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete video: %w", err)
	}

	if !ok {
		return BadRequest(MsgVideoNotFound)
	}

	s.events.ContentDeleted(ctx, p)

	return nil
}

func (s *VideoService) payload(video *model.Video) queue.ContentPayload {
	return queue.ContentPayload{
		Kind:   contentVideo,
		ID:     video.ID,
		Title:  video.Title,
		Status: video.Status,
		Objects: s.content.refs(
			keyChange{kind: s3.KindVideo, new: video.VideoKey},
			keyChange{kind: s3.KindThumbnail, new: video.ThumbnailKey},
		),
	}
}

func applyVideoUpdate(video *model.Video, req *types.UpdateVideoRequest, r *reconciler) {
	if req.Title != nil {
		video.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		video.Description = *req.Description
	}

	if req.Tags != nil {
		video.Tags = splitTags(*req.Tags)
	}

	if req.Duration != nil {
		video.Duration = *req.Duration
	}

	if req.Author != nil {
		video.Author = *req.Author
	}

	if req.Status != nil && *req.Status != "" {
		video.Status = *req.Status
	}

	if req.VideoKey != nil && *req.VideoKey != "" {
		video.VideoKey = *req.VideoKey
	}

	if req.ThumbnailKey != nil && *req.ThumbnailKey != "" {
		video.ThumbnailKey = *req.ThumbnailKey
	}

	video.URL = r.distribution(s3.KindVideo, video.VideoKey, deref(req.URL, video.URL))
	video.Thumbnail = r.distribution(s3.KindThumbnail, video.ThumbnailKey, deref(req.Thumbnail, video.Thumbnail))
}

// videoUpload 更新请求包含上传所需的全部字段时转换为上传请求.
func videoUpload(req *types.UpdateVideoRequest) (*types.UploadVideoRequest, bool) {
	fields := []*string{req.Title, req.Description, req.Tags, req.URL, req.Duration, req.VideoKey, req.Thumbnail, req.ThumbnailKey}
	for _, f := range fields {
		if f == nil || strings.TrimSpace(*f) == "" {
			return nil, false
		}
	}

	return &types.UploadVideoRequest{
		Title:        *req.Title,
		Description:  *req.Description,
		Tags:         *req.Tags,
		URL:          *req.URL,
		Duration:     *req.Duration,
		VideoKey:     *req.VideoKey,
		Thumbnail:    *req.Thumbnail,
		ThumbnailKey: *req.ThumbnailKey,
		Author:       deref(req.Author, ""),
	}, true
}
