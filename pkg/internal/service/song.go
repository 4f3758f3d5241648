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
	MsgSongsFetched      = "Songs fetched from db with success"
	MsgSongFetched       = "Song fetched from db with success"
	MsgSongUploaded      = "Song uploaded to s3 with success"
	MsgSongUpdated       = "Song updated to s3 with success"
	MsgSongNotFound      = "No song found with id provided."
	MsgSongTitleTaken    = "Please provide another title for the song."
	MsgSongNoUpdate      = "No song was found to update by songId provided."
	MsgSongNoListens     = "No songs found to update listens."
	MsgSongUpdateFailure = "Error updating song metadata."
)

// SongService 歌曲元数据与对象存储协调.
type SongService struct {
	songs   *repository.SongRepository
	content *reconciler
	events  *queue.Publisher
}

// NewSongService 创建歌曲服务.
func NewSongService(songs *repository.SongRepository, media *s3.Media, events *queue.Publisher) *SongService {
	return &SongService{songs: songs, content: newReconciler(media, events), events: events}
}

// List 分页查询歌曲.
func (s *SongService) List(ctx context.Context, q repository.Query) ([]model.Song, error) {
	songs, err := s.songs.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	return songs, nil
}

// Get 按 ID 查询歌曲.
func (s *SongService) Get(ctx context.Context, id uint) (*model.Song, error) {
	song, err := s.songs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(MsgSongNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}

	return song, nil
}

// Upload 写入新歌曲的元数据，对象已由客户端上传到存储.
func (s *SongService) Upload(ctx context.Context, req *types.UploadSongRequest) (*model.Song, error) {
	return s.create(ctx, req)
}

func (s *SongService) create(ctx context.Context, req *types.UploadSongRequest) (*model.Song, error) {
	title := strings.TrimSpace(req.Title)

	taken, err := s.songs.TitleTaken(ctx, title, 0)
	if err != nil {
		return nil, fmt.Errorf("check song title: %w", err)
	}

	if taken {
		return nil, BadRequest(MsgSongTitleTaken)
	}

	song := &model.Song{
		Title:              title,
		Description:        req.Description,
		SongKey:            req.SongKey,
		CoverImageKey:      req.CoverImageKey,
		URL:                s.content.distribution(s3.KindSong, req.SongKey, req.URL),
		CoverImage:         s.content.distribution(s3.KindCoverImage, req.CoverImageKey, req.CoverImage),
		Duration:           req.Duration,
		Author:             req.Author,
		Tags:               splitTags(req.Tags),
		IsAvailableForSale: true,
		Status:             model.StatusDraft,
	}

	if err := s.songs.Create(ctx, song); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgSongTitleTaken)
		}

		return nil, fmt.Errorf("create song: %w", err)
	}

	s.events.ContentCreated(ctx, s.payload(song))

	return song, nil
}

// Update 更新歌曲. 键变化时先复制对象，写入元数据后删除旧对象；songId 不存在且字段完整时创建，新主键由数据库分配.
func (s *SongService) Update(ctx context.Context, req *types.UpdateSongRequest) (*model.Song, error) {
	song, err := s.songs.FindByID(ctx, req.SongID)
	if errors.Is(err, repository.ErrNotFound) {
		if upload, ok := songUpload(req); ok {
			return s.create(ctx, upload)
		}

		return nil, BadRequest(MsgSongNoUpdate)
	}

	if err != nil {
		return nil, fmt.Errorf("get song: %w", err)
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != song.Title {
		taken, err := s.songs.TitleTaken(ctx, strings.TrimSpace(*req.Title), song.ID)
		if err != nil {
			return nil, fmt.Errorf("check song title: %w", err)
		}

		if taken {
			return nil, BadRequest(MsgSongTitleTaken)
		}
	}

	changes := []keyChange{
		{kind: s3.KindSong, old: song.SongKey, new: deref(req.SongKey, song.SongKey)},
		{kind: s3.KindCoverImage, old: song.CoverImageKey, new: deref(req.CoverImageKey, song.CoverImageKey)},
	}

	if err := s.content.stage(ctx, changes); err != nil {
		nlog.Ctx(ctx).Error().Err(err).Uint("song_id", song.ID).Msg("stage song objects failed")

		return nil, Internal(MsgSongUpdateFailure)
	}

	before := s.payload(song)
	applySongUpdate(song, req, s.content)

	if err := s.songs.Save(ctx, song); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgSongTitleTaken)
		}

		return nil, fmt.Errorf("update song: %w", err)
	}

	s.content.release(ctx, before, changes)
	s.events.ContentUpdated(ctx, s.payload(song))

	return song, nil
}

// UpdateListens 播放量加一，返回提示信息.
func (s *SongService) UpdateListens(ctx context.Context, id uint) (string, *model.Song, error) {
	song, err := s.songs.IncrementListens(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, BadRequest(MsgSongNoListens)
	}

	if err != nil {
		return "", nil, fmt.Errorf("update listens: %w", err)
	}

	p := s.payload(song)
	p.Counter = song.Listens
	s.events.ContentInteracted(ctx, p)

	return fmt.Sprintf("Song with title '%s' has %d listens.", strings.TrimSpace(song.Title), song.Listens), song, nil
}

// Delete 删除歌曲及其对象.
func (s *SongService) Delete(ctx context.Context, id uint) error {
	song, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	p := s.payload(song)
	s.content.purge(ctx, p, map[s3.Kind]string{
		s3.KindSong:       song.SongKey,
		s3.KindCoverImage: song.CoverImageKey,
	})

	ok, err := s.songs.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}

	if !ok {
		return BadRequest(MsgSongNotFound)
	}

	s.events.ContentDeleted(ctx, p)

	return nil
}

func (s *SongService) payload(song *model.Song) queue.ContentPayload {
	return queue.ContentPayload{
		Kind:   contentSong,
		ID:     song.ID,
		Title:  song.Title,
		Status: song.Status,
		Objects: s.content.refs(
			keyChange{kind: s3.KindSong, new: song.SongKey},
			keyChange{kind: s3.KindCoverImage, new: song.CoverImageKey},
		),
	}
}

func applySongUpdate(song *model.Song, req *types.UpdateSongRequest, r *reconciler) {
	if req.Title != nil {
		song.Title = strings.TrimSpace(*req.Title)
	}

	if req.Description != nil {
		song.Description = *req.Description
	}

	if req.Tags != nil {
		song.Tags = splitTags(*req.Tags)
	}

	if req.Duration != nil {
		song.Duration = *req.Duration
	}

	if req.Author != nil {
		song.Author = *req.Author
	}

	if req.Status != nil && *req.Status != "" {
		song.Status = *req.Status
	}

	if req.SongKey != nil && *req.SongKey != "" {
		song.SongKey = *req.SongKey
	}

	if req.CoverImageKey != nil && *req.CoverImageKey != "" {
		song.CoverImageKey = *req.CoverImageKey
	}

	song.URL = r.distribution(s3.KindSong, song.SongKey, deref(req.URL, song.URL))
	song.CoverImage = r.distribution(s3.KindCoverImage, song.CoverImageKey, deref(req.CoverImage, song.CoverImage))
}

// songUpload 更新请求包含上传所需的全部字段时转换为上传请求.
func songUpload(req *types.UpdateSongRequest) (*types.UploadSongRequest, bool) {
	fields := []*string{req.Title, req.Description, req.Tags, req.URL, req.Duration, req.SongKey, req.CoverImage, req.CoverImageKey}
	for _, f := range fields {
		if f == nil || strings.TrimSpace(*f) == "" {
			return nil, false
		}
	}

	return &types.UploadSongRequest{
		Title:         *req.Title,
		Description:   *req.Description,
		Tags:          *req.Tags,
		URL:           *req.URL,
		Duration:      *req.Duration,
		SongKey:       *req.SongKey,
		CoverImage:    *req.CoverImage,
		CoverImageKey: *req.CoverImageKey,
		Author:        deref(req.Author, ""),
	}, true
}
