package types

import "github.com/yeisme/hydrogen/pkg/internal/model"

// UploadSongRequest 上传歌曲元数据，Tags 为逗号分隔的字符串.
type UploadSongRequest struct {
	Title         string `json:"title"         rule:"required" msg:"Must provide a title for manual upload."`
	Description   string `json:"description"   rule:"required" msg:"Must provide a description for manual upload."`
	Tags          string `json:"tags"          rule:"required" msg:"Must provide tags for manual upload."`
	URL           string `json:"url"           rule:"required" msg:"Must provide the song url for upload."`
	Duration      string `json:"duration"      rule:"required" msg:"Must provide the duration of the song upload."`
	SongKey       string `json:"songKey"       rule:"required" msg:"Must provide the song key for s3 location."`
	CoverImage    string `json:"coverImage"    rule:"required" msg:"Must provide coverImage for manual upload."`
	CoverImageKey string `json:"coverImageKey" rule:"required" msg:"Must provide the coverImage key for s3 location."`
	Author        string `json:"author"`
}

// UpdateSongRequest 更新歌曲，songId 未知且字段完整时按上传处理.
type UpdateSongRequest struct {
	SongID        uint    `json:"songId"        rule:"required" msg:"Must provide a existing song id."`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Tags          *string `json:"tags"`
	URL           *string `json:"url"`
	Duration      *string `json:"duration"`
	SongKey       *string `json:"songKey"`
	CoverImage    *string `json:"coverImage"`
	CoverImageKey *string `json:"coverImageKey"`
	Author        *string `json:"author"`
	Status        *string `json:"status"`
}

// SongIDRequest 仅包含歌曲 ID.
type SongIDRequest struct {
	SongID uint `json:"songId" rule:"required" msg:"Must provide a existing song id."`
}

// UploadVideoRequest 上传视频元数据.
type UploadVideoRequest struct {
	Title        string `json:"title"        rule:"required" msg:"Must provide a title for manual upload."`
	Description  string `json:"description"  rule:"required" msg:"Must provide a description for manual upload."`
	Tags         string `json:"tags"         rule:"required" msg:"Must provide tags for manual upload."`
	URL          string `json:"url"          rule:"required" msg:"Must provide the video url for upload."`
	Duration     string `json:"duration"     rule:"required" msg:"Must provide the duration of the video upload."`
	VideoKey     string `json:"videoKey"     rule:"required" msg:"Must provide the video key for s3 location."`
	Thumbnail    string `json:"thumbnail"    rule:"required" msg:"Must provide thumbnail for manual upload."`
	ThumbnailKey string `json:"thumbnailKey" rule:"required" msg:"Must provide the thumbnail key for s3 location."`
	Author       string `json:"author"`
}

// UpdateVideoRequest 更新视频.
type UpdateVideoRequest struct {
	VideoID      uint    `json:"videoId"      rule:"required" msg:"Must provide a existing video id."`
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Tags         *string `json:"tags"`
	URL          *string `json:"url"`
	Duration     *string `json:"duration"`
	VideoKey     *string `json:"videoKey"`
	Thumbnail    *string `json:"thumbnail"`
	ThumbnailKey *string `json:"thumbnailKey"`
	Author       *string `json:"author"`
	Status       *string `json:"status"`
}

// VideoIDRequest 仅包含视频 ID.
type VideoIDRequest struct {
	VideoID uint `json:"videoId" rule:"required" msg:"Must provide a existing video id."`
}

// SongsResponse 歌曲列表.
type SongsResponse struct {
	Message string       `json:"message"`
	Songs   []model.Song `json:"songs"`
}

// SongResponse 单首歌曲.
type SongResponse struct {
	Message string      `json:"message"`
	Song    *model.Song `json:"song"`
}

// VideosResponse 视频列表.
type VideosResponse struct {
	Message string        `json:"message"`
	Videos  []model.Video `json:"videos"`
}

// VideoResponse 单个视频.
type VideoResponse struct {
	Message string       `json:"message"`
	Video   *model.Video `json:"video"`
}

// ListensResponse 播放量更新结果.
type ListensResponse struct {
	Message string `json:"message"`
	Listens int64  `json:"listens"`
}

// ViewsResponse 观看量更新结果.
type ViewsResponse struct {
	Message string `json:"message"`
	Views   int64  `json:"views"`
}
