package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// GetSongs 分页查询歌曲.
//
//	@Summary	歌曲列表
//	@Tags		songs
//	@Produce	json
//	@Param		title	query		string	false	"标题模糊匹配"
//	@Success	200		{object}	types.SongsResponse
//	@Security	BearerAuth
//	@Router		/getSongs [get]
func (h *Handler) GetSongs(c *gin.Context) {
	songs, err := h.svc.Songs.List(c.Request.Context(), repository.ParseQuery(c.Request.URL.Query()))
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.SongsResponse{Message: service.MsgSongsFetched, Songs: songs})
}

// GetSong 按 ID 查询歌曲.
func (h *Handler) GetSong(c *gin.Context) {
	id, ok := pathID(c, "songId", service.MsgSongNotFound)
	if !ok {
		return
	}

	song, err := h.svc.Songs.Get(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.SongResponse{Message: service.MsgSongFetched, Song: song})
}

// UploadSong 登记已上传到对象存储的歌曲.
//
//	@Summary	上传歌曲
//	@Tags		songs
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.UploadSongRequest	true	"歌曲信息"
//	@Success	201		{object}	types.SongResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/uploadSong [post]
func (h *Handler) UploadSong(c *gin.Context) {
	var req types.UploadSongRequest
	if !bind(c, &req) {
		return
	}

	song, err := h.svc.Songs.Upload(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusCreated, types.SongResponse{Message: service.MsgSongUploaded, Song: song})
}

// UpdateSong 更新歌曲，songId 在请求体中. 对象键变化时会迁移对象.
//
//	@Summary	更新歌曲
//	@Tags		songs
//	@Accept		json
//	@Produce	json
//	@Param		body	body		types.UpdateSongRequest	true	"更新字段"
//	@Success	200		{object}	types.SongResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Failure	500		{object}	types.ErrorResponse
//	@Security	BearerAuth
//	@Router		/updateSong [put]
func (h *Handler) UpdateSong(c *gin.Context) {
	var req types.UpdateSongRequest
	if !bind(c, &req) {
		return
	}

	song, err := h.svc.Songs.Update(c.Request.Context(), &req)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.SongResponse{Message: service.MsgSongUpdated, Song: song})
}

// UpdateListens 播放量加一.
func (h *Handler) UpdateListens(c *gin.Context) {
	var req types.SongIDRequest
	if !bind(c, &req) {
		return
	}

	msg, song, err := h.svc.Songs.UpdateListens(c.Request.Context(), req.SongID)
	if err != nil {
		Fail(c, err)
		return
	}

	Respond(c, http.StatusOK, types.ListensResponse{Message: msg, Listens: song.Listens})
}

// DeleteSong 删除歌曲及其对象.
func (h *Handler) DeleteSong(c *gin.Context) {
	id, ok := pathID(c, "songId", service.MsgSongNotFound)
	if !ok {
		return
	}

	if err := h.svc.Songs.Delete(c.Request.Context(), id); err != nil {
		Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
