package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/handle"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/middleware"
)

// registerContent 歌曲与视频路由. 两组各自一个熔断器，对象存储持续失败时快速返回 503.
func (r *routes) registerContent(g *gin.RouterGroup, h *handle.Handler) {
	cb := r.d.Config.CircuitBreaker

	songs := g.Group("", middleware.CircuitBreakerMiddleware("songs", cb))
	{
		songs.GET("/getSongs", with(r.gate(model.PermSystemAdmin, model.PermContentView), h.GetSongs)...)
		songs.GET("/getSong/:songId", with(r.gate(model.PermSystemAdmin, model.PermContentView), h.GetSong)...)
		songs.POST("/uploadSong", with(r.gate(model.PermSystemAdmin, model.PermContentCreate), h.UploadSong)...)
		songs.PUT("/updateSong", with(r.gate(model.PermSystemAdmin, model.PermContentUpdate), h.UpdateSong)...)
		songs.PUT("/updateListens", with(r.gate(model.PermSystemAdmin, model.PermContentInteract), h.UpdateListens)...)
		songs.DELETE("/deleteSong/:songId", with(r.gate(model.PermSystemAdmin, model.PermContentDelete), h.DeleteSong)...)
	}

	videos := g.Group("", middleware.CircuitBreakerMiddleware("videos", cb))
	{
		videos.GET("/getVideos", with(r.gate(model.PermSystemAdmin, model.PermContentView), h.GetVideos)...)
		videos.GET("/getVideo/:videoId", with(r.gate(model.PermSystemAdmin, model.PermContentView), h.GetVideo)...)
		videos.POST("/uploadVideo", with(r.gate(model.PermSystemAdmin, model.PermContentCreate), h.UploadVideo)...)
		videos.PUT("/updateVideo", with(r.gate(model.PermSystemAdmin, model.PermContentUpdate), h.UpdateVideo)...)
		videos.PUT("/updateViews", with(r.gate(model.PermSystemAdmin, model.PermContentInteract), h.UpdateViews)...)
		videos.DELETE("/deleteVideo/:videoId", with(r.gate(model.PermSystemAdmin, model.PermContentDelete), h.DeleteVideo)...)
	}
}
