package handle

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/internal/types"
)

// Welcome 根路由.
//
//	@Summary	欢迎信息
//	@Tags		main
//	@Produce	json
//	@Success	200	{object}	types.MessageResponse
//	@Router		/ [get]
func (h *Handler) Welcome(c *gin.Context) {
	name := h.cfg().App.DisplayName()
	Respond(c, http.StatusOK, types.MessageResponse{
		Message: fmt.Sprintf("Welcome to %s Service Manager Service!", name),
	})
}

// ProbeCheck 存活探针.
//
//	@Summary	存活探针
//	@Tags		main
//	@Produce	json
//	@Success	200	{object}	types.ProbeResponse
//	@Router		/probeCheck [get]
func (h *Handler) ProbeCheck(c *gin.Context) {
	cfg := h.cfg()
	Respond(c, http.StatusOK, types.ProbeResponse{
		Uptime:  FormatUptime(time.Since(h.started)),
		Date:    time.Now().UTC().Format(time.RFC3339Nano),
		Message: fmt.Sprintf("%s Service Manager service up and running!", cfg.App.DisplayName()),
		Version: cfg.App.Version,
	})
}

// GetIP 返回调用方 IP（纯文本）.
func (h *Handler) GetIP(c *gin.Context) {
	c.String(http.StatusOK, c.ClientIP())
}

// GetConfiguration 返回隐藏密钥后的生效配置.
func (h *Handler) GetConfiguration(c *gin.Context) {
	Respond(c, http.StatusOK, h.cfg().Masked())
}

// NotFound 未匹配的路由.
func (h *Handler) NotFound(c *gin.Context) {
	Respond(c, http.StatusNotFound, types.NotFoundResponse)
}

// FormatUptime 格式化为 HH:MM:SS，小时数可超过 24.
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)

	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
