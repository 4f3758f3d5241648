// Package handle 提供 HTTP 请求处理器. 处理器只负责绑定与校验参数、调用 service 并渲染响应.
//
// 业务错误 (*service.Error) 渲染为 {errors:[{value,msg}]}，校验错误渲染为字段列表，
// 其余错误经 c.Error 交给 middleware.ErrorHandler 统一返回 500.
package handle

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/service"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	"github.com/yeisme/hydrogen/pkg/rule"
	"github.com/yeisme/hydrogen/pkg/scheduler"
)

// HealthChecker 检查存储组件.
type HealthChecker interface {
	Health(ctx context.Context, component string) error
}

// JobLister 列出定时任务.
type JobLister interface {
	GetJobInfos() []scheduler.JobInfo
}

// Handler 聚合所有请求处理器的依赖.
type Handler struct {
	cfg     func() *configs.AppConfig
	svc     *service.Services
	health  HealthChecker
	jobs    JobLister
	started time.Time
}

// Option Handler 选项.
type Option func(*Handler)

// WithConfigSource 替换配置来源，默认 configs.GetConfig（支持热重载）.
func WithConfigSource(src func() *configs.AppConfig) Option {
	return func(h *Handler) { h.cfg = src }
}

// WithHealth 注入健康检查.
func WithHealth(hc HealthChecker) Option {
	return func(h *Handler) { h.health = hc }
}

// WithJobs 注入定时任务列表.
func WithJobs(j JobLister) Option {
	return func(h *Handler) { h.jobs = j }
}

// New 创建处理器集合.
func New(svc *service.Services, opts ...Option) *Handler {
	h := &Handler{
		cfg:     configs.GetConfig,
		svc:     svc,
		started: time.Now(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Respond 写出 JSON 响应.
func Respond(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Fail 渲染错误. 业务错误直接返回，其他错误交由 ErrorHandler.
func Fail(c *gin.Context, err error) {
	if se, ok := service.AsError(err); ok {
		c.AbortWithStatusJSON(se.Status, types.NewErrorResponse(se.Status, se.Message))
		return
	}

	_ = c.Error(err)
	c.Abort()
}

// bind 解析 JSON 请求体并校验，失败时写出 400.
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		validationFailed(c, obj, err)
		return false
	}

	return true
}

func validationFailed(c *gin.Context, obj any, err error) {
	fields := rule.Format(obj, err)

	items := make([]types.ErrorItem, 0, len(fields))
	for _, f := range fields {
		items = append(items, types.ErrorItem{Value: f.Value, Msg: f.Msg})
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{Errors: items})
}

// pathID 解析路径中的数字 ID，非法时按资源不存在返回 400.
func pathID(c *gin.Context, name, notFound string) (uint, bool) {
	raw := c.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, types.ErrorResponse{
			Errors: []types.ErrorItem{{Value: raw, Msg: notFound}},
		})

		return 0, false
	}

	return uint(id), true
}
