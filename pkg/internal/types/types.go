// Package types 定义 HTTP 请求与响应结构. 请求结构使用 rule 标签校验，msg 标签给出自定义提示.
package types

import "net/http"

// ErrorItem 错误条目，与校验错误共用 {value, msg} 结构.
type ErrorItem struct {
	Value any    `json:"value"`
	Msg   string `json:"msg"`
}

// ErrorResponse 业务、认证与校验错误的响应体.
type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

// NewErrorResponse 构造单条错误，value 为状态码对应的文本.
func NewErrorResponse(status int, msg string) ErrorResponse {
	return ErrorResponse{Errors: []ErrorItem{{Value: http.StatusText(status), Msg: msg}}}
}

// InternalErrorResponse 未预期错误的响应体.
type InternalErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse 仅包含提示信息的响应体.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProbeResponse 存活探针响应.
type ProbeResponse struct {
	Uptime  string `json:"uptime"`
	Date    string `json:"date"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// HealthResponse 组件健康检查响应.
type HealthResponse struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// NotFoundResponse 未匹配路由.
var NotFoundResponse = MessageResponse{Message: "Not Found"}
