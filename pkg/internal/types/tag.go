package types

import "github.com/yeisme/hydrogen/pkg/internal/model"

// CreateTagRequest 创建标签.
type CreateTagRequest struct {
	Name        string `json:"name"        rule:"required" msg:"Must provide a tag name."`
	Value       string `json:"value"`
	Description string `json:"description" rule:"required" msg:"Must provide a tag description."`
}

// UpdateTagRequest 更新标签.
type UpdateTagRequest struct {
	Name        *string `json:"name"`
	Value       *string `json:"value"`
	Description *string `json:"description"`
}

// TagsResponse 标签列表.
type TagsResponse struct {
	Message string      `json:"message"`
	Tags    []model.Tag `json:"tags"`
}

// TagResponse 单个标签.
type TagResponse struct {
	Message string     `json:"message"`
	Tag     *model.Tag `json:"tag"`
}
