package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/types"
)

const (
	MsgTagsFetched   = "Fetcing of tags action was successful."
	MsgTagFetched    = "Tags was successfully fetched."
	MsgTagCreated    = "Tags created with success."
	MsgTagUpdated    = "Tags was successfully updated."
	MsgTagNotFound   = "Tag with id does not exist."
	MsgTagNameExists = "Tag with name already exists."
	MsgTagNoUpdate   = "Unable to find tag to update details."
	MsgTagNoDelete   = "Unable to find tag to delete details."
)

// TagService 标签管理.
type TagService struct {
	tags *repository.TagRepository
}

// NewTagService 创建标签服务.
func NewTagService(repos *repository.Repositories) *TagService {
	return &TagService{tags: repos.Tags}
}

// List 分页查询标签.
func (s *TagService) List(ctx context.Context, q repository.Query) ([]model.Tag, error) {
	tags, err := s.tags.Paginate(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

// Get 按 ID 查询标签.
func (s *TagService) Get(ctx context.Context, id uint) (*model.Tag, error) {
	return s.find(ctx, id, MsgTagNotFound)
}

// Create 创建标签，未提供 value 时使用名称.
func (s *TagService) Create(ctx context.Context, req *types.CreateTagRequest) (*model.Tag, error) {
	name := strings.TrimSpace(req.Name)

	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	value := strings.TrimSpace(req.Value)
	if value == "" {
		value = name
	}

	tag := &model.Tag{Name: name, Value: value, Description: req.Description}

	if err := s.tags.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgTagNameExists)
		}

		return nil, fmt.Errorf("create tag: %w", err)
	}

	return tag, nil
}

// Update 更新标签.
func (s *TagService) Update(ctx context.Context, id uint, req *types.UpdateTagRequest) (*model.Tag, error) {
	tag, err := s.find(ctx, id, MsgTagNoUpdate)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := s.checkName(ctx, *req.Name, id); err != nil {
			return nil, err
		}

		tag.Name = strings.TrimSpace(*req.Name)
	}

	if req.Value != nil {
		tag.Value = strings.TrimSpace(*req.Value)
	}

	if req.Description != nil {
		tag.Description = *req.Description
	}

	if err := s.tags.Save(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, BadRequest(MsgTagNameExists)
		}

		return nil, fmt.Errorf("update tag: %w", err)
	}

	return tag, nil
}

// Delete 删除标签.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	ok, err := s.tags.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if !ok {
		return BadRequest(MsgTagNoDelete)
	}

	return nil
}

func (s *TagService) find(ctx context.Context, id uint, notFound string) (*model.Tag, error) {
	tag, err := s.tags.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(notFound)
	}

	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return tag, nil
}

func (s *TagService) checkName(ctx context.Context, name string, exceptID uint) error {
	taken, err := s.tags.NameTaken(ctx, strings.TrimSpace(name), exceptID)
	if err != nil {
		return fmt.Errorf("check tag name: %w", err)
	}

	if taken {
		return BadRequest(MsgTagNameExists)
	}

	return nil
}
