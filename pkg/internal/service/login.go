package service

import (
	"context"
	"fmt"

	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
)

const MsgLoginsFetched = "Logins fetched from db with success"

// LoginService 登录记录查询.
type LoginService struct {
	logins *repository.LoginRepository
}

// NewLoginService 创建登录记录服务.
func NewLoginService(logins *repository.LoginRepository) *LoginService {
	return &LoginService{logins: logins}
}

// List 按时间倒序返回用户的登录记录.
func (s *LoginService) List(ctx context.Context, userID uint) ([]model.Login, error) {
	logins, err := s.logins.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list logins: %w", err)
	}

	return logins, nil
}
