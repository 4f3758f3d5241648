package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/internal/auth"
	"github.com/yeisme/hydrogen/pkg/internal/model"
	"github.com/yeisme/hydrogen/pkg/internal/repository"
	"github.com/yeisme/hydrogen/pkg/internal/types"
	nlog "github.com/yeisme/hydrogen/pkg/log"
	"github.com/yeisme/hydrogen/pkg/queue"
)

const (
	MsgLoginSuccess       = "Successful login"
	MsgEmailNotFound      = "Unable to find user with email provided."
	MsgBadCredentials     = "Username and password combination was incorrect."
	MsgResetRequested     = "Password reset success! An email with instructions has been sent."
	MsgCodeVerified       = "Code was verified successfully."
	MsgCodeNotFound       = "Unable to find code to verify."
	MsgCodeInvalid        = "Unable to verify code"
	MsgPasswordChanged    = "Password reset successful."
	MsgTokenMismatch      = "Token provided does not match."
	MsgResetRequestFailed = "Unable to create code for password reset."
)

// Client 登录请求的客户端信息.
type Client struct {
	IP        string
	UserAgent string
}

// AuthService 登录、注册与验证码重置密码.
type AuthService struct {
	users  *repository.UserRepository
	logins *repository.LoginRepository
	codes  *repository.CodeRepository
	signup *UserService
	signer *auth.Signer
	events *queue.Publisher
	cfg    configs.AuthConfig
	clock  clock
}

// NewAuthService 创建认证服务.
func NewAuthService(repos *repository.Repositories, users *UserService, signer *auth.Signer, events *queue.Publisher, cfg configs.AuthConfig) *AuthService {
	return &AuthService{
		users:  repos.Users,
		logins: repos.Logins,
		codes:  repos.Codes,
		signup: users,
		signer: signer,
		events: events,
		cfg:    cfg,
	}
}

// SetClock 替换时钟.
func (s *AuthService) SetClock(now func() time.Time) {
	s.clock = now
}

// Login 校验邮箱与密码，记录登录并签发令牌.
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest, client Client) (*model.User, string, error) {
	user, err := s.lookup(ctx, req.Email, MsgEmailNotFound)
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return nil, "", BadRequest(MsgBadCredentials)
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}

	now := s.clock.now()

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, "", fmt.Errorf("touch last login: %w", err)
	}

	user.LastLoggedIn = now

	if err := s.logins.Create(ctx, &model.Login{
		UserID:       user.ID,
		LastLoggedIn: now,
		IPAddress:    client.IP,
		UserAgent:    client.UserAgent,
	}); err != nil {
		return nil, "", err
	}

	s.events.UserLoggedIn(ctx, queue.UserLoggedInPayload{
		UserID:    user.ID,
		Email:     user.Email,
		IPAddress: client.IP,
		UserAgent: client.UserAgent,
	})

	return user, token, nil
}

// SignUp 注册，与创建用户一致.
func (s *AuthService) SignUp(ctx context.Context, req *types.CreateUserRequest) (*model.User, error) {
	return s.signup.Create(ctx, req)
}

// RequestPasswordReset 生成新验证码替换旧码，并发布邮件事件.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.lookup(ctx, email, MsgEmailNotFound)
	if err != nil {
		return err
	}

	otp, err := auth.GenerateOTP(s.cfg.OTPLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	code := &model.Code{
		UserID:    user.ID,
		Email:     user.Email,
		OTPCode:   otp,
		CreatedAt: s.clock.now(),
	}

	if err := s.codes.Replace(ctx, code); err != nil {
		nlog.Ctx(ctx).Error().Err(err).Uint("user_id", user.ID).Msg("store otp failed")

		return BadRequest(MsgResetRequestFailed)
	}

	s.events.PasswordResetRequested(ctx, queue.PasswordResetRequestedPayload{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		OTPCode:   otp,
		ExpiresIn: s.cfg.OTPExpiry,
	})

	return nil
}

// VerifyOTP 验证码与未过期的当前码完全一致时签发令牌.
func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	code, err := s.activeCode(ctx, email)
	if err != nil {
		return "", err
	}

	if code.Expired(s.clock.now(), s.cfg.OTPExpiry) || code.OTPCode != otp {
		return "", BadRequest(MsgCodeInvalid)
	}

	user, err := s.users.FindByID(ctx, code.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", BadRequest(MsgCodeInvalid)
	}

	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	return s.issue(user)
}

// ChangePassword 令牌属于该邮箱且验证码仍有效时修改密码并删除验证码.
func (s *AuthService) ChangePassword(ctx context.Context, req *types.ChangePasswordRequest) error {
	user, err := s.lookup(ctx, req.Email, MsgTokenMismatch)
	if err != nil {
		return err
	}

	claims, err := s.signer.Parse(req.Token)
	if err != nil || claims.Data.Email != user.Email || claims.Data.UserID != user.ID {
		return BadRequest(MsgTokenMismatch)
	}

	code, err := s.activeCode(ctx, user.Email)
	if err != nil || code.Expired(s.clock.now(), s.cfg.OTPExpiry) {
		return BadRequest(MsgTokenMismatch)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.HashCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.SetPassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("set password: %w", err)
	}

	if err := s.codes.DeleteByUser(ctx, user.ID); err != nil {
		return fmt.Errorf("delete code: %w", err)
	}

	s.events.PasswordChanged(ctx, queue.PasswordChangedPayload{UserID: user.ID, Email: user.Email})

	return nil
}

func (s *AuthService) lookup(ctx context.Context, email, notFound string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(notFound)
	}

	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

func (s *AuthService) activeCode(ctx context.Context, email string) (*model.Code, error) {
	code, err := s.codes.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, BadRequest(MsgCodeNotFound)
	}

	if err != nil {
		return nil, fmt.Errorf("find code: %w", err)
	}

	return code, nil
}

func (s *AuthService) issue(user *model.User) (string, error) {
	token, err := s.signer.Generate(auth.ClaimsData{
		IsAdmin: user.IsAdmin,
		Email:   user.Email,
		UserID:  user.ID,
	})
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}
