// Package auth 提供访问令牌签发与校验、密码哈希以及一次性验证码生成.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yeisme/hydrogen/pkg/configs"
)

var (
	// ErrTokenExpired 令牌已过期.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid 签名无效或不是本服务签发.
	ErrTokenInvalid = errors.New("token invalid")
)

// ClaimsData 令牌携带的用户信息.
type ClaimsData struct {
	IsAdmin bool   `json:"isAdmin"`
	Email   string `json:"email"`
	UserID  uint   `json:"userId"`
}

// Claims JWT 声明.
type Claims struct {
	Data ClaimsData `json:"data"`
	jwt.RegisteredClaims
}

// Signer 使用 HS256 签发与校验令牌.
type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSigner 根据认证配置创建签发器，issuer 一般为应用名.
func NewSigner(cfg configs.AuthConfig, issuer string) *Signer {
	return &Signer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL(),
		issuer: issuer,
		now:    time.Now,
	}
}

// SetClock 替换时钟.
func (s *Signer) SetClock(now func() time.Time) {
	s.now = now
}

// Generate 签发令牌.
func (s *Signer) Generate(data ClaimsData) (string, error) {
	now := s.now()

	claims := Claims{
		Data: data,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return token, nil
}

// Parse 校验令牌并返回声明. 过期返回 ErrTokenExpired，其余校验失败返回 ErrTokenInvalid.
func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", ErrTokenExpired, err)
	default:
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
}
