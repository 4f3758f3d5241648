package types

import "github.com/yeisme/hydrogen/pkg/internal/model"

// LoginRequest 登录.
type LoginRequest struct {
	Email    string `json:"email"    rule:"required,email" msg:"Must provide a valid email."`
	Password string `json:"password" rule:"required"       msg:"Must provide a password."`
}

// LoginResponse 登录成功.
type LoginResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
	Token   string      `json:"token"`
}

// PasswordResetRequest 申请重置密码.
type PasswordResetRequest struct {
	Email string `json:"email" rule:"required,email" msg:"Must provide a valid email."`
}

// VerifyOTPRequest 校验验证码.
type VerifyOTPRequest struct {
	Email   string `json:"email"   rule:"required,email" msg:"Must provide a valid email."`
	OTPCode string `json:"otpCode" rule:"required"       msg:"Must provide the code sent by email."`
}

// VerifyOTPResponse 验证码校验成功，返回用于修改密码的令牌.
type VerifyOTPResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ChangePasswordRequest 使用验证令牌修改密码.
type ChangePasswordRequest struct {
	Email    string `json:"email"    rule:"required,email"          msg:"Must provide a valid email."`
	Token    string `json:"token"    rule:"required"                msg:"Must provide the verification token."`
	Password string `json:"password" rule:"required,strongpassword" msg:"Please enter a password at least 8 characters, at least one uppercase letter, one lowercase letter, and one special character."`
}
