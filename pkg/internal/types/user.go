package types

import "github.com/yeisme/hydrogen/pkg/internal/model"

// CreateUserRequest 创建用户（同时用于注册）.
type CreateUserRequest struct {
	Email    string `json:"email"    rule:"required,email"          msg:"Must provide a valid email."`
	Password string `json:"password" rule:"required,strongpassword" msg:"Please enter a password at least 8 characters, at least one uppercase letter, one lowercase letter, and one special character."`
	FullName string `json:"fullName" rule:"required"                msg:"Must provide a full name."`
	DOB      string `json:"dob"`
	Gender   string `json:"gender"`
	City     string `json:"city"`
	State    string `json:"state"    rule:"omitempty,usstate"       msg:"Must provide a valid state."`
	ZipCode  string `json:"zipCode"`
	IsAdmin  bool   `json:"isAdmin"`
	Role     string `json:"role"`
}

// UpdateUserRequest 更新用户，未提供的字段保持不变.
type UpdateUserRequest struct {
	Email    *string `json:"email"    rule:"omitempty,email"          msg:"Must provide a valid email."`
	Password *string `json:"password" rule:"omitempty,strongpassword" msg:"Please enter a password at least 8 characters, at least one uppercase letter, one lowercase letter, and one special character."`
	FullName *string `json:"fullName"`
	DOB      *string `json:"dob"`
	Gender   *string `json:"gender"`
	City     *string `json:"city"`
	State    *string `json:"state"    rule:"omitempty,usstate"        msg:"Must provide a valid state."`
	ZipCode  *string `json:"zipCode"`
	IsAdmin  *bool   `json:"isAdmin"`
	Role     *string `json:"role"`
}

// UserSummary 更新用户后返回的摘要.
type UserSummary struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	City     string `json:"city"`
	State    string `json:"state"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UsersResponse 用户列表.
type UsersResponse struct {
	Message string       `json:"message"`
	Users   []model.User `json:"users"`
}

// UserResponse 单个用户.
type UserResponse struct {
	Message string      `json:"message"`
	User    *model.User `json:"user"`
}

// UpdateUserResponse 更新用户结果.
type UpdateUserResponse struct {
	Message string       `json:"message"`
	User    *UserSummary `json:"user"`
}

// LoginsResponse 登录记录.
type LoginsResponse struct {
	Message string        `json:"message"`
	Logins  []model.Login `json:"logins"`
}
