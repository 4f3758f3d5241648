package rule

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/hydrogen/pkg/internal/model"
)

// PasswordSpecials 强密码需要包含的特殊字符之一.
const PasswordSpecials = "#?!@$%^&*-"

// PasswordMessage 强密码校验失败提示.
const PasswordMessage = "Please enter a password at least 8 characters, at least one uppercase letter, " +
	"one lowercase letter, and one special character."

func registerCustom(v *validator.Validate) {
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	_ = v.RegisterValidation("usstate", func(fl validator.FieldLevel) bool {
		return model.IsState(fl.Field().String())
	})
}

// IsStrongPassword 至少 8 个字符，包含大写、小写字母与一个特殊字符.
func IsStrongPassword(pw string) bool {
	if len([]rune(pw)) < 8 {
		return false
	}

	var upper, lower, special bool

	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}

	return upper && lower && special
}
