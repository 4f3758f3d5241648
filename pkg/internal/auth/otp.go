package auth

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// OTPAlphabet 验证码字符集.
	OTPAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	// DefaultOTPLength 验证码默认长度.
	DefaultOTPLength = 6
)

// GenerateOTP 生成一次性验证码.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = DefaultOTPLength
	}

	code, err := gonanoid.Generate(OTPAlphabet, length)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	return code, nil
}
