package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewOTPCode 生成 6 位数字验证码，均匀分布在 [100000, 999999]
func NewOTPCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand 只在系统熵源坏掉时失败
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}

// NewRandomPassword 生成不可猜测的随机密码（联合登录账号占位用，不会下发给用户）
func NewRandomPassword() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// NewUsernameSuffix 4 位随机后缀，避免联合登录生成的用户名撞车
func NewUsernameSuffix() string {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
