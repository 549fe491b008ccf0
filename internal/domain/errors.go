package domain

import "errors"

// 业务错误常量：service 层返回，transport 层统一映射成状态码
var (
	ErrNotFound         = errors.New("user not found")
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidCode      = errors.New("invalid otp")
	ErrCodeExpired      = errors.New("otp expired")
	ErrConflict         = errors.New("username or email already taken")
	ErrMailDispatch     = errors.New("failed to send email")
)
