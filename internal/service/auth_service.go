package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saharaestate/backend/internal/core/mail"
	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/pkg/utils"
)

const otpTTL = 10 * time.Minute

type AuthService struct {
	users domain.UserRepository
	mail  mail.Sender
	log   *zap.Logger

	// 测试注入点
	now     func() time.Time
	genCode func() string
}

func NewAuthService(users domain.UserRepository, sender mail.Sender, log *zap.Logger) *AuthService {
	return &AuthService{
		users:   users,
		mail:    sender,
		log:     log,
		now:     time.Now,
		genCode: utils.NewOTPCode,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string // 创建时一次性指定，之后没有任何接口能改
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	role := in.Role
	switch role {
	case "":
		role = domain.RoleCustomer
	case domain.RoleCustomer, domain.RoleOwner:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrConflict, in.Role)
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Avatar:       domain.DefaultAvatar,
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("role", u.Role))
	return u, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrWrongCredentials
	}
	return u, nil
}

type FederatedInput struct {
	Email string
	Name  string
	Photo string
}

// Federated Google 登录：已有账号直接放行，否则以 customer 角色自动建号。
// 占位密码随机生成且不下发，之后只能继续走联合登录。
func (s *AuthService) Federated(ctx context.Context, in FederatedInput) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	username := strings.ToLower(strings.ReplaceAll(in.Name, " ", "")) + utils.NewUsernameSuffix()
	avatar := in.Photo
	if avatar == "" {
		avatar = domain.DefaultAvatar
	}
	u = &domain.User{
		ID:           utils.NewID(),
		Username:     username,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(utils.NewRandomPassword()),
		Avatar:       avatar,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("federated user provisioned", zap.String("user_id", u.ID))
	return u, nil
}

// ForgotPassword 下发 6 位验证码，有效期 10 分钟。
// 再次调用会直接覆盖旧码（旧码随之作废），没有冷却时间。
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}

	code := s.genCode()
	expires := s.now().Add(otpTTL)
	u.OTPCode = &code
	u.OTPExpiresAt = &expires
	if err := s.users.Update(ctx, u); err != nil {
		return err
	}

	subject, body := mail.OTPBody(code)
	if err := s.mail.Send(email, subject, body); err != nil {
		s.log.Error("otp mail dispatch failed", zap.String("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrMailDispatch, err)
	}
	return nil
}

// VerifyOTP 校验顺序固定：先比对再查过期。
// 过期但猜对的码报 Expired 而不是 InvalidCode。成功后两个字段立即清空，码只能用一次。
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	// 精确字符串比较，不去前导零、不做归一化
	if u.OTPCode == nil || *u.OTPCode != code {
		return domain.ErrInvalidCode
	}
	if s.now().After(*u.OTPExpiresAt) {
		return domain.ErrCodeExpired
	}
	u.ClearOTP()
	return s.users.Update(ctx, u)
}

// ResetPassword 无条件替换密码哈希。
// 这一步不校验之前是否 Verify 过——三个端点相互独立，顺序由客户端保证（与原实现一致，见 DESIGN.md）。
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrNotFound
	}
	u.PasswordHash = utils.HashPassword(newPassword)
	return s.users.Update(ctx, u)
}
