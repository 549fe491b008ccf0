package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/repo"
	"github.com/saharaestate/backend/pkg/utils"
)

func newAuthFixture(t *testing.T) (*AuthService, domain.UserRepository, *fakeSender) {
	t.Helper()
	users := repo.NewUserRepo(testDB(t))
	sender := &fakeSender{}
	svc := NewAuthService(users, sender, testLogger())
	return svc, users, sender
}

func mustSignup(t *testing.T, svc *AuthService, email, role string) *domain.User {
	t.Helper()
	u, err := svc.Signup(context.Background(), SignupInput{
		Username: "user-" + utils.NewUsernameSuffix(),
		Email:    email,
		Password: "secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestSignupDefaultsToCustomer(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	u := mustSignup(t, svc, "a@x.com", "")
	assert.Equal(t, domain.RoleCustomer, u.Role)

	stored, err := users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret123", stored.PasswordHash, "plaintext must never be stored")
	assert.True(t, utils.CheckPassword("secret123", stored.PasswordHash))
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	mustSignup(t, svc, "a@x.com", "")
	_, err := svc.Signup(context.Background(), SignupInput{
		Username: "someone-else",
		Email:    "a@x.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestSignIn(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	t.Run("success", func(t *testing.T) {
		u, err := svc.SignIn(context.Background(), "a@x.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", u.Email)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "nobody@x.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "a@x.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrWrongCredentials)
	})
}

func TestFederatedProvisionsCustomer(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	u, err := svc.Federated(context.Background(), FederatedInput{
		Email: "g@x.com",
		Name:  "Jane Doe",
		Photo: "https://example.com/p.png",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.True(t, len(u.Username) > len("janedoe"), "username carries a random suffix")
	assert.Contains(t, u.Username, "janedoe")
	assert.NotEmpty(t, u.PasswordHash)

	// 已有账号：不再新建，角色原样返回
	stored, err := users.FindByEmail(context.Background(), "g@x.com")
	require.NoError(t, err)
	again, err := svc.Federated(context.Background(), FederatedInput{Email: "g@x.com", Name: "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, stored.ID, again.ID)
}

func TestForgotPasswordIssuesOTP(t *testing.T) {
	svc, users, sender := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	svc.genCode = func() string { return "482913" }

	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	// 恰好一封外发邮件，验证码在正文里
	assert.Equal(t, 1, sender.count())
	assert.Contains(t, sender.last().Body, "482913")

	u, err := users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.True(t, u.HasActiveOTP())
	assert.Equal(t, "482913", *u.OTPCode)
	assert.WithinDuration(t, base.Add(10*time.Minute), *u.OTPExpiresAt, time.Second)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, sender.count())
}

func TestForgotPasswordDispatchFailure(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")
	sender.failNext = true

	err := svc.ForgotPassword(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, domain.ErrMailDispatch)
}

func TestVerifyOTPSingleUse(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	svc.genCode = func() string { return "482913" }
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	// +5 分钟验证成功，两个字段同时清空
	svc.now = func() time.Time { return base.Add(5 * time.Minute) }
	require.NoError(t, svc.VerifyOTP(context.Background(), "a@x.com", "482913"))

	u, err := users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, u.OTPCode)
	assert.Nil(t, u.OTPExpiresAt)

	// 同一个码第二次必须是 InvalidCode（已被清掉）
	err = svc.VerifyOTP(context.Background(), "a@x.com", "482913")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerifyOTPExpiredAfterMatch(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	svc.genCode = func() string { return "482913" }
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	svc.now = func() time.Time { return base.Add(11 * time.Minute) }

	// 过期但码对：报 Expired，不是 InvalidCode（先比对再查过期）
	err := svc.VerifyOTP(context.Background(), "a@x.com", "482913")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)

	// 过期且码错：报 InvalidCode
	err = svc.VerifyOTP(context.Background(), "a@x.com", "000000")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
}

func TestVerifyOTPMismatch(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	svc.genCode = func() string { return "482913" }
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	err := svc.VerifyOTP(context.Background(), "a@x.com", "123456")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	// 没有在途验证码的用户同样报 InvalidCode
	mustSignup(t, svc, "b@x.com", "")
	err = svc.VerifyOTP(context.Background(), "b@x.com", "482913")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	err = svc.VerifyOTP(context.Background(), "nobody@x.com", "482913")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReissueOverwritesPriorOTP(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	svc.genCode = func() string { return "111111" }
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	svc.genCode = func() string { return "222222" }
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))
	assert.Equal(t, 2, sender.count())

	// 旧码作废，新码生效
	assert.ErrorIs(t, svc.VerifyOTP(context.Background(), "a@x.com", "111111"), domain.ErrInvalidCode)
	assert.NoError(t, svc.VerifyOTP(context.Background(), "a@x.com", "222222"))
}

func TestResetPasswordIsUnconditional(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	mustSignup(t, svc, "a@x.com", "")

	// 从未 Verify 过也能重置——端点相互独立（与原行为一致）
	require.NoError(t, svc.ResetPassword(context.Background(), "a@x.com", "brand-new-pass"))

	_, err := svc.SignIn(context.Background(), "a@x.com", "secret123")
	assert.ErrorIs(t, err, domain.ErrWrongCredentials)
	_, err = svc.SignIn(context.Background(), "a@x.com", "brand-new-pass")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.ResetPassword(context.Background(), "nobody@x.com", "x1y2z3"), domain.ErrNotFound)
}
