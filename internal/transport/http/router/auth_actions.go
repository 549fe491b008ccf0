package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/core/auth"
	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/service"
	httpez "github.com/saharaestate/backend/internal/transport/http/ez"
)

// setSession 登录成功后签发 JWT 并通过 HTTP-only cookie 下发
func setSession(c *gin.Context, j *auth.JWTer, u *domain.User) error {
	tok, err := j.Issue(u.ID, u.Role)
	if err != nil {
		return httpez.Internal("issue token failed", err)
	}
	c.SetCookie(auth.CookieName, tok, int(j.TTL.Seconds()), "/", "", false, true)
	return nil
}

func clearSession(c *gin.Context) {
	c.SetCookie(auth.CookieName, "", -1, "/", "", false, true)
}

func mountAuthActions(public *gin.RouterGroup, d APIDeps) {
	ez := httpez.New(public)

	// --- POST /api/v1/auth/signup ---
	type signupIn struct {
		Username string `json:"username" binding:"required,max=64"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"     binding:"omitempty,oneof=customer owner"`
	}
	httpez.RegisterAction[signupIn, gin.H](ez, d.DB, httpez.Action[signupIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/signup",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *signupIn) (gin.H, error) {
			if _, err := d.Auth.Signup(c.Request.Context(), service.SignupInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
			}); err != nil {
				return nil, err
			}
			return gin.H{"message": "User created successfully!"}, nil
		},
	})

	// --- POST /api/v1/auth/signin ---
	type signinIn struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	httpez.RegisterAction[signinIn, *domain.User](ez, d.DB, httpez.Action[signinIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/signin",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *signinIn) (*domain.User, error) {
			u, err := d.Auth.SignIn(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			if err := setSession(c, d.JWT, u); err != nil {
				return nil, err
			}
			// PasswordHash 带 json:"-"，载荷里永远不会出现哈希
			return u, nil
		},
	})

	// --- POST /api/v1/auth/google ---
	type googleIn struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name"  binding:"required"`
		Photo string `json:"photo"`
	}
	httpez.RegisterAction[googleIn, *domain.User](ez, d.DB, httpez.Action[googleIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/google",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *googleIn) (*domain.User, error) {
			u, err := d.Auth.Federated(c.Request.Context(), service.FederatedInput{
				Email: in.Email,
				Name:  in.Name,
				Photo: in.Photo,
			})
			if err != nil {
				return nil, err
			}
			if err := setSession(c, d.JWT, u); err != nil {
				return nil, err
			}
			return u, nil
		},
	})

	// --- GET /api/v1/auth/signout ---
	httpez.RegisterAction[struct{}, gin.H](ez, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodGet,
		Path:   "/auth/signout",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			clearSession(c)
			return gin.H{"message": "User has been logged out!"}, nil
		},
	})

	// --- POST /api/v1/auth/forgot-password ---
	type emailIn struct {
		Email string `json:"email" binding:"required,email"`
	}
	httpez.RegisterAction[emailIn, gin.H](ez, d.DB, httpez.Action[emailIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *emailIn) (gin.H, error) {
			if err := d.Auth.ForgotPassword(c.Request.Context(), in.Email); err != nil {
				return nil, err
			}
			// 验证码只进邮箱，不回显
			return gin.H{"message": "OTP sent to your email!"}, nil
		},
	})

	// --- POST /api/v1/auth/verify-otp ---
	type verifyIn struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp"   binding:"required"`
	}
	httpez.RegisterAction[verifyIn, gin.H](ez, d.DB, httpez.Action[verifyIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/verify-otp",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *verifyIn) (gin.H, error) {
			if err := d.Auth.VerifyOTP(c.Request.Context(), in.Email, in.OTP); err != nil {
				return nil, err
			}
			return gin.H{"message": "OTP verified successfully!"}, nil
		},
	})

	// --- POST /api/v1/auth/reset-password ---
	type resetIn struct {
		Email       string `json:"email"       binding:"required,email"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	httpez.RegisterAction[resetIn, gin.H](ez, d.DB, httpez.Action[resetIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/reset-password",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *resetIn) (gin.H, error) {
			if err := d.Auth.ResetPassword(c.Request.Context(), in.Email, in.NewPassword); err != nil {
				return nil, err
			}
			return gin.H{"message": "Password reset successfully!"}, nil
		},
	})
}
