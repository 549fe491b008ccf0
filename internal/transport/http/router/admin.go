package router

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/saharaestate/backend/internal/domain"
	"github.com/saharaestate/backend/internal/service"
	httpez "github.com/saharaestate/backend/internal/transport/http/ez"
	mdw "github.com/saharaestate/backend/internal/transport/http/middleware"
)

// AdminDeps 后台引擎依赖：运维面，只做账号盘点和 owner 开通
type AdminDeps struct {
	Log   *zap.Logger
	DB    *gorm.DB
	Token string
	Users domain.UserRepository
	Auth  *service.AuthService
}

func NewAdminEngine(d AdminDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(100),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(d.Log, true),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	admin := r.Group("/admin/v1")
	admin.Use(mdw.StaticToken(d.Token))
	mountAdminActions(admin, d)

	return r
}

func mountAdminActions(admin *gin.RouterGroup, d AdminDeps) {
	ez := httpez.New(admin)

	// --- GET /admin/v1/users 用户列表 ---
	type listQ struct {
		Offset int    `form:"offset,default=0"`
		Limit  int    `form:"limit,default=20"`
		Q      string `form:"q"` // 按 email/username 模糊搜
	}
	type row struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}
	httpez.RegisterAction[listQ, listOut](ez, d.DB, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, _ *gorm.DB, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			us, total, err := d.Users.List(c.Request.Context(), in.Q, in.Offset, in.Limit)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(us))}
			for _, u := range us {
				out.Items = append(out.Items, row{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role})
			}
			return out, nil
		},
	})

	// --- POST /admin/v1/users 带角色建号：owner 账号的带外开通入口 ---
	type createIn struct {
		Username string `json:"username" binding:"required,max=64"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role"     binding:"required,oneof=customer owner"`
	}
	httpez.RegisterAction[createIn, *domain.User](ez, d.DB, httpez.Action[createIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *createIn) (*domain.User, error) {
			return d.Auth.Signup(c.Request.Context(), service.SignupInput{
				Username: in.Username,
				Email:    in.Email,
				Password: in.Password,
				Role:     in.Role,
			})
		},
	})

	// --- POST /admin/v1/users/:id/ban 封禁（软删） ---
	httpez.RegisterAction[struct{}, gin.H](ez, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/users/:id/ban",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			id := c.Param("id")
			if id == "" {
				return nil, httpez.BadRequest("missing id")
			}
			u, err := d.Users.FindByID(c.Request.Context(), id)
			if err != nil {
				return nil, httpez.Internal("ban user failed", err)
			}
			if u == nil {
				return nil, httpez.NotFound("user not found")
			}
			if err := d.Users.SoftDelete(c.Request.Context(), id); err != nil {
				return nil, httpez.Internal("ban user failed", err)
			}
			return gin.H{"id": id}, nil
		},
	})
}
