package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/saharaestate/backend/internal/domain"
)

// RequireOwner 单独挂（漏了 Authenticate）时必须拒绝，不能放行
func TestRequireOwnerFailsClosed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(setup func(c *gin.Context)) int {
		r := gin.New()
		r.Use(func(c *gin.Context) {
			if setup != nil {
				setup(c)
			}
			c.Next()
		})
		r.Use(RequireOwner())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		return w.Code
	}

	// 没有身份：拒
	assert.Equal(t, http.StatusForbidden, run(nil))

	// customer：拒
	assert.Equal(t, http.StatusForbidden, run(func(c *gin.Context) {
		c.Set(identityKey, &domain.User{ID: "u1", Role: domain.RoleCustomer})
	}))

	// context 里只有散装的 role 字符串、没有完整身份：同样拒
	assert.Equal(t, http.StatusForbidden, run(func(c *gin.Context) {
		c.Set("role", domain.RoleOwner)
	}))

	// 完整 owner 身份：放行
	assert.Equal(t, http.StatusOK, run(func(c *gin.Context) {
		c.Set(identityKey, &domain.User{ID: "u1", Role: domain.RoleOwner})
	}))
}

func TestTokenFromPrefersCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)

	mk := func(cookie, bearer string) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: "access_token", Value: cookie})
		}
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return tokenFrom(c)
	}

	assert.Equal(t, "from-cookie", mk("from-cookie", ""))
	assert.Equal(t, "from-header", mk("", "from-header"))
	// 两个都有时以 cookie 为准
	assert.Equal(t, "from-cookie", mk("from-cookie", "from-header"))
	assert.Equal(t, "", mk("", ""))
}

func TestStaticToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(guard gin.HandlerFunc, header string) int {
		r := gin.New()
		r.Use(guard)
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, run(StaticToken("s3cret"), "Bearer s3cret"))
	assert.Equal(t, http.StatusUnauthorized, run(StaticToken("s3cret"), "Bearer wrong"))
	assert.Equal(t, http.StatusUnauthorized, run(StaticToken("s3cret"), ""))
	// 空配置视为关死，而不是全放
	assert.Equal(t, http.StatusUnauthorized, run(StaticToken(""), "Bearer "))
}
