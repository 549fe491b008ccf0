package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/saharaestate/backend/internal/core/auth"
	"github.com/saharaestate/backend/internal/domain"
	resp "github.com/saharaestate/backend/internal/transport/http/response"
)

const identityKey = "identity"

// Authenticate 两段式鉴权的第一段：解析令牌并加载完整用户挂到请求上。
// 令牌优先取 HTTP-only cookie，其次 Authorization: Bearer。
// 角色判断（第二段）一律以这里挂上的完整记录为准，后续不再查库。
func Authenticate(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		u, err := users.FindByID(c.Request.Context(), claims.UID)
		if err != nil {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeServerError), resp.Error(resp.CodeServerError, "identity lookup failed"))
			return
		}
		if u == nil {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		c.Set(identityKey, u)
		c.Set("userId", u.ID)
		c.Set("role", u.Role)
		c.Next()
	}
}

// MaybeAuthenticate 公共读接口用：带令牌就挂身份，不带或无效则匿名继续
func MaybeAuthenticate(j *auth.JWTer, users domain.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			c.Next()
			return
		}
		claims, err := j.Parse(token)
		if err != nil {
			c.Next()
			return
		}
		if u, err := users.FindByID(c.Request.Context(), claims.UID); err == nil && u != nil {
			c.Set(identityKey, u)
			c.Set("userId", u.ID)
			c.Set("role", u.Role)
		}
		c.Next()
	}
}

// Identity 取出 Authenticate 挂上的用户；没有则 ok=false
func Identity(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// RequireOwner 角色闸门：纯谓词，只看已挂载身份的 role 字段。
// 必须排在 Authenticate 之后；身份缺失按非 owner 处理（fail closed）。
func RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := Identity(c)
		if !ok || u.Role != domain.RoleOwner {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeForbidden), resp.Error(resp.CodeForbidden, "Only owners can create listings!"))
			return
		}
		c.Next()
	}
}

// StaticToken 后台共享密钥校验（运维面，不走用户 JWT）
func StaticToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || c.GetHeader("Authorization") != "Bearer "+token {
			c.AbortWithStatusJSON(resp.HTTPStatus(resp.CodeUnauthorized), resp.Error(resp.CodeUnauthorized, "missing or invalid admin token"))
			return
		}
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(auth.CookieName); err == nil && v != "" {
		return v
	}
	const prefix = "Bearer "
	if ah := c.GetHeader("Authorization"); len(ah) > len(prefix) && ah[:len(prefix)] == prefix {
		return ah[len(prefix):]
	}
	return ""
}
