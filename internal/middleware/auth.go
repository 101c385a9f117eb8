package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/moviehub/internal/model"
	"github.com/user/moviehub/internal/utils"
)

const identityKey = "identity"

// Claims JWT 声明
type Claims struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

var errMissingToken = errors.New("未提供认证令牌")

// RequireAuth 必须登录中间件：缺少令牌返回 401，令牌无效或过期返回 403
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := extractClaims(c, jwtSecret)
		if errors.Is(err, errMissingToken) {
			utils.Abort(c, http.StatusUnauthorized, "未提供认证令牌")
			return
		}
		if err != nil {
			utils.Abort(c, http.StatusForbidden, "无效的令牌")
			return
		}

		// 将用户信息存入上下文
		c.Set(identityKey, model.Identity{ID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}

// extractClaims 从 Authorization Header 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if !strings.HasPrefix(authHeader, "Bearer ") || tokenString == "" {
		return nil, errMissingToken
	}

	return ParseToken(tokenString, jwtSecret)
}

// ParseToken 校验签名与有效期
func ParseToken(tokenString, jwtSecret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// GetIdentity 从上下文获取登录用户
func GetIdentity(c *gin.Context) (model.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}

// GenerateToken 生成 JWT Token，有效期在签发时确定
func GenerateToken(userID uint, username, jwtSecret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
