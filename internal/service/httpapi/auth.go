package httpapi

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// adminCookie — имя HTTP-only cookie админской сессии.
const adminCookie = "admin_token"

// sessionTTL — срок жизни админской сессии.
const sessionTTL = 24 * time.Hour

// AdminAuth проверяет пароль оператора и выдаёт подписанный
// session-токен в HTTP-only cookie.
type AdminAuth struct {
	password string
	secret   []byte
	// now подменяется в тестах.
	now func() time.Time
}

// NewAdminAuth создаёт проверку с паролем и ключом подписи токенов.
func NewAdminAuth(password, secret string) *AdminAuth {
	return &AdminAuth{
		password: password,
		secret:   []byte(secret),
		now:      time.Now,
	}
}

// issueToken выдаёт подписанный HS256-токен со сроком жизни сессии.
func (a *AdminAuth) issueToken() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// verifyToken проверяет подпись и срок жизни токена.
func (a *AdminAuth) verifyToken(raw string) bool {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(a.now), jwt.WithValidMethods([]string{"HS256"}))
	return err == nil && token.Valid
}

// checkPassword сравнивает пароль за постоянное время.
func (a *AdminAuth) checkPassword(candidate string) bool {
	if a.password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.password), []byte(candidate)) == 1
}

type loginRequest struct {
	Password string `json:"password"`
}

// handleLogin обрабатывает POST /api/admin/auth.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !s.auth.checkPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := s.auth.issueToken()
	if err != nil {
		s.logger.WithError(err).Error("failed to issue admin token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server configuration error"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, token, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleLogout обрабатывает DELETE /api/admin/auth.
func (s *Server) handleLogout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(adminCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// handleAuthStatus обрабатывает GET /api/admin/auth.
func (s *Server) handleAuthStatus(c *gin.Context) {
	token, err := c.Cookie(adminCookie)
	authenticated := err == nil && s.auth.verifyToken(token)
	c.JSON(http.StatusOK, gin.H{"authenticated": authenticated})
}

// requireAdmin пропускает только запросы с валидной админской сессией.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || !s.auth.verifyToken(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
