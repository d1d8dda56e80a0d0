package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/auth"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

const (
	userKey           = "user"
	SessionCookieName = "session"
	// имя поля формы с токеном CSRF; так его отправляют формы таблицы
	CSRFFieldName  = "sesskey"
	CSRFHeaderName = "X-CSRF-Token"
)

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Auth проверяет сессионный токен (Bearer или cookie session) и кладёт пользователя в контекст.
// Роль берётся из базы, а не из токена
func Auth(tokens TokenParser, users UserLookup, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.Request)
		if raw == "" {
			raw, _ = c.Cookie(SessionCookieName)
		}
		if raw == "" {
			Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			logger.Debug("Rejected session token", zap.Error(err))
			Unauthorized(c)
			c.Abort()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			Unauthorized(c)
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			logger.Error("Failed to load session user", zap.Int64("user_id", userID), zap.Error(err))
			InternalError(c)
			c.Abort()
			return
		}
		if user == nil {
			Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// MustGetUser пользователь из контекста; при отсутствии пишет 401
func MustGetUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		Unauthorized(c)
		return nil, false
	}
	user, ok := v.(*model.User)
	if !ok || user == nil {
		Unauthorized(c)
		return nil, false
	}
	return user, true
}

// CSRF защищает изменяющие запросы с cookie-сессией. Запросы с Bearer-токеном не проверяются:
// браузер не подставляет заголовок Authorization сам
func CSRF(key []byte, secure bool, logger *zap.Logger) gin.HandlerFunc {
	failure := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("CSRF check failed",
			zap.String("path", r.URL.Path),
			zap.Error(csrf.FailureReason(r)))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(Response{Code: codeCSRF, Message: "Сессия устарела, обновите страницу"})
	})

	protect := csrf.Protect(key,
		csrf.FieldName(CSRFFieldName),
		csrf.RequestHeader(CSRFHeaderName),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(failure),
	)

	return func(c *gin.Context) {
		// Для GET проверка не выполняется, но токен нужен формам страницы
		if bearerToken(c.Request) != "" && !safeMethod(c.Request.Method) {
			c.Request = csrf.UnsafeSkipCheck(c.Request)
		}

		passed := false
		protect(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
		}
	}
}

func safeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
