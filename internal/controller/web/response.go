package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response единый конверт JSON-ответов
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// Коды ошибок в конверте
const (
	codeBadRequest   = 10001
	codeUnauthorized = 10002
	codeForbidden    = 10003
	codeNotFound     = 10004
	codeCSRF         = 10005
	codeInternal     = 50000
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, Response{Code: code, Message: message})
}

// ValidationError 400 с ошибками по полям
func ValidationError(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    codeBadRequest,
		Message: "Некорректный запрос",
		Details: details,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, codeBadRequest, message)
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, codeUnauthorized, "Требуется вход")
}

func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, codeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, codeNotFound, message)
}

func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, codeInternal, "Внутренняя ошибка сервера")
}
