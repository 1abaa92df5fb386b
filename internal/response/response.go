package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 业务错误码
const (
	CodeOK                 = 0
	CodeBadParams          = 1001
	CodeNotFound           = 1005
	CodeOrderNotPayable    = 2001
	CodeInvalidRecordType  = 2006
	CodeCredentialDisabled = 2101
	CodeProviderError      = 2102
	CodePaymentUnavailable = 3003
	CodePaymentGateway     = 3004
	CodeInternal           = 5000
)

// Response represents a standard API response envelope
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

func envelope(code int, message string, data interface{}) Response {
	return Response{
		Code:      code,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Success sends a success JSON response
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope(CodeOK, "success", data))
}

// SuccessMsg sends a success JSON response with a custom message
func SuccessMsg(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, envelope(CodeOK, message, data))
}

// Error sends an error JSON response with a business code
func Error(c *gin.Context, status, code int, message string) {
	c.JSON(status, envelope(code, message, nil))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, code int, message string) {
	Error(c, http.StatusBadRequest, code, message)
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, CodeNotFound, message)
}

// Internal sends a generic 500 response; details are logged, never returned
func Internal(c *gin.Context) {
	Error(c, http.StatusInternalServerError, CodeInternal, "服务器内部错误")
}
