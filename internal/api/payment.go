package api

import (
	"encoding/xml"
	"io"
	"net/http"
	"strings"

	"domainhub/internal/middleware"
	"domainhub/internal/response"
	"domainhub/internal/services"

	"github.com/gin-gonic/gin"
)

// PaymentHandler 支付方式与网关回调接口
type PaymentHandler struct {
	payments *services.PaymentService
}

// NewPaymentHandler 创建支付接口处理器
func NewPaymentHandler(payments *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// ListMethods 当前可用支付方式
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	methods, err := h.payments.ListMethods(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, methods)
}

// Notify 网关异步回调。
// 响应体按网关协议返回（支付宝/易支付纯文本，微信XML），不走统一响应包装。
func (h *PaymentHandler) Notify(c *gin.Context) {
	method := c.Param("method")
	params := collectNotifyParams(c)

	contentType, body := h.payments.HandleNotify(c.Request.Context(), method, params)
	c.Data(http.StatusOK, contentType, []byte(body))
}

// collectNotifyParams 合并回调参数。
// 支付宝/易支付走表单或query，微信走扁平XML请求体。
func collectNotifyParams(c *gin.Context) map[string]string {
	params := make(map[string]string)

	contentType := c.ContentType()
	if strings.Contains(contentType, "xml") {
		if body, err := io.ReadAll(c.Request.Body); err == nil {
			parseFlatXML(body, params)
		}
	} else if err := c.Request.ParseForm(); err == nil {
		for key, values := range c.Request.Form {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// parseFlatXML 解析 <xml><k>v</k>...</xml> 形式的微信回调体
func parseFlatXML(body []byte, params map[string]string) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))
	var key string
	for {
		token, err := decoder.Token()
		if err != nil {
			return
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "xml" {
				key = t.Name.Local
			}
		case xml.CharData:
			if key != "" {
				value := strings.TrimSpace(string(t))
				if value != "" {
					params[key] = value
				}
			}
		case xml.EndElement:
			key = ""
		}
	}
}
