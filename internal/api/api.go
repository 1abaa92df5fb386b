package api

import (
	"errors"
	"net/http"
	"strconv"

	"domainhub/internal/provider"
	"domainhub/internal/response"
	"domainhub/internal/services"
	"domainhub/pkg/logging"

	"github.com/gin-gonic/gin"
)

// handleServiceError 业务错误到响应码的统一映射
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRecordType):
		response.BadRequest(c, response.CodeInvalidRecordType, "不支持的解析类型")
	case errors.Is(err, services.ErrDomainNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "域名不存在")
	case errors.Is(err, services.ErrOrderNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "订单不存在")
	case errors.Is(err, services.ErrOrderNotPayable):
		response.BadRequest(c, response.CodeOrderNotPayable, "订单当前状态不可支付")
	case errors.Is(err, services.ErrPackageDeductedOrder):
		response.BadRequest(c, response.CodeOrderNotPayable, "套餐抵扣订单无需支付")
	case errors.Is(err, services.ErrPaymentMethodUnavailable):
		response.BadRequest(c, response.CodePaymentUnavailable, "支付方式不可用")
	case errors.Is(err, services.ErrBalanceNotSupported):
		response.BadRequest(c, response.CodePaymentUnavailable, "余额支付暂不支持")
	case errors.Is(err, services.ErrPaymentGateway):
		logging.Errorf("支付网关调用失败: %v", err)
		response.Error(c, http.StatusBadGateway, response.CodePaymentGateway, "支付网关调用失败")
	case errors.Is(err, services.ErrInvalidTransition):
		response.BadRequest(c, response.CodeOrderNotPayable, "订单状态不允许该操作")
	case errors.Is(err, provider.ErrDomainNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "域名未接入")
	case errors.Is(err, provider.ErrCredentialNotFound):
		response.BadRequest(c, response.CodeCredentialDisabled, "域名未绑定平台凭证")
	case errors.Is(err, provider.ErrCredentialDisabled):
		response.BadRequest(c, response.CodeCredentialDisabled, "平台凭证已停用")
	default:
		var provErr *provider.ProviderError
		if errors.As(err, &provErr) {
			logging.Errorf("DNS提供商调用失败: %v", err)
			response.Error(c, http.StatusBadGateway, response.CodeProviderError, "DNS平台调用失败")
			return
		}
		logging.Errorf("请求处理失败: %v", err)
		response.Internal(c)
	}
}

// pathID 解析路径中的数字ID
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, response.CodeBadParams, "无效的ID参数")
		return 0, false
	}
	return uint(id), true
}

// pagination 通用分页参数，page>=1，pageSize限制在1~100
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
