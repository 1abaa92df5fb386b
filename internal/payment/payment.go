package payment

import (
	"context"
	"fmt"
	"strings"

	"domainhub/internal/config"
	"domainhub/internal/payment/alipay"
	"domainhub/internal/payment/epay"
	"domainhub/internal/payment/types"
	"domainhub/internal/payment/wechat"
)

// Gateway 支付网关统一接口
type Gateway interface {
	// Method 返回支付方式标识（alipay/wechat/epay）
	Method() string

	// CreatePayment 创建支付，返回跳转/扫码载荷
	CreatePayment(ctx context.Context, order types.OrderInfo) (*types.Intent, error)

	// VerifyNotify 校验异步回调签名；任何订单状态迁移前必须通过
	VerifyNotify(params map[string]string) bool

	// NotifyAck 网关要求的回调确认响应
	NotifyAck(ok bool) (contentType, body string)
}

// NormalizeMethod 将 epay_xxx 子通道折叠为配置行的方法码，返回 (方法码, 子通道)
func NormalizeMethod(code string) (method, subMethod string) {
	if strings.HasPrefix(code, "epay_") {
		return "epay", strings.TrimPrefix(code, "epay_")
	}
	return code, ""
}

// DefaultNotifyURL 配置未指定 notify_url 时的回调地址，
// 由服务的对外地址拼接统一回调路由得到。
func DefaultNotifyURL(method string) string {
	if config.AppConfig == nil || config.AppConfig.NotifyBaseURL == "" {
		return ""
	}
	return strings.TrimSuffix(config.AppConfig.NotifyBaseURL, "/") + "/api/payment/notify/" + method
}

// NewGateway 按方法枚举构造网关，配置在此处一次性解码校验。
// 未知方法或配置非法直接拒绝，不进入支付流程。
func NewGateway(method, configData string) (Gateway, error) {
	switch method {
	case "alipay":
		return alipay.New(configData, DefaultNotifyURL(method))
	case "wechat":
		return wechat.New(configData, DefaultNotifyURL(method))
	case "epay":
		return epay.New(configData, DefaultNotifyURL(method))
	default:
		return nil, fmt.Errorf("不支持的支付方式: %s", method)
	}
}
