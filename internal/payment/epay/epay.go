package epay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"domainhub/internal/payment/sign"
	"domainhub/internal/payment/types"
)

// 聚合网关的子通道映射
var methodMap = map[string]string{
	"alipay": "alipay",
	"wechat": "wxpay",
	"qqpay":  "qqpay",
}

// Config 易支付聚合网关配置
type Config struct {
	PID              string   `json:"pid"`
	Key              string   `json:"key"`
	GatewayURL       string   `json:"gateway_url"`
	NotifyURL        string   `json:"notify_url"`
	SupportedMethods []string `json:"supported_methods"`
}

// ParseConfig 解码并校验配置
func ParseConfig(raw string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("易支付配置解析失败: %w", err)
	}
	if cfg.PID == "" || cfg.Key == "" || cfg.GatewayURL == "" {
		return nil, fmt.Errorf("易支付配置缺少 pid、key 或 gateway_url")
	}
	if len(cfg.SupportedMethods) == 0 {
		cfg.SupportedMethods = []string{"alipay", "wechat", "qqpay"}
	}
	return &cfg, nil
}

// Gateway 易支付聚合网关，MD5 签名
type Gateway struct {
	cfg *Config
}

// New 创建易支付网关，配置未指定 notify_url 时退回 defaultNotifyURL
func New(raw, defaultNotifyURL string) (*Gateway, error) {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	if cfg.NotifyURL == "" {
		cfg.NotifyURL = defaultNotifyURL
	}
	return &Gateway{cfg: cfg}, nil
}

// Method 返回支付方式标识
func (g *Gateway) Method() string {
	return "epay"
}

// SupportedMethods 配置的子通道列表
func (g *Gateway) SupportedMethods() []string {
	return g.cfg.SupportedMethods
}

// CreatePayment 构造跳转链接和二维码
func (g *Gateway) CreatePayment(ctx context.Context, order types.OrderInfo) (*types.Intent, error) {
	payType, ok := methodMap[order.SubMethod]
	if !ok {
		payType = "alipay"
	}

	clientIP := order.ClientIP
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"pid":          g.cfg.PID,
		"type":         payType,
		"out_trade_no": order.OrderNo,
		"notify_url":   g.cfg.NotifyURL,
		"name":         order.WebsiteName + " - " + order.FullHostname,
		"money":        order.Price.StringFixed(2),
		"client_ip":    clientIP,
	}

	params["sign"] = g.signParams(params)
	params["sign_type"] = "MD5"

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	paymentURL := g.cfg.GatewayURL + "?" + sign.EncodeQuery(params)
	qrCode := g.cfg.GatewayURL + "?type=" + payType + "&data=" + url.QueryEscape(string(paramsJSON))

	return &types.Intent{
		PaymentMethod: g.Method(),
		PaymentURL:    paymentURL,
		QRCode:        qrCode,
		Amount:        order.Price,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}, nil
}

// VerifyNotify 验证异步回调签名
func (g *Gateway) VerifyNotify(params map[string]string) bool {
	signature := params["sign"]
	if signature == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == "sign" || k == "sign_type" {
			continue
		}
		filtered[k] = v
	}

	return g.signParams(filtered) == signature
}

// NotifyAck 易支付要求回调返回纯文本 success/fail
func (g *Gateway) NotifyAck(ok bool) (contentType, body string) {
	if ok {
		return "text/plain", "success"
	}
	return "text/plain", "fail"
}

func (g *Gateway) signParams(params map[string]string) string {
	return sign.MD5Upper(sign.SortedPairs(params), g.cfg.Key)
}
