package alipay

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"time"

	"domainhub/internal/payment/sign"
	"domainhub/internal/payment/types"
)

const defaultGatewayURL = "https://openapi.alipay.com/gateway.do"

// Config 支付宝网关配置，从 PaymentSetting.config_data 解码
type Config struct {
	AppID      string `json:"app_id"`
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	GatewayURL string `json:"gateway_url"`
	NotifyURL  string `json:"notify_url"`
	ReturnURL  string `json:"return_url"`
}

// ParseConfig 解码并校验配置，缺少必填项时拒绝
func ParseConfig(raw string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("支付宝配置解析失败: %w", err)
	}
	if cfg.AppID == "" || cfg.PrivateKey == "" {
		return nil, fmt.Errorf("支付宝配置缺少 app_id 或 private_key")
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = defaultGatewayURL
	}
	return &cfg, nil
}

// Gateway 支付宝网关，RSA2 签名
type Gateway struct {
	cfg *Config
}

// New 创建支付宝网关，配置未指定 notify_url 时退回 defaultNotifyURL
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
	return "alipay"
}

// CreatePayment 构造预下单跳转链接和二维码
func (g *Gateway) CreatePayment(ctx context.Context, order types.OrderInfo) (*types.Intent, error) {
	bizContent, err := json.Marshal(map[string]string{
		"out_trade_no":    order.OrderNo,
		"total_amount":    order.Price.StringFixed(2),
		"subject":         "解析订单-" + order.OrderNo,
		"body":            order.WebsiteName + " - " + order.FullHostname,
		"timeout_express": "30m",
		"product_code":    "FAST_INSTANT_TRADE_PAY",
	})
	if err != nil {
		return nil, err
	}

	params := map[string]string{
		"app_id":      g.cfg.AppID,
		"method":      "alipay.trade.precreate",
		"charset":     "utf-8",
		"sign_type":   "RSA2",
		"timestamp":   time.Now().Format("2006-01-02 15:04:05"),
		"version":     "1.0",
		"notify_url":  g.cfg.NotifyURL,
		"return_url":  g.cfg.ReturnURL,
		"biz_content": string(bizContent),
	}

	signature, err := g.signParams(params)
	if err != nil {
		return nil, fmt.Errorf("支付宝签名失败: %w", err)
	}
	params["sign"] = signature

	paymentURL := g.cfg.GatewayURL + "?" + sign.EncodeQuery(params)
	qrCode := "https://qr.alipay.com/" + base64.StdEncoding.EncodeToString([]byte(paymentURL))

	return &types.Intent{
		PaymentMethod: g.Method(),
		PaymentURL:    paymentURL,
		QRCode:        qrCode,
		Amount:        order.Price,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}, nil
}

// VerifyNotify 验证异步回调签名，任何状态迁移之前必须通过
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

	pub, err := parsePublicKey(g.cfg.PublicKey)
	if err != nil {
		return false
	}

	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	digest := sha256.Sum256([]byte(sign.SortedPairs(filtered)))
	return rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], raw) == nil
}

// NotifyAck 支付宝要求回调返回纯文本 success/fail
func (g *Gateway) NotifyAck(ok bool) (contentType, body string) {
	if ok {
		return "text/plain", "success"
	}
	return "text/plain", "fail"
}

func (g *Gateway) signParams(params map[string]string) (string, error) {
	priv, err := parsePrivateKey(g.cfg.PrivateKey)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(sign.SortedPairs(params)))
	raw, err := rsa.SignPKCS1v15(rand.Reader, priv, crypto.SHA256, digest[:])
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func parsePrivateKey(pemData string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("私钥不是合法的PEM")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("私钥解析失败: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("私钥不是RSA类型")
	}
	return key, nil
}

func parsePublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("公钥不是合法的PEM")
	}
	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("公钥解析失败: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("公钥不是RSA类型")
	}
	return key, nil
}
