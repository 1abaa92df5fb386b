package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"domainhub/internal/payment/sign"
	"domainhub/internal/payment/types"
)

const defaultUnifiedOrderURL = "https://api.mch.weixin.qq.com/pay/unifiedorder"

// Config 微信支付配置，从 PaymentSetting.config_data 解码
type Config struct {
	AppID           string `json:"app_id"`
	MchID           string `json:"mch_id"`
	APIKey          string `json:"api_key"`
	NotifyURL       string `json:"notify_url"`
	UnifiedOrderURL string `json:"unified_order_url"`
}

// ParseConfig 解码并校验配置
func ParseConfig(raw string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, fmt.Errorf("微信支付配置解析失败: %w", err)
	}
	if cfg.AppID == "" || cfg.MchID == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("微信支付配置缺少 app_id、mch_id 或 api_key")
	}
	if cfg.UnifiedOrderURL == "" {
		cfg.UnifiedOrderURL = defaultUnifiedOrderURL
	}
	return &cfg, nil
}

// Gateway 微信支付网关，NATIVE 扫码下单，MD5 签名
type Gateway struct {
	cfg        *Config
	httpClient *http.Client
}

// New 创建微信支付网关，配置未指定 notify_url 时退回 defaultNotifyURL
func New(raw, defaultNotifyURL string) (*Gateway, error) {
	cfg, err := ParseConfig(raw)
	if err != nil {
		return nil, err
	}
	if cfg.NotifyURL == "" {
		cfg.NotifyURL = defaultNotifyURL
	}
	return &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Method 返回支付方式标识
func (g *Gateway) Method() string {
	return "wechat"
}

type unifiedOrderRequest struct {
	XMLName        xml.Name `xml:"xml"`
	AppID          string   `xml:"appid"`
	MchID          string   `xml:"mch_id"`
	NonceStr       string   `xml:"nonce_str"`
	Body           string   `xml:"body"`
	OutTradeNo     string   `xml:"out_trade_no"`
	TotalFee       int64    `xml:"total_fee"`
	SpbillCreateIP string   `xml:"spbill_create_ip"`
	NotifyURL      string   `xml:"notify_url"`
	TradeType      string   `xml:"trade_type"`
	Sign           string   `xml:"sign"`
}

type unifiedOrderResponse struct {
	XMLName    xml.Name `xml:"xml"`
	ReturnCode string   `xml:"return_code"`
	ReturnMsg  string   `xml:"return_msg"`
	ResultCode string   `xml:"result_code"`
	ErrCodeDes string   `xml:"err_code_des"`
	CodeURL    string   `xml:"code_url"`
	PrepayID   string   `xml:"prepay_id"`
}

// CreatePayment 统一下单并返回扫码载荷
func (g *Gateway) CreatePayment(ctx context.Context, order types.OrderInfo) (*types.Intent, error) {
	clientIP := order.ClientIP
	if clientIP == "" {
		clientIP = "127.0.0.1"
	}

	params := map[string]string{
		"appid":            g.cfg.AppID,
		"mch_id":           g.cfg.MchID,
		"nonce_str":        strings.ReplaceAll(uuid.NewString(), "-", ""),
		"body":             order.WebsiteName + " - " + order.FullHostname,
		"out_trade_no":     order.OrderNo,
		"total_fee":        strconv.FormatInt(order.Price.Mul(decimal.NewFromInt(100)).IntPart(), 10),
		"spbill_create_ip": clientIP,
		"notify_url":       g.cfg.NotifyURL,
		"trade_type":       "NATIVE",
	}
	params["sign"] = g.signParams(params)

	totalFee, _ := strconv.ParseInt(params["total_fee"], 10, 64)
	request := unifiedOrderRequest{
		AppID:          params["appid"],
		MchID:          params["mch_id"],
		NonceStr:       params["nonce_str"],
		Body:           params["body"],
		OutTradeNo:     params["out_trade_no"],
		TotalFee:       totalFee,
		SpbillCreateIP: params["spbill_create_ip"],
		NotifyURL:      params["notify_url"],
		TradeType:      params["trade_type"],
		Sign:           params["sign"],
	}

	codeURL, err := g.callUnifiedOrder(ctx, request)
	if err != nil {
		return nil, err
	}

	qrCode := "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(codeURL)

	return &types.Intent{
		PaymentMethod: g.Method(),
		PaymentURL:    codeURL,
		QRCode:        qrCode,
		Amount:        order.Price,
		ExpiresAt:     time.Now().Add(30 * time.Minute),
	}, nil
}

func (g *Gateway) callUnifiedOrder(ctx context.Context, request unifiedOrderRequest) (string, error) {
	payload, err := xml.Marshal(request)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.UnifiedOrderURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("微信支付下单请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var result unifiedOrderResponse
	if err := xml.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("微信支付响应解析失败: %w", err)
	}

	if result.ReturnCode != "SUCCESS" || result.ResultCode != "SUCCESS" {
		msg := result.ErrCodeDes
		if msg == "" {
			msg = result.ReturnMsg
		}
		if msg == "" {
			msg = "微信支付下单失败"
		}
		return "", fmt.Errorf("微信支付下单失败: %s", msg)
	}

	return result.CodeURL, nil
}

// VerifyNotify 验证异步回调签名
func (g *Gateway) VerifyNotify(params map[string]string) bool {
	signature := params["sign"]
	if signature == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if k == "sign" {
			continue
		}
		filtered[k] = v
	}

	return g.signParams(filtered) == signature
}

// NotifyAck 微信要求回调返回XML确认
func (g *Gateway) NotifyAck(ok bool) (contentType, body string) {
	if ok {
		return "application/xml", "<xml><return_code><![CDATA[SUCCESS]]></return_code><return_msg><![CDATA[OK]]></return_msg></xml>"
	}
	return "application/xml", "<xml><return_code><![CDATA[FAIL]]></return_code><return_msg><![CDATA[签名验证失败]]></return_msg></xml>"
}

func (g *Gateway) signParams(params map[string]string) string {
	return sign.MD5Upper(sign.SortedPairs(params), "&key="+g.cfg.APIKey)
}
