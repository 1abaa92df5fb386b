package alipay

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"

	"domainhub/internal/payment/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// testConfig 生成一对测试密钥并拼出配置JSON
func testConfig(t *testing.T) string {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	assert.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	raw, err := json.Marshal(map[string]string{
		"app_id":      "2021000000000000",
		"private_key": string(privPEM),
		"public_key":  string(pubPEM),
		"notify_url":  "https://example.com/api/payment/notify/alipay",
	})
	assert.NoError(t, err)
	return string(raw)
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := ParseConfig(`{"app_id":""}`)
	assert.Error(t, err)

	_, err = ParseConfig("not json")
	assert.Error(t, err)
}

func TestCreatePayment(t *testing.T) {
	g, err := New(testConfig(t), "")
	assert.NoError(t, err)

	intent, err := g.CreatePayment(context.Background(), types.OrderInfo{
		OrderNo:      "PO17000000000000012345678",
		Price:        decimal.RequireFromString("9.90"),
		WebsiteName:  "博客",
		FullHostname: "blog.example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, "alipay", intent.PaymentMethod)
	assert.True(t, strings.HasPrefix(intent.PaymentURL, defaultGatewayURL))
	assert.Contains(t, intent.PaymentURL, "sign=")
	assert.True(t, intent.Amount.Equal(decimal.RequireFromString("9.90")))
}

func TestVerifyNotify_RoundTrip(t *testing.T) {
	g, err := New(testConfig(t), "")
	assert.NoError(t, err)

	params := map[string]string{
		"out_trade_no": "PO17000000000000012345678",
		"trade_status": "TRADE_SUCCESS",
		"total_amount": "9.90",
	}
	signature, err := g.signParams(params)
	assert.NoError(t, err)

	params["sign"] = signature
	params["sign_type"] = "RSA2"
	assert.True(t, g.VerifyNotify(params))

	// 篡改金额后签名失效
	params["total_amount"] = "0.01"
	assert.False(t, g.VerifyNotify(params))
}

func TestVerifyNotify_MissingSign(t *testing.T) {
	g, err := New(testConfig(t), "")
	assert.NoError(t, err)

	assert.False(t, g.VerifyNotify(map[string]string{
		"out_trade_no": "PO1",
		"trade_status": "TRADE_SUCCESS",
	}))
}
