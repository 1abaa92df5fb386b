package payment

import (
	"testing"

	"domainhub/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMethod(t *testing.T) {
	method, sub := NormalizeMethod("epay_wechat")
	assert.Equal(t, "epay", method)
	assert.Equal(t, "wechat", sub)

	method, sub = NormalizeMethod("alipay")
	assert.Equal(t, "alipay", method)
	assert.Equal(t, "", sub)
}

func TestDefaultNotifyURL(t *testing.T) {
	config.AppConfig = &config.Config{NotifyBaseURL: "https://pay.example.com/"}
	assert.Equal(t, "https://pay.example.com/api/payment/notify/alipay", DefaultNotifyURL("alipay"))

	config.AppConfig = &config.Config{}
	assert.Equal(t, "", DefaultNotifyURL("alipay"))
}

func TestNewGateway_UnknownMethod(t *testing.T) {
	config.AppConfig = &config.Config{}
	_, err := NewGateway("paypal", "{}")
	assert.Error(t, err)
}
