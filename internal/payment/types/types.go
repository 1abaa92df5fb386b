package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderInfo 支付网关需要的订单快照
type OrderInfo struct {
	OrderNo      string
	Price        decimal.Decimal
	WebsiteName  string
	FullHostname string
	// SubMethod 聚合网关的子通道（alipay/wechat/qqpay）
	SubMethod string
	ClientIP  string
}

// Intent 创建支付后返回给前端的跳转/扫码载荷
type Intent struct {
	PaymentMethod string          `json:"paymentMethod"`
	PaymentURL    string          `json:"paymentUrl"`
	QRCode        string          `json:"qrCode"`
	Amount        decimal.Decimal `json:"amount"`
	ExpiresAt     time.Time       `json:"expiresAt"`
}
