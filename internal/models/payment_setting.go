package models

// 支付方式
const (
	PaymentMethodAlipay  = "alipay"
	PaymentMethodWechat  = "wechat"
	PaymentMethodEpay    = "epay"
	PaymentMethodBalance = "balance"
)

// PaymentSetting 支付配置
// config_data 中的网关密钥在对外读路径上统一脱敏
type PaymentSetting struct {
	BaseModel
	PaymentMethod string `json:"payment_method" gorm:"uniqueIndex;not null;size:50"` // alipay / wechat / epay / balance
	PaymentName   string `json:"payment_name" gorm:"not null;size:100"`              // 支付方式名称
	ConfigData    string `json:"config_data" gorm:"type:json;not null"`              // 网关配置 (JSON)
	IsEnabled     bool   `json:"is_enabled" gorm:"default:false"`                    // 是否启用
	SortOrder     int    `json:"sort_order" gorm:"default:0"`                        // 排序顺序
	Description   string `json:"description" gorm:"type:text"`                       // 配置描述
}

func (PaymentSetting) TableName() string {
	return "payment_settings"
}
