package models

import (
	"github.com/shopspring/decimal"
)

// 平台类型
const (
	PlatformAliyun     = "aliyun"
	PlatformTencent    = "tencent"
	PlatformCloudflare = "cloudflare"
)

// Domain 可分销域名
// 管理员确认云平台上存在该 zone 后创建
type Domain struct {
	BaseModel
	DomainName  string          `json:"domain_name" gorm:"uniqueIndex;not null;size:255"`       // 域名（如 example.com）
	PlatformID  uint            `json:"platform_id" gorm:"not null;index"`                      // 关联的平台凭证ID
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`     // 单次解析价格
	RequiresICP bool            `json:"requires_icp" gorm:"default:false"`                      // 是否需要备案
	IsActive    bool            `json:"is_active" gorm:"default:true"`                          // 是否启用
	IsPublic    bool            `json:"is_public" gorm:"default:true"`                          // 是否公开（允许用户购买）
	Remarks     string          `json:"remarks" gorm:"size:255"`                                // 备注
}

func (Domain) TableName() string {
	return "domains"
}

// PlatformCredential 云平台凭证
// access_key_secret 在任何对外读路径上都必须脱敏
type PlatformCredential struct {
	BaseModel
	Name            string `json:"name" gorm:"not null;size:100"`        // 配置名称（如：个人阿里云）
	Platform        string `json:"platform" gorm:"not null;size:20"`     // aliyun / tencent / cloudflare
	AccessKeyID     string `json:"access_key_id" gorm:"size:255"`        // 阿里云 AccessKey ID / 腾讯云 SecretId / Cloudflare API Token
	AccessKeySecret string `json:"access_key_secret" gorm:"size:255"`    // 阿里云 AccessKey Secret / 腾讯云 SecretKey / Cloudflare Zone ID
	IsActive        bool   `json:"is_active" gorm:"default:true"`        // 是否启用
	Config          string `json:"config" gorm:"type:text"`              // 额外配置 (JSON)
}

func (PlatformCredential) TableName() string {
	return "platform_credentials"
}
