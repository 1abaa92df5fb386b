package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 订单状态机：pending → paying → paid → reviewing → active
// 旁路：pending|paying → cancelled，pending → expired，reviewing → rejected
// 套餐抵扣订单跳过支付直接进入 reviewing
const (
	OrderStatusPending   = "pending"
	OrderStatusPaying    = "paying"
	OrderStatusPaid      = "paid"
	OrderStatusReviewing = "reviewing"
	OrderStatusActive    = "active"
	OrderStatusRejected  = "rejected"
	OrderStatusCancelled = "cancelled"
	OrderStatusExpired   = "expired"
)

// 允许的解析类型
const (
	RecordTypeA     = "A"
	RecordTypeCNAME = "CNAME"
	RecordTypeAAAA  = "AAAA"
)

// 默认TTL
const DefaultRecordTTL = 600

// AllowedRecordType reports whether t is a purchasable record type
func AllowedRecordType(t string) bool {
	return t == RecordTypeA || t == RecordTypeCNAME || t == RecordTypeAAAA
}

// ParseOrder 解析订单
// 订单从不删除（审计需要）；cloud_record_id 仅在云端记录真正创建后写入
type ParseOrder struct {
	BaseModel
	UserID            uint            `json:"user_id" gorm:"not null;index"`                        // 用户ID
	OrderNo           string          `json:"order_no" gorm:"uniqueIndex;not null;size:32"`         // 订单号
	DomainID          uint            `json:"domain_id" gorm:"not null;index"`                      // 域名ID
	WebsiteName       string          `json:"website_name" gorm:"not null;size:50"`                 // 网站名称
	Hostname          string          `json:"hostname" gorm:"not null;size:100"`                    // 主机记录（@ 表示根域名）
	FullHostname      string          `json:"full_hostname" gorm:"not null;size:200"`               // 完整主机名
	RecordType        string          `json:"record_type" gorm:"not null;size:10"`                  // A / CNAME / AAAA
	RecordValue       string          `json:"record_value" gorm:"not null;size:255"`                // 解析记录值
	TTL               int             `json:"ttl" gorm:"default:600"`                               // TTL
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`   // 订单金额（套餐抵扣为0.00）
	DeductPackage     bool            `json:"deduct_package" gorm:"default:false"`                  // 是否使用套餐抵扣
	DeductedPackageID *uint           `json:"deducted_package_id"`                                  // 抵扣的用户套餐ID
	Status            string          `json:"status" gorm:"size:20;default:'pending';index"`        // 订单状态
	Remark            string          `json:"remark" gorm:"size:200"`                               // 备注
	ReviewRemark      string          `json:"review_remark" gorm:"type:text"`                       // 审核备注
	CloudRecordID     string          `json:"cloud_record_id" gorm:"size:100"`                      // 云平台记录ID
	PaymentMethod     string          `json:"payment_method" gorm:"size:50"`                        // 支付方式
	PaymentTime       *time.Time      `json:"payment_time"`                                         // 支付时间
	ExpiresAt         *time.Time      `json:"expires_at" gorm:"index"`                              // 待支付过期时间
	ReviewedAt        *time.Time      `json:"reviewed_at"`                                          // 审核时间

	Domain *Domain `json:"domain,omitempty" gorm:"foreignKey:DomainID"`
}

func (ParseOrder) TableName() string {
	return "parse_orders"
}
