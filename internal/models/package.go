package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 用户套餐状态
const (
	UserPackageStatusActive  = "active"
	UserPackageStatusExpired = "expired"
)

// Package 域名套餐（管理员定义的可购买解析次数包）
type Package struct {
	BaseModel
	DomainID      uint            `json:"domain_id" gorm:"not null;index"`                      // 关联域名ID
	Name          string          `json:"name" gorm:"not null;size:100"`                        // 套餐名称
	Description   string          `json:"description" gorm:"type:text"`                         // 套餐描述
	ParseCount    int             `json:"parse_count" gorm:"not null"`                          // 解析次数
	DurationDays  int             `json:"duration_days" gorm:"not null"`                        // 有效天数
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`             // 价格
	OriginalPrice decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);default:0"`   // 原价
	IsActive      bool            `json:"is_active" gorm:"default:true;index"`                  // 是否启用
}

func (Package) TableName() string {
	return "domain_packages"
}

// UserPackage 用户已购套餐实例
// used_count 只通过条件原子更新变化，0 <= used_count <= total_count
type UserPackage struct {
	BaseModel
	UserID     uint      `json:"user_id" gorm:"not null;index"`                // 用户ID
	PackageID  uint      `json:"package_id" gorm:"not null;index"`             // 套餐ID
	DomainID   uint      `json:"domain_id" gorm:"not null;index"`              // 域名ID（冗余自套餐，加速查询）
	TotalCount int       `json:"total_count" gorm:"not null"`                  // 总解析次数
	UsedCount  int       `json:"used_count" gorm:"default:0"`                  // 已使用次数
	ValidStart time.Time `json:"valid_start" gorm:"not null"`                  // 有效期开始
	ValidEnd   time.Time `json:"valid_end" gorm:"not null;index"`              // 有效期结束
	Status     string    `json:"status" gorm:"size:20;default:'active';index"` // active / expired

	Package *Package `json:"package,omitempty" gorm:"foreignKey:PackageID"`
}

func (UserPackage) TableName() string {
	return "user_packages"
}

// AvailableCount 剩余可用次数
func (up *UserPackage) AvailableCount() int {
	return up.TotalCount - up.UsedCount
}

// Eligible reports whether the package can be redeemed at the given time
func (up *UserPackage) Eligible(now time.Time) bool {
	return up.Status == UserPackageStatusActive && up.ValidEnd.After(now) && up.AvailableCount() > 0
}
