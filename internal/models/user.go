package models

import (
	"github.com/shopspring/decimal"
)

// User 用户（身份与余额由外部协作方维护，这里只保留核心字段）
type User struct {
	BaseModel
	Username string          `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email    string          `json:"email" gorm:"uniqueIndex;size:255"`
	APIToken string          `json:"-" gorm:"uniqueIndex;size:64;column:api_token"`
	Balance  decimal.Decimal `json:"balance" gorm:"type:decimal(10,2);default:0"`
	IsAdmin  bool            `json:"is_admin" gorm:"default:false"`
	IsActive bool            `json:"is_active" gorm:"default:true"`
}

func (User) TableName() string {
	return "users"
}
