package database

import (
	"testing"

	"domainhub/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCountDomainReferences(t *testing.T) {
	setupResolverDB(t)
	assert.NoError(t, DB.AutoMigrate(&models.Package{}, &models.ParseOrder{}))

	domain := &models.Domain{
		DomainName: "counted.com",
		PlatformID: 1,
		Price:      decimal.RequireFromString("9.90"),
	}
	assert.NoError(t, DB.Create(domain).Error)

	count, err := CountDomainReferences(domain.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	assert.NoError(t, DB.Create(&models.Package{
		DomainID:     domain.ID,
		Name:         "套餐",
		ParseCount:   10,
		DurationDays: 30,
		Price:        decimal.RequireFromString("50.00"),
	}).Error)
	assert.NoError(t, DB.Create(&models.ParseOrder{
		UserID:       1,
		OrderNo:      "PO170000000000000000001",
		DomainID:     domain.ID,
		WebsiteName:  "站点",
		Hostname:     "www",
		FullHostname: "www.counted.com",
		RecordType:   models.RecordTypeA,
		RecordValue:  "1.2.3.4",
		Status:       models.OrderStatusPending,
	}).Error)

	// 套餐和订单各算一次引用
	count, err = CountDomainReferences(domain.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 其他域名不受影响
	other := &models.Domain{
		DomainName: "other.com",
		PlatformID: 1,
		Price:      decimal.RequireFromString("9.90"),
	}
	assert.NoError(t, DB.Create(other).Error)
	count, err = CountDomainReferences(other.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
