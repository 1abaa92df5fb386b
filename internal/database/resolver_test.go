package database

import (
	"testing"

	"domainhub/internal/models"
	"domainhub/internal/provider"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupResolverDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.PlatformCredential{}, &models.Domain{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	DB = db
}

func TestResolveByDomainName_DomainNotFound(t *testing.T) {
	setupResolverDB(t)
	resolver := NewCredentialResolver()

	_, _, err := resolver.ResolveByDomainName("missing.com")
	assert.ErrorIs(t, err, provider.ErrDomainNotFound)
}

func TestResolveByDomainName_CredentialNotFound(t *testing.T) {
	setupResolverDB(t)
	resolver := NewCredentialResolver()

	// 域名指向不存在的凭证
	err := DB.Create(&models.Domain{
		DomainName: "orphan.com",
		PlatformID: 42,
		Price:      decimal.RequireFromString("1.00"),
	}).Error
	assert.NoError(t, err)

	_, _, err = resolver.ResolveByDomainName("orphan.com")
	assert.ErrorIs(t, err, provider.ErrCredentialNotFound)
}

func TestResolveByDomainName_CredentialDisabled(t *testing.T) {
	setupResolverDB(t)
	resolver := NewCredentialResolver()

	cred := &models.PlatformCredential{
		Name:            "停用的阿里云",
		Platform:        models.PlatformAliyun,
		AccessKeyID:     "ak",
		AccessKeySecret: "sk",
		IsActive:        false,
	}
	assert.NoError(t, DB.Create(cred).Error)
	assert.NoError(t, DB.Create(&models.Domain{
		DomainName: "disabled.com",
		PlatformID: cred.ID,
		Price:      decimal.RequireFromString("1.00"),
	}).Error)

	// 凭证停用必须在任何远端调用之前拒绝
	_, _, err := resolver.ResolveByDomainName("disabled.com")
	assert.ErrorIs(t, err, provider.ErrCredentialDisabled)
}

func TestResolveByDomainName_OK(t *testing.T) {
	setupResolverDB(t)
	resolver := NewCredentialResolver()

	cred := &models.PlatformCredential{
		Name:        "阿里云主账号",
		Platform:    models.PlatformAliyun,
		AccessKeyID: "ak",
		IsActive:    true,
	}
	assert.NoError(t, DB.Create(cred).Error)
	assert.NoError(t, DB.Create(&models.Domain{
		DomainName: "ok.com",
		PlatformID: cred.ID,
		Price:      decimal.RequireFromString("1.00"),
	}).Error)

	domain, got, err := resolver.ResolveByDomainName("ok.com")
	assert.NoError(t, err)
	assert.Equal(t, "ok.com", domain.DomainName)
	assert.Equal(t, cred.ID, got.ID)
}

func TestResolveCredential(t *testing.T) {
	setupResolverDB(t)
	resolver := NewCredentialResolver()

	_, err := resolver.ResolveCredential(99)
	assert.ErrorIs(t, err, provider.ErrCredentialNotFound)

	cred := &models.PlatformCredential{
		Name:     "腾讯云",
		Platform: models.PlatformTencent,
		IsActive: true,
	}
	assert.NoError(t, DB.Create(cred).Error)

	got, err := resolver.ResolveCredential(cred.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.PlatformTencent, got.Platform)
}
