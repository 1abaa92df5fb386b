package database

import (
	"errors"

	"domainhub/internal/models"
	"domainhub/internal/provider"

	"gorm.io/gorm"
)

// CredentialResolver 数据库实现的凭证解析。
// 域名缺失、凭证缺失、凭证停用是三种不同的拒绝条件，均在任何远端调用之前返回。
type CredentialResolver struct{}

// NewCredentialResolver 创建解析器
func NewCredentialResolver() *CredentialResolver {
	return &CredentialResolver{}
}

// ResolveByDomainName 按域名查找归属凭证
func (r *CredentialResolver) ResolveByDomainName(name string) (*models.Domain, *models.PlatformCredential, error) {
	domain, err := GetDomainByName(name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, provider.ErrDomainNotFound
		}
		return nil, nil, err
	}

	cred, err := GetCredentialByID(domain.PlatformID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, provider.ErrCredentialNotFound
		}
		return nil, nil, err
	}

	if !cred.IsActive {
		return nil, nil, provider.ErrCredentialDisabled
	}

	return domain, cred, nil
}

// ResolveCredential 按ID查找启用状态的凭证
func (r *CredentialResolver) ResolveCredential(id uint) (*models.PlatformCredential, error) {
	cred, err := GetCredentialByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, provider.ErrCredentialNotFound
		}
		return nil, err
	}
	if !cred.IsActive {
		return nil, provider.ErrCredentialDisabled
	}
	return cred, nil
}
