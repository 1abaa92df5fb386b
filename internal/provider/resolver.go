package provider

import (
	"errors"
	"fmt"
	"sync"

	"domainhub/internal/models"
)

// 凭证解析的三种失败条件必须可区分，且都在任何网络调用之前拒绝
var (
	ErrDomainNotFound     = errors.New("domain not found")
	ErrCredentialNotFound = errors.New("platform credential not found")
	ErrCredentialDisabled = errors.New("platform credential disabled")
)

// CredentialResolver 按域名解析归属凭证，失败关闭
type CredentialResolver interface {
	// ResolveByDomainName 查找域名及其归属凭证；凭证缺失或停用时返回上述哨兵错误
	ResolveByDomainName(name string) (*models.Domain, *models.PlatformCredential, error)

	// ResolveCredential 按ID查找启用状态的凭证
	ResolveCredential(id uint) (*models.PlatformCredential, error)
}

// Factory 按平台枚举构造适配器实例
type Factory func(cred *models.PlatformCredential, domainName string) (Provider, error)

// Registry 提供商注册表。
// 按(凭证, 域名)构造一次适配器并缓存，不在每次调用时重新分派。
type Registry struct {
	resolver CredentialResolver
	factory  Factory

	mu    sync.Mutex
	cache map[string]Provider
}

// NewRegistry 创建注册表
func NewRegistry(resolver CredentialResolver, factory Factory) *Registry {
	return &Registry{
		resolver: resolver,
		factory:  factory,
		cache:    make(map[string]Provider),
	}
}

// ForDomain 解析域名对应的凭证并返回适配器
func (r *Registry) ForDomain(domainName string) (Provider, error) {
	_, cred, err := r.resolver.ResolveByDomainName(domainName)
	if err != nil {
		return nil, err
	}
	return r.get(cred, domainName)
}

// ForCredential 按凭证ID返回适配器（管理端列举域名用，不绑定具体zone）
func (r *Registry) ForCredential(credentialID uint) (Provider, error) {
	cred, err := r.resolver.ResolveCredential(credentialID)
	if err != nil {
		return nil, err
	}
	return r.get(cred, "")
}

func (r *Registry) get(cred *models.PlatformCredential, domainName string) (Provider, error) {
	key := fmt.Sprintf("%d:%s:%d", cred.ID, domainName, cred.UpdatedAt.UnixNano())

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[key]; ok {
		return p, nil
	}

	p, err := r.factory(cred, domainName)
	if err != nil {
		return nil, err
	}
	r.cache[key] = p
	return p, nil
}
