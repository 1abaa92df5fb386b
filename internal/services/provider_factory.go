package services

import (
	"fmt"

	"domainhub/internal/database"
	"domainhub/internal/models"
	"domainhub/internal/provider"
	"domainhub/internal/provider/aliyun"
	"domainhub/internal/provider/cloudflare"
	"domainhub/internal/provider/tencent"
)

// NewProviderRegistry 组装凭证解析与提供商构造。
// 平台分发只在这里出现，新增平台加一个分支即可。
func NewProviderRegistry() *provider.Registry {
	return provider.NewRegistry(database.NewCredentialResolver(), buildProvider)
}

func buildProvider(cred *models.PlatformCredential, domainName string) (provider.Provider, error) {
	switch cred.Platform {
	case models.PlatformAliyun:
		return aliyun.New(cred.AccessKeyID, cred.AccessKeySecret, domainName)
	case models.PlatformTencent:
		return tencent.New(cred.AccessKeyID, cred.AccessKeySecret, domainName)
	case models.PlatformCloudflare:
		return cloudflare.New(cred.AccessKeyID, cred.AccessKeySecret, domainName)
	default:
		return nil, fmt.Errorf("不支持的DNS平台: %s", cred.Platform)
	}
}
