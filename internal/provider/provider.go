package provider

import (
	"context"
	"fmt"
)

// Provider DNS提供商接口。
// 每个实例绑定一条平台凭证和一个主域名，调用方不接触任何厂商原生字段。
type Provider interface {
	// Name 返回提供商名称
	Name() string

	// AddRecord 添加DNS记录，返回云端记录ID
	// rr: 主机记录/子域名（@ 表示根域名）
	AddRecord(ctx context.Context, rr, recordType, value string, ttl int) (string, error)

	// ModifyRecord 更新DNS记录
	ModifyRecord(ctx context.Context, recordID, rr, recordType, value string, ttl int) error

	// DeleteRecord 删除DNS记录
	DeleteRecord(ctx context.Context, recordID string) error

	// FindRecord 按主机记录和类型查找DNS记录，不存在时返回 (nil, nil)
	FindRecord(ctx context.Context, rr, recordType string) (*Record, error)

	// ListRecords 列出DNS记录（统一为页码式分页）
	ListRecords(ctx context.Context, page, pageSize int) ([]Record, error)

	// ListZones 列出凭证下的可解析域名
	ListZones(ctx context.Context, page, pageSize int) ([]Zone, error)
}

// Record 归一化的DNS记录
type Record struct {
	ID        string `json:"id"`
	Host      string `json:"host"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	TTL       int    `json:"ttl"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Zone 归一化的域名条目
type Zone struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ProviderError 远端DNS调用失败，带提供商与操作上下文，从不静默吞掉
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapErr builds a ProviderError for a failed remote call
func WrapErr(providerName, op string, err error) error {
	return &ProviderError{Provider: providerName, Op: op, Err: err}
}
