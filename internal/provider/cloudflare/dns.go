package cloudflare

import (
	"context"
	"fmt"
	"strings"
	"time"

	cf "github.com/cloudflare/cloudflare-go"

	"domainhub/internal/provider"
	"domainhub/pkg/logging"
)

// DNSProvider Cloudflare DNS提供商。
// 凭证的 key-id 是 API Token，key-secret 是 Zone ID。
// Cloudflare 记录名是FQDN且 @ 表示根域名，在此归一化；TTL=1 表示自动。
type DNSProvider struct {
	api        *cf.API
	zoneID     string
	domainName string
}

// New 创建Cloudflare DNS提供商
func New(apiToken, zoneID, domainName string) (*DNSProvider, error) {
	api, err := cf.NewWithAPIToken(apiToken)
	if err != nil {
		return nil, fmt.Errorf("创建Cloudflare客户端失败: %w", err)
	}

	return &DNSProvider{api: api, zoneID: zoneID, domainName: domainName}, nil
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "cloudflare"
}

// recordName @ 对应根域名，其余传主机记录（Cloudflare会补全zone后缀）
func (p *DNSProvider) recordName(rr string) string {
	if rr == "@" {
		return p.domainName
	}
	return rr
}

// hostFromName FQDN 还原为主机记录
func (p *DNSProvider) hostFromName(name string) string {
	if name == p.domainName {
		return "@"
	}
	return strings.TrimSuffix(name, "."+p.domainName)
}

// cfTTL Cloudflare 中 TTL=1 表示自动
func cfTTL(ttl int) int {
	if ttl <= 0 {
		return 1
	}
	return ttl
}

// AddRecord 添加DNS记录
func (p *DNSProvider) AddRecord(ctx context.Context, rr, recordType, value string, ttl int) (string, error) {
	logging.Infof("[Cloudflare] 添加记录: %s.%s -> %s (类型: %s)", rr, p.domainName, value, recordType)

	record, err := p.api.CreateDNSRecord(ctx, cf.ZoneIdentifier(p.zoneID), cf.CreateDNSRecordParams{
		Type:    recordType,
		Name:    p.recordName(rr),
		Content: value,
		TTL:     cfTTL(ttl),
		Proxied: cf.BoolPtr(false),
	})
	if err != nil {
		return "", provider.WrapErr(p.Name(), "AddRecord", err)
	}

	logging.Infof("[Cloudflare] 记录已添加: ID=%s", record.ID)
	return record.ID, nil
}

// ModifyRecord 更新DNS记录
func (p *DNSProvider) ModifyRecord(ctx context.Context, recordID, rr, recordType, value string, ttl int) error {
	logging.Infof("[Cloudflare] 更新记录: ID=%s, %s -> %s", recordID, rr, value)

	_, err := p.api.UpdateDNSRecord(ctx, cf.ZoneIdentifier(p.zoneID), cf.UpdateDNSRecordParams{
		ID:      recordID,
		Type:    recordType,
		Name:    p.recordName(rr),
		Content: value,
		TTL:     cfTTL(ttl),
	})
	if err != nil {
		return provider.WrapErr(p.Name(), "ModifyRecord", err)
	}
	return nil
}

// DeleteRecord 删除DNS记录
func (p *DNSProvider) DeleteRecord(ctx context.Context, recordID string) error {
	logging.Infof("[Cloudflare] 删除记录: ID=%s", recordID)

	if err := p.api.DeleteDNSRecord(ctx, cf.ZoneIdentifier(p.zoneID), recordID); err != nil {
		return provider.WrapErr(p.Name(), "DeleteRecord", err)
	}
	return nil
}

// FindRecord 按主机记录和类型查找DNS记录
func (p *DNSProvider) FindRecord(ctx context.Context, rr, recordType string) (*provider.Record, error) {
	name := p.recordName(rr)
	if !strings.HasSuffix(name, p.domainName) {
		name = name + "." + p.domainName
	}

	records, _, err := p.api.ListDNSRecords(ctx, cf.ZoneIdentifier(p.zoneID), cf.ListDNSRecordsParams{
		Name: name,
		Type: recordType,
	})
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "FindRecord", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	return p.normalizeRecord(records[0]), nil
}

// ListRecords 列出DNS记录
func (p *DNSProvider) ListRecords(ctx context.Context, page, pageSize int) ([]provider.Record, error) {
	records, _, err := p.api.ListDNSRecords(ctx, cf.ZoneIdentifier(p.zoneID), cf.ListDNSRecordsParams{
		ResultInfo: cf.ResultInfo{
			Page:    page,
			PerPage: pageSize,
		},
	})
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "ListRecords", err)
	}

	var result []provider.Record
	for _, record := range records {
		result = append(result, *p.normalizeRecord(record))
	}
	return result, nil
}

// ListZones 列出凭证下的zone
func (p *DNSProvider) ListZones(ctx context.Context, page, pageSize int) ([]provider.Zone, error) {
	response, err := p.api.ListZonesContext(ctx, cf.WithPagination(cf.PaginationOptions{
		Page:    page,
		PerPage: pageSize,
	}))
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "ListZones", err)
	}

	var zones []provider.Zone
	for _, z := range response.Result {
		zones = append(zones, provider.Zone{
			ID:     z.ID,
			Name:   z.Name,
			Status: z.Status,
		})
	}
	return zones, nil
}

func (p *DNSProvider) normalizeRecord(record cf.DNSRecord) *provider.Record {
	var updatedAt string
	if !record.ModifiedOn.IsZero() {
		updatedAt = record.ModifiedOn.Format(time.RFC3339)
	}
	status := "active"
	if record.Proxied != nil && *record.Proxied {
		status = "proxied"
	}
	return &provider.Record{
		ID:        record.ID,
		Host:      p.hostFromName(record.Name),
		Type:      record.Type,
		Value:     record.Content,
		TTL:       record.TTL,
		Status:    status,
		UpdatedAt: updatedAt,
	}
}
