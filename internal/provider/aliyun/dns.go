package aliyun

import (
	"context"
	"fmt"

	alidns "github.com/alibabacloud-go/alidns-20150109/v4/client"
	openapi "github.com/alibabacloud-go/darabonba-openapi/v2/client"
	"github.com/alibabacloud-go/tea/tea"

	"domainhub/internal/provider"
	"domainhub/pkg/logging"
)

// DNSProvider 阿里云DNS提供商
// RR/Type/Value/TTL 等原生字段在此归一化，不向上层暴露
type DNSProvider struct {
	client     *alidns.Client
	domainName string
}

// New 创建阿里云DNS提供商
func New(accessKeyID, accessKeySecret, domainName string) (*DNSProvider, error) {
	clientConfig := &openapi.Config{
		AccessKeyId:     tea.String(accessKeyID),
		AccessKeySecret: tea.String(accessKeySecret),
		Endpoint:        tea.String("alidns.cn-hangzhou.aliyuncs.com"),
	}

	client, err := alidns.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("创建阿里云DNS客户端失败: %w", err)
	}

	return &DNSProvider{client: client, domainName: domainName}, nil
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "aliyun"
}

// AddRecord 添加DNS记录
func (p *DNSProvider) AddRecord(ctx context.Context, rr, recordType, value string, ttl int) (string, error) {
	logging.Infof("[阿里云DNS] 添加记录: %s.%s -> %s (类型: %s)", rr, p.domainName, value, recordType)

	request := &alidns.AddDomainRecordRequest{
		DomainName: tea.String(p.domainName),
		RR:         tea.String(rr),
		Type:       tea.String(recordType),
		Value:      tea.String(value),
		TTL:        tea.Int64(int64(ttl)),
	}

	response, err := p.client.AddDomainRecord(request)
	if err != nil {
		return "", provider.WrapErr(p.Name(), "AddRecord", err)
	}

	recordID := tea.StringValue(response.Body.RecordId)
	logging.Infof("[阿里云DNS] 记录已添加: ID=%s", recordID)
	return recordID, nil
}

// ModifyRecord 更新DNS记录
func (p *DNSProvider) ModifyRecord(ctx context.Context, recordID, rr, recordType, value string, ttl int) error {
	logging.Infof("[阿里云DNS] 更新记录: ID=%s, %s -> %s", recordID, rr, value)

	request := &alidns.UpdateDomainRecordRequest{
		RecordId: tea.String(recordID),
		RR:       tea.String(rr),
		Type:     tea.String(recordType),
		Value:    tea.String(value),
		TTL:      tea.Int64(int64(ttl)),
	}

	if _, err := p.client.UpdateDomainRecord(request); err != nil {
		return provider.WrapErr(p.Name(), "ModifyRecord", err)
	}
	return nil
}

// DeleteRecord 删除DNS记录
func (p *DNSProvider) DeleteRecord(ctx context.Context, recordID string) error {
	logging.Infof("[阿里云DNS] 删除记录: ID=%s", recordID)

	request := &alidns.DeleteDomainRecordRequest{
		RecordId: tea.String(recordID),
	}

	if _, err := p.client.DeleteDomainRecord(request); err != nil {
		return provider.WrapErr(p.Name(), "DeleteRecord", err)
	}
	return nil
}

// FindRecord 按主机记录和类型查找DNS记录
func (p *DNSProvider) FindRecord(ctx context.Context, rr, recordType string) (*provider.Record, error) {
	request := &alidns.DescribeDomainRecordsRequest{
		DomainName: tea.String(p.domainName),
		RRKeyWord:  tea.String(rr),
		Type:       tea.String(recordType),
	}

	response, err := p.client.DescribeDomainRecords(request)
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "FindRecord", err)
	}

	if response.Body != nil && response.Body.DomainRecords != nil {
		for _, record := range response.Body.DomainRecords.Record {
			if tea.StringValue(record.RR) == rr && tea.StringValue(record.Type) == recordType {
				return normalizeRecord(record), nil
			}
		}
	}

	return nil, nil
}

// ListRecords 列出DNS记录
func (p *DNSProvider) ListRecords(ctx context.Context, page, pageSize int) ([]provider.Record, error) {
	request := &alidns.DescribeDomainRecordsRequest{
		DomainName: tea.String(p.domainName),
		PageNumber: tea.Int64(int64(page)),
		PageSize:   tea.Int64(int64(pageSize)),
	}

	response, err := p.client.DescribeDomainRecords(request)
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "ListRecords", err)
	}

	var records []provider.Record
	if response.Body != nil && response.Body.DomainRecords != nil {
		for _, record := range response.Body.DomainRecords.Record {
			records = append(records, *normalizeRecord(record))
		}
	}
	return records, nil
}

// ListZones 列出凭证下的域名
func (p *DNSProvider) ListZones(ctx context.Context, page, pageSize int) ([]provider.Zone, error) {
	request := &alidns.DescribeDomainsRequest{
		PageNumber: tea.Int64(int64(page)),
		PageSize:   tea.Int64(int64(pageSize)),
	}

	response, err := p.client.DescribeDomains(request)
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "ListZones", err)
	}

	var zones []provider.Zone
	if response.Body != nil && response.Body.Domains != nil {
		for _, d := range response.Body.Domains.Domain {
			zones = append(zones, provider.Zone{
				ID:     tea.StringValue(d.DomainId),
				Name:   tea.StringValue(d.DomainName),
				Status: "active",
			})
		}
	}
	return zones, nil
}

func normalizeRecord(record *alidns.DescribeDomainRecordsResponseBodyDomainRecordsRecord) *provider.Record {
	return &provider.Record{
		ID:     tea.StringValue(record.RecordId),
		Host:   tea.StringValue(record.RR),
		Type:   tea.StringValue(record.Type),
		Value:  tea.StringValue(record.Value),
		TTL:    int(tea.Int64Value(record.TTL)),
		Status: tea.StringValue(record.Status),
	}
}
