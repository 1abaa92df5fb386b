package tencent

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	tcerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	dnspod "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/dnspod/v20210323"

	"domainhub/internal/provider"
	"domainhub/pkg/logging"
)

// DNSPod 对"无记录"查询返回该错误码而不是空列表
const errNoDataOfRecord = "ResourceNotFound.NoDataOfRecord"

// DNSProvider 腾讯云DNS提供商 (DNSPod)
// Name/Type 字段与偏移式分页在此归一化
type DNSProvider struct {
	client     *dnspod.Client
	domainName string
}

// New 创建腾讯云DNS提供商
func New(secretID, secretKey, domainName string) (*DNSProvider, error) {
	credential := common.NewCredential(secretID, secretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = "dnspod.tencentcloudapi.com"

	client, err := dnspod.NewClient(credential, "", cpf)
	if err != nil {
		return nil, fmt.Errorf("创建腾讯云DNSPod客户端失败: %w", err)
	}

	return &DNSProvider{client: client, domainName: domainName}, nil
}

// Name 返回提供商名称
func (p *DNSProvider) Name() string {
	return "tencent"
}

// AddRecord 添加DNS记录
func (p *DNSProvider) AddRecord(ctx context.Context, rr, recordType, value string, ttl int) (string, error) {
	logging.Infof("[腾讯云DNS] 添加记录: %s.%s -> %s (类型: %s)", rr, p.domainName, value, recordType)

	request := dnspod.NewCreateRecordRequest()
	request.Domain = common.StringPtr(p.domainName)
	request.SubDomain = common.StringPtr(rr)
	request.RecordType = common.StringPtr(recordType)
	request.RecordLine = common.StringPtr("默认")
	request.Value = common.StringPtr(value)
	request.TTL = common.Uint64Ptr(uint64(ttl))

	response, err := p.client.CreateRecord(request)
	if err != nil {
		return "", provider.WrapErr(p.Name(), "AddRecord", err)
	}

	recordID := strconv.FormatUint(uintVal(response.Response.RecordId), 10)
	logging.Infof("[腾讯云DNS] 记录已添加: ID=%s", recordID)
	return recordID, nil
}

// ModifyRecord 更新DNS记录
func (p *DNSProvider) ModifyRecord(ctx context.Context, recordID, rr, recordType, value string, ttl int) error {
	logging.Infof("[腾讯云DNS] 更新记录: ID=%s, %s -> %s", recordID, rr, value)

	recordIDUint, err := strconv.ParseUint(recordID, 10, 64)
	if err != nil {
		return fmt.Errorf("无效的记录ID %q: %w", recordID, err)
	}

	request := dnspod.NewModifyRecordRequest()
	request.Domain = common.StringPtr(p.domainName)
	request.RecordId = common.Uint64Ptr(recordIDUint)
	request.SubDomain = common.StringPtr(rr)
	request.RecordType = common.StringPtr(recordType)
	request.RecordLine = common.StringPtr("默认")
	request.Value = common.StringPtr(value)
	request.TTL = common.Uint64Ptr(uint64(ttl))

	if _, err := p.client.ModifyRecord(request); err != nil {
		return provider.WrapErr(p.Name(), "ModifyRecord", err)
	}
	return nil
}

// DeleteRecord 删除DNS记录
func (p *DNSProvider) DeleteRecord(ctx context.Context, recordID string) error {
	logging.Infof("[腾讯云DNS] 删除记录: ID=%s", recordID)

	recordIDUint, err := strconv.ParseUint(recordID, 10, 64)
	if err != nil {
		return fmt.Errorf("无效的记录ID %q: %w", recordID, err)
	}

	request := dnspod.NewDeleteRecordRequest()
	request.Domain = common.StringPtr(p.domainName)
	request.RecordId = common.Uint64Ptr(recordIDUint)

	if _, err := p.client.DeleteRecord(request); err != nil {
		return provider.WrapErr(p.Name(), "DeleteRecord", err)
	}
	return nil
}

// FindRecord 按主机记录和类型查找DNS记录
func (p *DNSProvider) FindRecord(ctx context.Context, rr, recordType string) (*provider.Record, error) {
	request := dnspod.NewDescribeRecordListRequest()
	request.Domain = common.StringPtr(p.domainName)
	request.Subdomain = common.StringPtr(rr)
	request.RecordType = common.StringPtr(recordType)

	response, err := p.client.DescribeRecordList(request)
	if err != nil {
		if isNoData(err) {
			return nil, nil
		}
		return nil, provider.WrapErr(p.Name(), "FindRecord", err)
	}

	for _, record := range response.Response.RecordList {
		if strVal(record.Name) == rr && strVal(record.Type) == recordType {
			return normalizeRecord(record), nil
		}
	}
	return nil, nil
}

// ListRecords 列出DNS记录（页码转偏移量）
func (p *DNSProvider) ListRecords(ctx context.Context, page, pageSize int) ([]provider.Record, error) {
	request := dnspod.NewDescribeRecordListRequest()
	request.Domain = common.StringPtr(p.domainName)
	request.Offset = common.Uint64Ptr(uint64((page - 1) * pageSize))
	request.Limit = common.Uint64Ptr(uint64(pageSize))

	response, err := p.client.DescribeRecordList(request)
	if err != nil {
		if isNoData(err) {
			return nil, nil
		}
		return nil, provider.WrapErr(p.Name(), "ListRecords", err)
	}

	var records []provider.Record
	for _, record := range response.Response.RecordList {
		records = append(records, *normalizeRecord(record))
	}
	return records, nil
}

// ListZones 列出凭证下的域名（页码转偏移量）
func (p *DNSProvider) ListZones(ctx context.Context, page, pageSize int) ([]provider.Zone, error) {
	request := dnspod.NewDescribeDomainListRequest()
	request.Offset = common.Int64Ptr(int64((page - 1) * pageSize))
	request.Limit = common.Int64Ptr(int64(pageSize))

	response, err := p.client.DescribeDomainList(request)
	if err != nil {
		return nil, provider.WrapErr(p.Name(), "ListZones", err)
	}

	var zones []provider.Zone
	for _, d := range response.Response.DomainList {
		zones = append(zones, provider.Zone{
			ID:     strconv.FormatUint(uintVal(d.DomainId), 10),
			Name:   strVal(d.Name),
			Status: strVal(d.Status),
		})
	}
	return zones, nil
}

func normalizeRecord(record *dnspod.RecordListItem) *provider.Record {
	return &provider.Record{
		ID:        strconv.FormatUint(uintVal(record.RecordId), 10),
		Host:      strVal(record.Name),
		Type:      strVal(record.Type),
		Value:     strVal(record.Value),
		TTL:       int(uintVal(record.TTL)),
		Status:    strVal(record.Status),
		UpdatedAt: strVal(record.UpdatedOn),
	}
}

func isNoData(err error) bool {
	if sdkErr, ok := err.(*tcerrors.TencentCloudSDKError); ok {
		return sdkErr.GetCode() == errNoDataOfRecord
	}
	return false
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func uintVal(p *uint64) uint64 {
	if p == nil {
		return 0
	}
	return *p
}
