package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"domainhub/internal/config"
	"domainhub/internal/database"
	"domainhub/internal/models"
	"domainhub/internal/payment"
	"domainhub/internal/payment/types"
	"domainhub/internal/provider"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB 用内存数据库替换全局连接。
// 单连接串行化写入，并发测试依赖它保证条件更新逐条执行。
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取底层连接失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.PlatformCredential{},
		&models.Domain{},
		&models.Package{},
		&models.UserPackage{},
		&models.ParseOrder{},
		&models.PaymentSetting{},
	)
	if err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	database.DB = db
	database.RedisClient = nil
	config.AppConfig = &config.Config{OrderExpireMinutes: 30}
}

func seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		APIToken: "token-" + username,
		IsActive: true,
	}
	if err := database.DB.Create(user).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}

func seedDomain(t *testing.T, name string, price string) *models.Domain {
	t.Helper()
	domain := &models.Domain{
		DomainName: name,
		PlatformID: 1,
		Price:      decimal.RequireFromString(price),
		IsActive:   true,
		IsPublic:   true,
	}
	if err := database.DB.Create(domain).Error; err != nil {
		t.Fatalf("创建测试域名失败: %v", err)
	}
	return domain
}

func seedUserPackage(t *testing.T, userID, domainID uint, total, used int, validEnd time.Time) *models.UserPackage {
	t.Helper()
	pkg := &models.Package{
		DomainID:     domainID,
		Name:         "测试套餐",
		ParseCount:   total,
		DurationDays: 30,
		Price:        decimal.RequireFromString("50.00"),
		IsActive:     true,
	}
	if err := database.DB.Create(pkg).Error; err != nil {
		t.Fatalf("创建测试套餐失败: %v", err)
	}

	up := &models.UserPackage{
		UserID:     userID,
		PackageID:  pkg.ID,
		DomainID:   domainID,
		TotalCount: total,
		UsedCount:  used,
		ValidStart: time.Now().Add(-time.Hour),
		ValidEnd:   validEnd,
		Status:     models.UserPackageStatusActive,
	}
	if err := database.DB.Create(up).Error; err != nil {
		t.Fatalf("创建用户套餐失败: %v", err)
	}
	return up
}

func seedPaymentSetting(t *testing.T, method string, enabled bool) {
	t.Helper()
	setting := &models.PaymentSetting{
		PaymentMethod: method,
		PaymentName:   method,
		ConfigData:    "{}",
		IsEnabled:     enabled,
	}
	if err := database.DB.Create(setting).Error; err != nil {
		t.Fatalf("创建支付配置失败: %v", err)
	}
}

// fakeProvider 可编程的DNS提供商假实现
type fakeProvider struct {
	records  map[string]*provider.Record
	addCalls int32
	failAdd  bool
	nextID   int32
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{records: make(map[string]*provider.Record)}
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) AddRecord(ctx context.Context, rr, recordType, value string, ttl int) (string, error) {
	atomic.AddInt32(&p.addCalls, 1)
	if p.failAdd {
		return "", provider.WrapErr("fake", "AddRecord", fmt.Errorf("模拟平台故障"))
	}
	id := fmt.Sprintf("rec-%d", atomic.AddInt32(&p.nextID, 1))
	p.records[rr+"/"+recordType] = &provider.Record{ID: id, Host: rr, Type: recordType, Value: value, TTL: ttl}
	return id, nil
}

func (p *fakeProvider) ModifyRecord(ctx context.Context, recordID, rr, recordType, value string, ttl int) error {
	rec := p.records[rr+"/"+recordType]
	if rec == nil {
		return provider.WrapErr("fake", "ModifyRecord", fmt.Errorf("记录不存在"))
	}
	rec.Value = value
	rec.TTL = ttl
	return nil
}

func (p *fakeProvider) DeleteRecord(ctx context.Context, recordID string) error {
	for key, rec := range p.records {
		if rec.ID == recordID {
			delete(p.records, key)
			return nil
		}
	}
	return nil
}

func (p *fakeProvider) FindRecord(ctx context.Context, rr, recordType string) (*provider.Record, error) {
	return p.records[rr+"/"+recordType], nil
}

func (p *fakeProvider) ListRecords(ctx context.Context, page, pageSize int) ([]provider.Record, error) {
	out := make([]provider.Record, 0, len(p.records))
	for _, rec := range p.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (p *fakeProvider) ListZones(ctx context.Context, page, pageSize int) ([]provider.Zone, error) {
	return nil, nil
}

// fakeRegistry 所有域名解析到同一个假提供商
type fakeRegistry struct {
	provider *fakeProvider
	err      error
}

func (r *fakeRegistry) ForDomain(domainName string) (provider.Provider, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.provider, nil
}

// fakeGateway 可编程的支付网关假实现
type fakeGateway struct {
	method      string
	createErr   error
	verifyPass  bool
	createCalls int32
}

func (g *fakeGateway) Method() string { return g.method }

func (g *fakeGateway) CreatePayment(ctx context.Context, order types.OrderInfo) (*types.Intent, error) {
	atomic.AddInt32(&g.createCalls, 1)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &types.Intent{
		PaymentMethod: g.method,
		PaymentURL:    "https://pay.example.com/" + order.OrderNo,
		Amount:        order.Price,
	}, nil
}

func (g *fakeGateway) VerifyNotify(params map[string]string) bool { return g.verifyPass }

func (g *fakeGateway) NotifyAck(ok bool) (string, string) {
	if ok {
		return "text/plain", "success"
	}
	return "text/plain", "fail"
}

func fakeGatewayFactory(g *fakeGateway) GatewayFactory {
	return func(method, configData string) (payment.Gateway, error) {
		return g, nil
	}
}

// newTestOrderService 组装注入假依赖的订单服务
func newTestOrderService(reg *fakeRegistry, gw *fakeGateway) (*OrderService, *PackageService) {
	packages := NewPackageService()
	orders := NewOrderService(packages, reg)
	if gw != nil {
		orders.SetGatewayFactory(fakeGatewayFactory(gw))
	}
	return orders, packages
}
