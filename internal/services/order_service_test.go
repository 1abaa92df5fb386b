package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"domainhub/internal/database"
	"domainhub/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateOrder_PackageDeduction(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	up := seedUserPackage(t, user.ID, domain.ID, 10, 0, time.Now().Add(24*time.Hour))

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "博客",
		Hostname:    "blog",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	// 套餐抵扣：价格0、直接进入审核、无过期时间
	assert.True(t, order.DeductPackage)
	assert.Equal(t, models.OrderStatusReviewing, order.Status)
	assert.True(t, order.Price.IsZero())
	assert.Nil(t, order.ExpiresAt)
	assert.Equal(t, up.ID, *order.DeductedPackageID)
	assert.Equal(t, "blog.example.com", order.FullHostname)

	// 套餐计数已扣减
	got, err := database.GetUserPackageByID(up.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
}

func TestCreateOrder_NoPackage(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "bob")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "官网",
		Hostname:    "@",
		RecordType:  models.RecordTypeCNAME,
		RecordValue: "target.example.net",
	})
	assert.NoError(t, err)

	assert.False(t, order.DeductPackage)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Price.Equal(domain.Price))
	assert.Equal(t, "example.com", order.FullHostname)
	assert.Equal(t, models.DefaultRecordTTL, order.TTL)

	// 30分钟支付窗口
	if assert.NotNil(t, order.ExpiresAt) {
		assert.WithinDuration(t, time.Now().Add(30*time.Minute), *order.ExpiresAt, time.Minute)
	}
}

func TestCreateOrder_InvalidRecordType(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	_, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "mail",
		RecordType:  "MX",
		RecordValue: "mail.example.net",
	})
	assert.ErrorIs(t, err, ErrInvalidRecordType)
}

func TestCreateOrder_DomainNotFound(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	_, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    999,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.ErrorIs(t, err, ErrDomainNotFound)
}

func TestCreateOrder_PackagePriority(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	// 后到期的先建，确保排序看的是到期时间而不是ID
	later := seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(48*time.Hour))
	sooner := seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(24*time.Hour))

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)
	assert.Equal(t, sooner.ID, *order.DeductedPackageID)

	got, _ := database.GetUserPackageByID(later.ID)
	assert.Equal(t, 0, got.UsedCount)
}

func TestCreateOrder_ExpiredAndExhaustedPackagesSkipped(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	seedUserPackage(t, user.ID, domain.ID, 5, 5, time.Now().Add(24*time.Hour)) // 用尽
	seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(-time.Hour))  // 过期

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	// 没有可用套餐，落入支付流程
	assert.False(t, order.DeductPackage)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestConcurrentReservation(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	up := seedUserPackage(t, user.ID, domain.ID, 3, 0, time.Now().Add(24*time.Hour))

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	const workers = 8
	var wg sync.WaitGroup
	results := make([]bool, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
				DomainID:    domain.ID,
				WebsiteName: "站点",
				Hostname:    fmt.Sprintf("host%d", idx),
				RecordType:  models.RecordTypeA,
				RecordValue: "1.2.3.4",
			})
			if err == nil {
				results[idx] = order.DeductPackage
			}
		}(i)
	}
	wg.Wait()

	deducted := 0
	for _, ok := range results {
		if ok {
			deducted++
		}
	}

	// 恰好消耗可用名额，绝不超卖
	assert.Equal(t, 3, deducted)

	got, _ := database.GetUserPackageByID(up.ID)
	assert.Equal(t, 3, got.UsedCount)
}

func TestPayOrder_Success(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	gw := &fakeGateway{method: models.PaymentMethodAlipay}
	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, gw)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	intent, paid, err := orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.NoError(t, err)
	assert.NotNil(t, intent)
	assert.Equal(t, models.OrderStatusPaying, paid.Status)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusPaying, got.Status)
	assert.Equal(t, models.PaymentMethodAlipay, got.PaymentMethod)
}

func TestPayOrder_DisabledMethod(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, false)

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, &fakeGateway{method: models.PaymentMethodAlipay})

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.ErrorIs(t, err, ErrPaymentMethodUnavailable)

	// 订单保持待支付，没有半截迁移
	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestPayOrder_PackageDeductedOrder(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(24*time.Hour))
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, &fakeGateway{method: models.PaymentMethodAlipay})

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)
	assert.True(t, order.DeductPackage)

	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.ErrorIs(t, err, ErrPackageDeductedOrder)
}

func TestPayOrder_BalanceRejected(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	_, _, err := orders.PayOrder(context.Background(), user.ID, 1, models.PaymentMethodBalance, "1.1.1.1")
	assert.ErrorIs(t, err, ErrBalanceNotSupported)
}

func TestPayOrder_GatewayFailureKeepsPending(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	gw := &fakeGateway{method: models.PaymentMethodAlipay, createErr: errors.New("网关超时")}
	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, gw)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.ErrorIs(t, err, ErrPaymentGateway)

	// 网关失败时事务回滚，订单不能卡在 paying
	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestPayOrder_NonPendingStates(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	gw := &fakeGateway{method: models.PaymentMethodAlipay}
	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, gw)

	// pending 以外的任何状态都不可再次发起支付，更不能触发第二次下单
	for _, status := range []string{
		models.OrderStatusPaying,
		models.OrderStatusPaid,
		models.OrderStatusReviewing,
		models.OrderStatusActive,
		models.OrderStatusExpired,
	} {
		order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
			DomainID:    domain.ID,
			WebsiteName: "站点",
			Hostname:    "www",
			RecordType:  models.RecordTypeA,
			RecordValue: "1.2.3.4",
		})
		assert.NoError(t, err)

		err = database.DB.Model(&models.ParseOrder{}).Where("id = ?", order.ID).
			Update("status", status).Error
		assert.NoError(t, err)

		before := gw.createCalls
		_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
		assert.ErrorIs(t, err, ErrOrderNotPayable, "状态 %s 不应可支付", status)
		assert.Equal(t, before, gw.createCalls, "状态 %s 不应触发网关下单", status)

		got, _ := database.GetOrderByID(order.ID)
		assert.Equal(t, status, got.Status)
	}
}

func TestPayOrder_ExpiredAfterSweep(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	gw := &fakeGateway{method: models.PaymentMethodAlipay}
	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, gw)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	past := time.Now().Add(-time.Minute)
	err = database.DB.Model(&models.ParseOrder{}).Where("id = ?", order.ID).
		Update("expires_at", past).Error
	assert.NoError(t, err)

	_, err = orders.ExpireSweep()
	assert.NoError(t, err)

	// 扫描后的过期订单拒绝支付
	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.ErrorIs(t, err, ErrOrderNotPayable)
	assert.Equal(t, int32(0), gw.createCalls)
}

func TestPayOrder_NotOwner(t *testing.T) {
	setupTestDB(t)
	owner := seedUser(t, "alice")
	other := seedUser(t, "bob")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, &fakeGateway{method: models.PaymentMethodAlipay})

	order, _, err := orders.CreateOrder(context.Background(), owner.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	_, _, err = orders.PayOrder(context.Background(), other.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConfirmPayment_FullFlow(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	fp := newFakeProvider()
	orders, _ := newTestOrderService(&fakeRegistry{provider: fp}, &fakeGateway{method: models.PaymentMethodAlipay})

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.NoError(t, err)

	err = orders.ConfirmPayment(context.Background(), order.OrderNo)
	assert.NoError(t, err)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusReviewing, got.Status)
	assert.NotEmpty(t, got.CloudRecordID)
	assert.NotNil(t, got.PaymentTime)
	assert.Equal(t, int32(1), fp.addCalls)

	// 重复回调是空操作，不会再次创建记录
	err = orders.ConfirmPayment(context.Background(), order.OrderNo)
	assert.NoError(t, err)
	assert.Equal(t, int32(1), fp.addCalls)
}

func TestConfirmPayment_ProviderFailureAndRetry(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedPaymentSetting(t, models.PaymentMethodAlipay, true)

	fp := newFakeProvider()
	fp.failAdd = true
	orders, _ := newTestOrderService(&fakeRegistry{provider: fp}, &fakeGateway{method: models.PaymentMethodAlipay})

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	_, _, err = orders.PayOrder(context.Background(), user.ID, order.ID, models.PaymentMethodAlipay, "1.1.1.1")
	assert.NoError(t, err)

	// DNS创建失败不回滚支付
	err = orders.ConfirmPayment(context.Background(), order.OrderNo)
	assert.NoError(t, err)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusPaid, got.Status)
	assert.Empty(t, got.CloudRecordID)

	// 平台恢复后重试补齐记录并进入审核
	fp.failAdd = false
	orders.RetryProvisioning(context.Background(), 20)

	got, _ = database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusReviewing, got.Status)
	assert.NotEmpty(t, got.CloudRecordID)
}

func TestConfirmPayment_PendingOrderRejected(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	// 未发起支付的订单不接受回调确认
	err = orders.ConfirmPayment(context.Background(), order.OrderNo)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusPending, got.Status)
}

func TestReviewOrder_Approve(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(24*time.Hour))

	fp := newFakeProvider()
	orders, _ := newTestOrderService(&fakeRegistry{provider: fp}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusReviewing, order.Status)

	err = orders.ReviewOrder(context.Background(), order.ID, true, "没问题")
	assert.NoError(t, err)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusActive, got.Status)
	assert.NotEmpty(t, got.CloudRecordID)
	assert.NotNil(t, got.ReviewedAt)
	assert.Equal(t, "没问题", got.ReviewRemark)

	// 套餐抵扣订单审核通过时才创建云端记录
	assert.Equal(t, int32(1), fp.addCalls)
}

func TestReviewOrder_RejectRestoresSlot(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")
	up := seedUserPackage(t, user.ID, domain.ID, 5, 0, time.Now().Add(24*time.Hour))

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	got, _ := database.GetUserPackageByID(up.ID)
	assert.Equal(t, 1, got.UsedCount)

	err = orders.ReviewOrder(context.Background(), order.ID, false, "记录值非法")
	assert.NoError(t, err)

	gotOrder, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusRejected, gotOrder.Status)

	// 拒绝归还抵扣名额
	got, _ = database.GetUserPackageByID(up.ID)
	assert.Equal(t, 0, got.UsedCount)
}

func TestReviewOrder_OnlyReviewing(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	err = orders.ReviewOrder(context.Background(), order.ID, true, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelOrder(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	err = orders.CancelOrder(context.Background(), user.ID, order.ID)
	assert.NoError(t, err)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	// 已取消订单不能重复取消
	err = orders.CancelOrder(context.Background(), user.ID, order.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExpireSweep(t *testing.T) {
	setupTestDB(t)
	user := seedUser(t, "alice")
	domain := seedDomain(t, "example.com", "9.90")

	orders, _ := newTestOrderService(&fakeRegistry{provider: newFakeProvider()}, nil)

	order, _, err := orders.CreateOrder(context.Background(), user.ID, CreateOrderInput{
		DomainID:    domain.ID,
		WebsiteName: "站点",
		Hostname:    "www",
		RecordType:  models.RecordTypeA,
		RecordValue: "1.2.3.4",
	})
	assert.NoError(t, err)

	// 把支付窗口拨到过去
	past := time.Now().Add(-time.Minute)
	err = database.DB.Model(&models.ParseOrder{}).Where("id = ?", order.ID).
		Update("expires_at", past).Error
	assert.NoError(t, err)

	count, err := orders.ExpireSweep()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	got, _ := database.GetOrderByID(order.ID)
	assert.Equal(t, models.OrderStatusExpired, got.Status)

	// 幂等：重复扫描不再命中
	count, err = orders.ExpireSweep()
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestGenerateOrderNo(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		no := GenerateOrderNo()
		assert.Len(t, no, 23)
		assert.Equal(t, "PO", no[:2])
		assert.False(t, seen[no], "订单号重复: %s", no)
		seen[no] = true
	}
}
