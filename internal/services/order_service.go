package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"domainhub/internal/config"
	"domainhub/internal/database"
	"domainhub/internal/models"
	"domainhub/internal/payment"
	"domainhub/internal/payment/types"
	"domainhub/internal/provider"
	"domainhub/pkg/logging"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProviderRegistry 订单服务需要的提供商解析能力
type ProviderRegistry interface {
	ForDomain(domainName string) (provider.Provider, error)
}

// GatewayFactory 按支付方式与配置构造网关
type GatewayFactory func(method, configData string) (payment.Gateway, error)

// OrderService 解析订单状态机
type OrderService struct {
	packages  *PackageService
	providers ProviderRegistry
	gateways  GatewayFactory
}

// NewOrderService 创建订单服务
func NewOrderService(packages *PackageService, providers ProviderRegistry) *OrderService {
	return &OrderService{
		packages:  packages,
		providers: providers,
		gateways:  payment.NewGateway,
	}
}

// SetGatewayFactory 覆盖网关构造（测试用）
func (s *OrderService) SetGatewayFactory(f GatewayFactory) {
	s.gateways = f
}

// GenerateOrderNo 订单号：PO + 毫秒时间戳 + 8位随机数
func GenerateOrderNo() string {
	n, err := rand.Int(rand.Reader, big.NewInt(100000000))
	if err != nil {
		n = big.NewInt(time.Now().UnixNano() % 100000000)
	}
	return fmt.Sprintf("PO%d%08d", time.Now().UnixMilli(), n.Int64())
}

// CreateOrderInput 创建订单入参
type CreateOrderInput struct {
	DomainID    uint
	WebsiteName string
	Hostname    string
	RecordType  string
	RecordValue string
	Remark      string
}

// CreateOrder 创建解析订单。
// 先尝试套餐抵扣（价格0.00、直接进入 reviewing、无过期时间）；
// 无可用套餐则走支付流程（域名单价、pending、30分钟过期）。
// 抵扣判定与计数扣减和订单落库在同一事务内。
func (s *OrderService) CreateOrder(ctx context.Context, userID uint, in CreateOrderInput) (*models.ParseOrder, *models.Domain, error) {
	if !models.AllowedRecordType(in.RecordType) {
		return nil, nil, ErrInvalidRecordType
	}

	var order models.ParseOrder
	var domain models.Domain

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&domain, in.DomainID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDomainNotFound
			}
			return err
		}

		now := time.Now()
		price := domain.Price
		status := models.OrderStatusPending
		deductPackage := false
		var deductedPackageID *uint

		expireAfter := time.Duration(config.AppConfig.OrderExpireMinutes) * time.Minute
		expiresAt := now.Add(expireAfter)
		expiresPtr := &expiresAt

		reserved, packageID, err := s.packages.ReserveSlot(tx, userID, in.DomainID, now)
		if err != nil {
			return err
		}
		if reserved {
			deductPackage = true
			deductedPackageID = &packageID
			price = decimal.Zero
			status = models.OrderStatusReviewing
			expiresPtr = nil
		}

		fullHostname := in.Hostname + "." + domain.DomainName
		if in.Hostname == "@" {
			fullHostname = domain.DomainName
		}

		order = models.ParseOrder{
			UserID:            userID,
			OrderNo:           GenerateOrderNo(),
			DomainID:          in.DomainID,
			WebsiteName:       in.WebsiteName,
			Hostname:          in.Hostname,
			FullHostname:      fullHostname,
			RecordType:        in.RecordType,
			RecordValue:       in.RecordValue,
			TTL:               models.DefaultRecordTTL,
			Price:             price,
			DeductPackage:     deductPackage,
			DeductedPackageID: deductedPackageID,
			Status:            status,
			Remark:            in.Remark,
			ExpiresAt:         expiresPtr,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &order, &domain, nil
}

// PayOrder 对 pending 订单发起支付。
// 套餐抵扣订单永远不可支付；支付配置缺失或停用拒绝；
// 网关构造失败时事务回滚，订单保持 pending 而不是卡在 paying。
func (s *OrderService) PayOrder(ctx context.Context, userID, orderID uint, methodCode, clientIP string) (*types.Intent, *models.ParseOrder, error) {
	if methodCode == models.PaymentMethodBalance {
		return nil, nil, ErrBalanceNotSupported
	}

	var intent *types.Intent
	var order models.ParseOrder

	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.DeductPackage {
			return ErrPackageDeductedOrder
		}
		if order.Status != models.OrderStatusPending {
			return ErrOrderNotPayable
		}

		method, subMethod := payment.NormalizeMethod(methodCode)

		var setting models.PaymentSetting
		err := tx.Where("payment_method = ? AND is_enabled = ?", method, true).First(&setting).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentMethodUnavailable
			}
			return err
		}

		gateway, err := s.gateways(method, setting.ConfigData)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentMethodUnavailable, err)
		}

		moved, err := database.TransitionOrder(tx, order.ID,
			[]string{models.OrderStatusPending},
			map[string]interface{}{
				"status":         models.OrderStatusPaying,
				"payment_method": methodCode,
			})
		if err != nil {
			return err
		}
		if !moved {
			return ErrOrderNotPayable
		}

		intent, err = gateway.CreatePayment(ctx, types.OrderInfo{
			OrderNo:      order.OrderNo,
			Price:        order.Price,
			WebsiteName:  order.WebsiteName,
			FullHostname: order.FullHostname,
			SubMethod:    subMethod,
			ClientIP:     clientIP,
		})
		if err != nil {
			// 返回错误让事务回滚 paying 迁移
			return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}

		order.Status = models.OrderStatusPaying
		order.PaymentMethod = methodCode
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return intent, &order, nil
}

// ConfirmPayment 签名验证通过的支付回调确认。
// 重复回调（订单已 paid/reviewing/active）是空操作；
// DNS创建失败不回滚支付，订单保持 paid 等待重试。
func (s *OrderService) ConfirmPayment(ctx context.Context, orderNo string) error {
	order, err := database.GetOrderByNo(orderNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	switch order.Status {
	case models.OrderStatusPaid, models.OrderStatusReviewing, models.OrderStatusActive:
		// 延迟/重复回调，按当前状态判定为空操作
		return nil
	case models.OrderStatusPaying:
	default:
		return ErrInvalidTransition
	}

	now := time.Now()
	moved, err := database.TransitionOrder(database.DB, order.ID,
		[]string{models.OrderStatusPaying},
		map[string]interface{}{
			"status":       models.OrderStatusPaid,
			"payment_time": now,
		})
	if err != nil {
		return err
	}
	if !moved {
		// 并发回调输掉竞争，对方已完成迁移
		return nil
	}

	if err := s.provisionAndAdvance(ctx, order.ID); err != nil {
		logging.Errorf("订单 %s 支付确认后DNS创建失败，保持 paid 等待重试: %v", orderNo, err)
	}
	return nil
}

// provisionAndAdvance 为已支付订单创建云端记录并迁移到 reviewing。
// 以订单号为幂等键：先查找既有记录，存在则复用其ID，不产生重复记录。
func (s *OrderService) provisionAndAdvance(ctx context.Context, orderID uint) error {
	order, err := database.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.Status != models.OrderStatusPaid {
		return nil
	}
	if order.Domain == nil {
		return fmt.Errorf("订单 %s 缺少域名信息", order.OrderNo)
	}

	recordID := order.CloudRecordID
	if recordID == "" {
		recordID, err = s.createRecord(ctx, order)
		if err != nil {
			return err
		}
	}

	_, err = database.TransitionOrder(database.DB, order.ID,
		[]string{models.OrderStatusPaid},
		map[string]interface{}{
			"status":          models.OrderStatusReviewing,
			"cloud_record_id": recordID,
		})
	return err
}

// createRecord 幂等创建云端DNS记录
func (s *OrderService) createRecord(ctx context.Context, order *models.ParseOrder) (string, error) {
	p, err := s.providers.ForDomain(order.Domain.DomainName)
	if err != nil {
		return "", err
	}

	existing, err := p.FindRecord(ctx, order.Hostname, order.RecordType)
	if err != nil {
		return "", err
	}
	if existing != nil && existing.Value == order.RecordValue {
		return existing.ID, nil
	}
	if existing != nil {
		if err := p.ModifyRecord(ctx, existing.ID, order.Hostname, order.RecordType, order.RecordValue, order.TTL); err != nil {
			return "", err
		}
		return existing.ID, nil
	}

	return p.AddRecord(ctx, order.Hostname, order.RecordType, order.RecordValue, order.TTL)
}

// ListUserOrders 用户订单分页列表
func (s *OrderService) ListUserOrders(userID uint, page, pageSize int) ([]models.ParseOrder, int64, error) {
	return database.ListUserOrders(userID, page, pageSize)
}

// ListByStatus 按状态分页查询订单（空状态查全部）
func (s *OrderService) ListByStatus(status string, page, pageSize int) ([]models.ParseOrder, int64, error) {
	return database.ListOrdersByStatus(status, page, pageSize)
}

// ReviewOrder 管理员审核。
// 通过：reviewing → active，非抵扣订单若尚未创建记录则先创建；
// 拒绝：reviewing → rejected，套餐抵扣订单在同一事务内归还名额。
func (s *OrderService) ReviewOrder(ctx context.Context, orderID uint, approve bool, reviewRemark string) error {
	order, err := database.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	if order.Status != models.OrderStatusReviewing {
		return ErrInvalidTransition
	}

	now := time.Now()

	if approve {
		recordID := order.CloudRecordID
		if recordID == "" {
			recordID, err = s.createRecord(ctx, order)
			if err != nil {
				return err
			}
		}

		moved, err := database.TransitionOrder(database.DB, order.ID,
			[]string{models.OrderStatusReviewing},
			map[string]interface{}{
				"status":          models.OrderStatusActive,
				"cloud_record_id": recordID,
				"reviewed_at":     now,
				"review_remark":   reviewRemark,
			})
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidTransition
		}
		return nil
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		moved, err := database.TransitionOrder(tx, order.ID,
			[]string{models.OrderStatusReviewing},
			map[string]interface{}{
				"status":        models.OrderStatusRejected,
				"reviewed_at":   now,
				"review_remark": reviewRemark,
			})
		if err != nil {
			return err
		}
		if !moved {
			return ErrInvalidTransition
		}
		if order.DeductPackage && order.DeductedPackageID != nil {
			return s.packages.ReleaseSlot(tx, *order.DeductedPackageID)
		}
		return nil
	})
}

// CancelOrder 用户取消未完成支付的订单
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uint) error {
	order, err := database.GetUserOrder(database.DB, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	moved, err := database.TransitionOrder(database.DB, order.ID,
		[]string{models.OrderStatusPending, models.OrderStatusPaying},
		map[string]interface{}{"status": models.OrderStatusCancelled})
	if err != nil {
		return err
	}
	if !moved {
		return ErrInvalidTransition
	}
	return nil
}

// ExpireSweep 过期扫描：pending 且已过期的订单置为 expired，幂等
func (s *OrderService) ExpireSweep() (int64, error) {
	count, err := database.ExpirePendingOrders(time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logging.Infof("订单过期扫描：%d 个订单已过期", count)
	}
	return count, nil
}

// RetryProvisioning 重试已支付但云端记录缺失的订单（以订单号为幂等键）
func (s *OrderService) RetryProvisioning(ctx context.Context, limit int) {
	orders, err := database.ListPaidOrdersWithoutRecord(limit)
	if err != nil {
		logging.Errorf("待重试订单查询失败: %v", err)
		return
	}

	for i := range orders {
		if err := s.provisionAndAdvance(ctx, orders[i].ID); err != nil {
			logging.Errorf("订单 %s DNS创建重试失败: %v", orders[i].OrderNo, err)
		}
	}
}
