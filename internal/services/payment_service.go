package services

import (
	"context"
	"encoding/json"
	"time"

	"domainhub/internal/database"
	"domainhub/internal/models"
	"domainhub/internal/payment"
	"domainhub/internal/payment/epay"
	"domainhub/pkg/logging"

	"github.com/shopspring/decimal"
)

// epay 子通道展示信息
var epaySubMethodNames = map[string]string{
	"alipay": "支付宝",
	"wechat": "微信支付",
	"qqpay":  "QQ支付",
}

var epaySubMethodIcons = map[string]string{
	"alipay": "/static/icons/alipay.png",
	"wechat": "/static/icons/wechat.png",
	"qqpay":  "/static/icons/qqpay.png",
}

// MethodInfo 可用支付方式
type MethodInfo struct {
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Icon         string           `json:"icon,omitempty"`
	ParentMethod string           `json:"parentMethod,omitempty"`
	Balance      *decimal.Decimal `json:"balance,omitempty"`
	SortOrder    int              `json:"sortOrder"`
	Description  string           `json:"description,omitempty"`
}

// PaymentService 支付方式与回调处理
type PaymentService struct {
	orders   *OrderService
	gateways GatewayFactory
}

// NewPaymentService 创建支付服务
func NewPaymentService(orders *OrderService) *PaymentService {
	return &PaymentService{orders: orders, gateways: payment.NewGateway}
}

// SetGatewayFactory 覆盖网关构造（测试用）
func (s *PaymentService) SetGatewayFactory(f GatewayFactory) {
	s.gateways = f
}

// 启用支付方式的短TTL缓存，配置变更最多延迟一分钟生效
const (
	enabledMethodsCacheKey = "payment:methods:enabled"
	enabledMethodsCacheTTL = time.Minute
)

// enabledSettings 读取启用的支付配置，优先走缓存
func enabledSettings(ctx context.Context) ([]models.PaymentSetting, error) {
	if database.RedisClient != nil {
		if cached, err := database.GetCache(ctx, enabledMethodsCacheKey); err == nil && cached != "" {
			var settings []models.PaymentSetting
			if err := json.Unmarshal([]byte(cached), &settings); err == nil {
				return settings, nil
			}
		}
	}

	settings, err := database.ListEnabledPaymentSettings()
	if err != nil {
		return nil, err
	}

	if database.RedisClient != nil {
		if raw, err := json.Marshal(settings); err == nil {
			if err := database.SetCache(ctx, enabledMethodsCacheKey, string(raw), enabledMethodsCacheTTL); err != nil {
				logging.Warnf("支付方式缓存写入失败: %v", err)
			}
		}
	}
	return settings, nil
}

// ListMethods 展开用户可见的支付方式列表。
// epay 按其配置的子通道展开为 epay_alipay 等条目；
// balance 仅展示余额，下单支付时会被拒绝。
func (s *PaymentService) ListMethods(ctx context.Context, userID uint) ([]MethodInfo, error) {
	settings, err := enabledSettings(ctx)
	if err != nil {
		return nil, err
	}

	methods := make([]MethodInfo, 0, len(settings))
	for _, setting := range settings {
		switch setting.PaymentMethod {
		case models.PaymentMethodEpay:
			cfg, err := epay.ParseConfig(setting.ConfigData)
			if err != nil {
				logging.Warnf("易支付配置解析失败，跳过: %v", err)
				continue
			}
			for _, sub := range cfg.SupportedMethods {
				name, ok := epaySubMethodNames[sub]
				if !ok {
					continue
				}
				methods = append(methods, MethodInfo{
					Code:         "epay_" + sub,
					Name:         name,
					Icon:         epaySubMethodIcons[sub],
					ParentMethod: models.PaymentMethodEpay,
					SortOrder:    setting.SortOrder,
					Description:  setting.Description,
				})
			}
		case models.PaymentMethodBalance:
			user, err := database.GetUserByID(userID)
			if err != nil {
				logging.Warnf("余额查询失败: %v", err)
				continue
			}
			balance := user.Balance
			methods = append(methods, MethodInfo{
				Code:        models.PaymentMethodBalance,
				Name:        setting.PaymentName,
				Balance:     &balance,
				SortOrder:   setting.SortOrder,
				Description: setting.Description,
			})
		default:
			methods = append(methods, MethodInfo{
				Code:        setting.PaymentMethod,
				Name:        setting.PaymentName,
				SortOrder:   setting.SortOrder,
				Description: setting.Description,
			})
		}
	}
	return methods, nil
}

// HandleNotify 处理网关异步回调，返回应答内容。
// 签名验证失败只返回失败应答，绝不迁移订单状态；
// 用 Redis SetNX 做24小时回放护栏，确认失败时删除护栏键允许网关重发。
func (s *PaymentService) HandleNotify(ctx context.Context, methodCode string, params map[string]string) (contentType, body string) {
	method, _ := payment.NormalizeMethod(methodCode)

	setting, err := database.GetEnabledPaymentSetting(method)
	if err != nil {
		logging.Warnf("回调支付方式 %s 不可用: %v", methodCode, err)
		return "text/plain", "fail"
	}

	gateway, err := s.gateways(method, setting.ConfigData)
	if err != nil {
		logging.Errorf("回调网关构造失败 %s: %v", method, err)
		return "text/plain", "fail"
	}

	if !gateway.VerifyNotify(params) {
		logging.Warnf("回调签名验证失败，方式=%s", methodCode)
		return gateway.NotifyAck(false)
	}

	orderNo, ok := notifyOrderNo(params)
	if !ok {
		logging.Warnf("回调缺少订单号，方式=%s", methodCode)
		return gateway.NotifyAck(false)
	}

	if !notifySucceeded(method, params) {
		// 签名合法但交易未成功，确认收到即可
		logging.Infof("订单 %s 回调交易未成功，忽略", orderNo)
		return gateway.NotifyAck(true)
	}

	replayKey := "payment:notify:" + orderNo
	if database.RedisClient != nil {
		set, err := database.RedisClient.SetNX(ctx, replayKey, "1", 24*time.Hour).Result()
		if err != nil {
			logging.Warnf("回放护栏写入失败，继续处理: %v", err)
		} else if !set {
			// 重复回调，确认即可（ConfirmPayment 本身也幂等）
			return gateway.NotifyAck(true)
		}
	}

	if err := s.orders.ConfirmPayment(ctx, orderNo); err != nil {
		if database.RedisClient != nil {
			if delErr := database.DeleteCache(ctx, replayKey); delErr != nil {
				logging.Warnf("回放护栏键删除失败: %v", delErr)
			}
		}
		logging.Errorf("订单 %s 支付确认失败: %v", orderNo, err)
		return gateway.NotifyAck(false)
	}

	return gateway.NotifyAck(true)
}

// notifyOrderNo 提取商户订单号（三家网关字段一致）
func notifyOrderNo(params map[string]string) (string, bool) {
	no := params["out_trade_no"]
	return no, no != ""
}

// notifySucceeded 按网关判定交易成功
func notifySucceeded(method string, params map[string]string) bool {
	switch method {
	case models.PaymentMethodWechat:
		return params["return_code"] == "SUCCESS" && params["result_code"] == "SUCCESS"
	default:
		// 支付宝与易支付同用 trade_status
		return params["trade_status"] == "TRADE_SUCCESS"
	}
}
