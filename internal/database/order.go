package database

import (
	"time"

	"domainhub/internal/models"

	"gorm.io/gorm"
)

// GetOrderByID 按ID获取订单
func GetOrderByID(id uint) (*models.ParseOrder, error) {
	var order models.ParseOrder
	if err := DB.Preload("Domain").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderByNo 按订单号获取订单
func GetOrderByNo(orderNo string) (*models.ParseOrder, error) {
	var order models.ParseOrder
	if err := DB.Preload("Domain").Where("order_no = ?", orderNo).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetUserOrder 获取属于指定用户的订单
func GetUserOrder(tx *gorm.DB, orderID, userID uint) (*models.ParseOrder, error) {
	var order models.ParseOrder
	err := tx.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListUserOrders 获取用户的订单列表（按创建时间倒序）
func ListUserOrders(userID uint, page, pageSize int) ([]models.ParseOrder, int64, error) {
	var orders []models.ParseOrder
	var total int64

	query := DB.Model(&models.ParseOrder{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Domain").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// ListOrdersByStatus 按状态获取订单列表
func ListOrdersByStatus(status string, page, pageSize int) ([]models.ParseOrder, int64, error) {
	var orders []models.ParseOrder
	var total int64

	query := DB.Model(&models.ParseOrder{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Domain").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

// TransitionOrder 条件状态迁移：仅当订单处于 from 状态之一时写入 updates。
// 返回是否真的发生了迁移，重复回调和并发迁移据此判定为空操作。
func TransitionOrder(tx *gorm.DB, orderID uint, from []string, updates map[string]interface{}) (bool, error) {
	result := tx.Model(&models.ParseOrder{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ExpirePendingOrders 将过期的待支付订单批量置为 expired。
// 条件更新保证重复或并发执行幂等。
func ExpirePendingOrders(now time.Time) (int64, error) {
	result := DB.Model(&models.ParseOrder{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.OrderStatusPending, now).
		Update("status", models.OrderStatusExpired)
	return result.RowsAffected, result.Error
}

// ListPaidOrdersWithoutRecord 已支付但云端记录尚未创建的订单（供重试调度）
func ListPaidOrdersWithoutRecord(limit int) ([]models.ParseOrder, error) {
	var orders []models.ParseOrder
	err := DB.Preload("Domain").
		Where("status = ? AND (cloud_record_id = '' OR cloud_record_id IS NULL)", models.OrderStatusPaid).
		Order("payment_time ASC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
