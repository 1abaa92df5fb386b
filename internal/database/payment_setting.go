package database

import (
	"domainhub/internal/models"
)

// GetEnabledPaymentSetting 获取启用状态的支付配置
func GetEnabledPaymentSetting(method string) (*models.PaymentSetting, error) {
	var setting models.PaymentSetting
	err := DB.Where("payment_method = ? AND is_enabled = ?", method, true).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListEnabledPaymentSettings 获取所有启用的支付配置（按排序）
func ListEnabledPaymentSettings() ([]models.PaymentSetting, error) {
	var settings []models.PaymentSetting
	err := DB.Where("is_enabled = ?", true).Order("sort_order ASC").Find(&settings).Error
	return settings, err
}

// ListPaymentSettings 获取全部支付配置（按排序）
func ListPaymentSettings() ([]models.PaymentSetting, error) {
	var settings []models.PaymentSetting
	err := DB.Order("sort_order ASC").Find(&settings).Error
	return settings, err
}
