package database

import (
	"time"

	"domainhub/internal/models"

	"gorm.io/gorm"
)

// FindEligiblePackages 获取用户在指定域名下可抵扣的套餐，
// 按到期时间升序（先用快到期的），到期时间相同按ID升序（先买先用）。
func FindEligiblePackages(tx *gorm.DB, userID, domainID uint, now time.Time) ([]models.UserPackage, error) {
	var packages []models.UserPackage
	err := tx.Where("user_id = ? AND domain_id = ? AND status = ? AND valid_end > ?",
		userID, domainID, models.UserPackageStatusActive, now).
		Order("valid_end ASC, id ASC").
		Find(&packages).Error
	return packages, err
}

// FindEligiblePackagesWithDetail 同上，附带套餐定义（供查询接口）
func FindEligiblePackagesWithDetail(userID, domainID uint, now time.Time) ([]models.UserPackage, error) {
	var packages []models.UserPackage
	err := DB.Preload("Package").
		Where("user_id = ? AND domain_id = ? AND status = ? AND valid_end > ?",
			userID, domainID, models.UserPackageStatusActive, now).
		Order("valid_end ASC, id ASC").
		Find(&packages).Error
	return packages, err
}

// ConsumeSlot 条件原子扣减：仅当还有剩余次数时 used_count + 1。
// 读取-再写入会在并发兑换下超卖，这里必须用条件更新。
func ConsumeSlot(tx *gorm.DB, userPackageID uint) (bool, error) {
	result := tx.Model(&models.UserPackage{}).
		Where("id = ? AND used_count < total_count", userPackageID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// RestoreSlot 补偿回滚：审核拒绝套餐抵扣订单时归还一次额度，下限为0。
func RestoreSlot(tx *gorm.DB, userPackageID uint) error {
	return tx.Model(&models.UserPackage{}).
		Where("id = ? AND used_count > 0", userPackageID).
		UpdateColumn("used_count", gorm.Expr("used_count - 1")).Error
}

// ExpireUserPackages 将有效期已过的套餐置为 expired，幂等。
func ExpireUserPackages(now time.Time) (int64, error) {
	result := DB.Model(&models.UserPackage{}).
		Where("status = ? AND valid_end < ?", models.UserPackageStatusActive, now).
		Update("status", models.UserPackageStatusExpired)
	return result.RowsAffected, result.Error
}

// GetUserPackageByID 按ID获取用户套餐
func GetUserPackageByID(id uint) (*models.UserPackage, error) {
	var up models.UserPackage
	if err := DB.First(&up, id).Error; err != nil {
		return nil, err
	}
	return &up, nil
}
