package database

import (
	"domainhub/internal/models"
)

// GetDomainByID 按ID获取域名
func GetDomainByID(id uint) (*models.Domain, error) {
	var domain models.Domain
	if err := DB.First(&domain, id).Error; err != nil {
		return nil, err
	}
	return &domain, nil
}

// GetDomainByName 按域名获取
func GetDomainByName(name string) (*models.Domain, error) {
	var domain models.Domain
	if err := DB.Where("domain_name = ?", name).First(&domain).Error; err != nil {
		return nil, err
	}
	return &domain, nil
}

// GetCredentialByID 按ID获取平台凭证
func GetCredentialByID(id uint) (*models.PlatformCredential, error) {
	var credential models.PlatformCredential
	if err := DB.First(&credential, id).Error; err != nil {
		return nil, err
	}
	return &credential, nil
}

// CountDomainReferences 统计域名被套餐和订单引用的次数（删除前的引用保护）
func CountDomainReferences(domainID uint) (int64, error) {
	var packages, orders int64
	if err := DB.Model(&models.Package{}).Where("domain_id = ?", domainID).Count(&packages).Error; err != nil {
		return 0, err
	}
	if err := DB.Model(&models.ParseOrder{}).Where("domain_id = ?", domainID).Count(&orders).Error; err != nil {
		return 0, err
	}
	return packages + orders, nil
}
