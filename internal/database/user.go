package database

import (
	"domainhub/internal/models"
)

// GetUserByID 按ID获取用户
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByToken 按API令牌获取启用状态的用户
func GetUserByToken(token string) (*models.User, error) {
	var user models.User
	if err := DB.Where("api_token = ? AND is_active = ?", token, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
