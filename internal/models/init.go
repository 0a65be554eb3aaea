package models

import (
	"strings"

	"github.com/nexify/nexify-api/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultUser 初始化默认后台用户
func InitDefaultUser(email, password string) error {
	var count int64
	DB.Model(&User{}).Count(&count)
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(email) == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "password"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := User{
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
	}

	if err := DB.Create(&user).Error; err != nil {
		return err
	}

	if password == "password" {
		logger.Warnw("default_user_created_with_default_password", "email", user.Email)
		logger.Warnw("default_user_password_change_required", "email", user.Email)
	} else {
		logger.Warnw("default_user_created", "email", user.Email, "password_hidden", true)
	}

	return nil
}
