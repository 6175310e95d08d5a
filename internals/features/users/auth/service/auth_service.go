package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"akademiku_backend/internals/configs"
	"akademiku_backend/internals/features/users/auth/dto"
	userModel "akademiku_backend/internals/features/users/user/model"
)

// Login memverifikasi kredensial lalu menerbitkan access token dengan klaim
// sub, user_name, roles, school_id — klaim yang diandalkan role-gate finance.
func Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var user userModel.User
	if err := db.WithContext(ctx).
		Where("user_name = ? OR user_email = ?", req.Identifier, req.Identifier).
		Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Kredensial salah")
		}
		return nil, err
	}

	if !user.CheckPassword(req.Password) {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Kredensial salah")
	}

	var roles []string
	if len(user.UserRoles) > 0 {
		_ = json.Unmarshal(user.UserRoles, &roles)
	}

	claims := jwt.MapClaims{
		"sub":       user.UserID.String(),
		"user_name": user.UserName,
		"roles":     roles,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(12 * time.Hour).Unix(),
	}
	if user.UserSchoolID != nil {
		claims["school_id"] = user.UserSchoolID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: signed,
		UserID:      user.UserID.String(),
		UserName:    user.UserName,
		Roles:       roles,
	}, nil
}
