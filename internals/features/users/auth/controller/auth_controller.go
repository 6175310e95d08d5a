package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/users/auth/dto"
	"akademiku_backend/internals/features/users/auth/service"
	helper "akademiku_backend/internals/helpers"
)

type AuthController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db, Validate: validator.New()}
}

// Login (POST /auth/login)
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	resp, err := service.Login(c.UserContext(), h.DB, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Login berhasil", resp)
}
