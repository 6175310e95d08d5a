package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/users/auth/controller"
	middlewares "akademiku_backend/internals/middlewares"
)

func AuthRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewAuthController(db)

	auth := api.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
}
