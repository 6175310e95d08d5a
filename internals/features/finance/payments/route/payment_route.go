package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/finance/payments/controller"
)

// PaymentCollectorRoutes dipasang di group /api/c (kolektor ke atas).
func PaymentCollectorRoutes(collector fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	payments := collector.Group("/payments")
	payments.Post("/cash", ctrl.CreateCash)
	payments.Post("/gateway/checkout", ctrl.CreateGatewayCheckout)
}

// PaymentPublicRoutes untuk webhook gateway, tanpa auth JWT.
func PaymentPublicRoutes(public fiber.Router, db *gorm.DB) {
	ctrl := controller.NewPaymentController(db)

	public.Post("/payments/midtrans/notification", ctrl.MidtransNotification)
}
