package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ledgerDTO "akademiku_backend/internals/features/finance/ledger/dto"
	"akademiku_backend/internals/features/finance/payments/service"
	helper "akademiku_backend/internals/helpers"
)

type PaymentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db, Validate: validator.New()}
}

// -----------------------------------------
// CreateCash (POST /payments/cash)
// Pembayaran tunai: dicatat paid + langsung didistribusikan ke ledger.
// Kolektor = user yang sedang login.
// -----------------------------------------
func (h *PaymentController) CreateCash(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	collectorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req ledgerDTO.DistributeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	svc := service.NewPaymentService(h.DB)
	payment, result, err := svc.CreateCashPayment(c.UserContext(), schoolID, collectorID, req)
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pembayaran tunai tercatat & terdistribusi", fiber.Map{
		"payment":      payment,
		"distribution": result,
	})
}

// -----------------------------------------
// CreateGatewayCheckout (POST /payments/gateway/checkout)
// -----------------------------------------
func (h *PaymentController) CreateGatewayCheckout(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	collectorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req struct {
		ledgerDTO.DistributeRequest
		CustomerName  string `json:"customer_name"`
		CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
		CustomerPhone string `json:"customer_phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	svc := service.NewPaymentService(h.DB)
	payment, err := svc.CreateGatewayCheckout(c.UserContext(), schoolID, collectorID, req.DistributeRequest, service.CustomerInput{
		FirstName: req.CustomerName,
		Email:     req.CustomerEmail,
		Phone:     req.CustomerPhone,
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Checkout gateway dibuat", payment)
}

// -----------------------------------------
// MidtransNotification (POST /payments/midtrans/notification)
// Webhook PSP — tanpa auth JWT; idempoten terhadap callback ulang.
// -----------------------------------------
func (h *PaymentController) MidtransNotification(c *fiber.Ctx) error {
	var payload struct {
		OrderID           string `json:"order_id"`
		TransactionStatus string `json:"transaction_status"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if payload.OrderID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "order_id wajib diisi")
	}

	svc := service.NewPaymentService(h.DB)
	if err := svc.HandleGatewayNotification(c.UserContext(), payload.OrderID, payload.TransactionStatus); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "OK", nil)
}
