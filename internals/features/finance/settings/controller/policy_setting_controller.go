package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/finance/settings/dto"
	"akademiku_backend/internals/features/finance/settings/service"
	helper "akademiku_backend/internals/helpers"
)

type PolicySettingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewPolicySettingController(db *gorm.DB) *PolicySettingController {
	return &PolicySettingController{DB: db, Validate: validator.New()}
}

// -----------------------------------------
// Get (GET /policy-settings) — dibuat lazy dengan default jika belum ada
// -----------------------------------------
func (h *PolicySettingController) Get(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	setting, err := service.GetOrCreate(h.DB.WithContext(c.UserContext()), schoolID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "OK", dto.NewPolicySettingResponse(setting))
}

// -----------------------------------------
// Update (PUT /policy-settings) — hanya owner
// -----------------------------------------
func (h *PolicySettingController) Update(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.PolicySettingUpdateDTO
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
	}
	if err := h.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	setting, err := service.Update(h.DB.WithContext(c.UserContext()), schoolID, service.UpdateInput{
		StaffTeacherSharePercent: req.StaffTeacherSharePercent,
		StaffAcademySharePercent: req.StaffAcademySharePercent,
		ExamPrepCommissionIDR:    req.ExamPrepCommissionIDR,
		Partner100Active:         req.Partner100Active,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Konfigurasi kebijakan tersimpan", dto.NewPolicySettingResponse(setting))
}
