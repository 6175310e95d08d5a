package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/finance/ledger/dto"
	"akademiku_backend/internals/features/finance/ledger/service"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
	helper "akademiku_backend/internals/helpers"
)

type BalanceController struct {
	DB *gorm.DB
}

func NewBalanceController(db *gorm.DB) *BalanceController {
	return &BalanceController{DB: db}
}

// -----------------------------------------
// TeacherBalance (GET /teachers/:id/balance)
// -----------------------------------------
func (h *BalanceController) TeacherBalance(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Teacher ID tidak valid")
	}

	var t teacherModel.Teacher
	if err := h.DB.
		Where("teacher_id = ? AND teacher_school_id = ?", teacherID, schoolID).
		Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Guru tidak ditemukan")
		}
		return helper.FromError(c, err)
	}

	return helper.Success(c, "OK", dto.TeacherBalanceResponse{
		TeacherID:   t.TeacherID,
		TeacherName: t.TeacherName,
		TeacherRole: t.TeacherRole,
		FloatingIDR: t.TeacherBalanceFloatingIDR,
		VerifiedIDR: t.TeacherBalanceVerifiedIDR,
		PendingIDR:  t.TeacherBalancePendingIDR,
	})
}

// -----------------------------------------
// SettlePending (POST /teachers/:id/settle-pending)
// Event settlement eksplisit: pending → verified.
// -----------------------------------------
func (h *BalanceController) SettlePending(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Teacher ID tidak valid")
	}

	settled, err := service.SettlePending(c.UserContext(), h.DB, schoolID, teacherID)
	if err != nil {
		if errors.Is(err, service.ErrNothingPending) {
			return helper.Error(c, fiber.StatusConflict, "Tidak ada saldo pending untuk diselesaikan")
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Guru tidak ditemukan")
		}
		return helper.FromError(c, err)
	}

	return helper.Success(c, "Settlement berhasil", fiber.Map{
		"teacher_id":  teacherID,
		"settled_idr": settled,
	})
}
