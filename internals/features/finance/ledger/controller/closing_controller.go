package controller

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"akademiku_backend/internals/features/finance/ledger/dto"
	model "akademiku_backend/internals/features/finance/ledger/model"
	"akademiku_backend/internals/features/finance/ledger/service"
	helper "akademiku_backend/internals/helpers"
)

type ClosingController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewClosingController(db *gorm.DB) *ClosingController {
	return &ClosingController{DB: db, Validate: validator.New()}
}

// -----------------------------------------
// CloseDay (POST /closings/close-day)
// Tutup kasir untuk kolektor yang sedang login.
// -----------------------------------------
func (h *ClosingController) CloseDay(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	collectorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	var req dto.CloseDayRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Body tidak valid")
		}
		if err := h.Validate.Struct(req); err != nil {
			return helper.ValidationError(c, err)
		}
	}

	svc := service.NewClosingService(h.DB)
	closing, err := svc.CloseDay(c.UserContext(), schoolID, collectorID, req.Note)
	if err != nil {
		if errors.Is(err, service.ErrNothingToClose) {
			return helper.Error(c, fiber.StatusConflict, "Tidak ada entri floating untuk ditutup")
		}
		return helper.FromError(c, err)
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Closing harian berhasil", dto.NewClosingResponse(closing))
}

// -----------------------------------------
// List (GET /closings)
// Query filters (opsional): collector_id, status, date_from, date_to
// -----------------------------------------
func (h *ClosingController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&model.DailyClosing{}).
		Where("closing_school_id = ?", schoolID).
		Where("closing_deleted_at IS NULL")

	if v := c.Query("collector_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("closing_collector_user_id = ?", id)
		}
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("closing_status = ?", v)
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("closing_date >= ?", t)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("closing_date < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.DailyClosing
	if err := q.Order(buildClosingOrderClause(p)).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}

	out := make([]dto.ClosingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.NewClosingResponse(&rows[i]))
	}

	return helper.Success(c, "OK", fiber.Map{
		"closings": out,
		"meta":     helper.BuildMeta(total, p),
	})
}

func buildClosingOrderClause(p helper.Params) string {
	// whitelist sortable keys → kolom fisik
	allowed := map[string]string{
		"created_at":   "closing_created_at",
		"closing_date": "closing_date",
		"total":        "closing_total_idr",
	}
	col, ok := allowed[strings.ToLower(p.SortBy)]
	if !ok {
		col = allowed["created_at"]
	}
	dir := "DESC"
	if strings.ToLower(p.SortOrder) == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf("%s %s", col, dir)
}
