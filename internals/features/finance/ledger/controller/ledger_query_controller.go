package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	model "akademiku_backend/internals/features/finance/ledger/model"
	helper "akademiku_backend/internals/helpers"
)

type LedgerQueryController struct {
	DB *gorm.DB
}

func NewLedgerQueryController(db *gorm.DB) *LedgerQueryController {
	return &LedgerQueryController{DB: db}
}

// -----------------------------------------
// List (GET /ledger-entries)
// Query filters (opsional):
// - collector_id, teacher_id, student_id, batch_id
// - status (floating|verified|cancelled), category, stream
// - date_from, date_to (filter ledger_entry_date)
// - sort_by (created_at|date|amount), order (asc|desc), page, per_page
// -----------------------------------------
func (h *LedgerQueryController) List(c *fiber.Ctx) error {
	schoolID, err := helper.GetSchoolIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	q := h.DB.Model(&model.LedgerEntry{}).
		Where("ledger_entry_school_id = ?", schoolID).
		Where("ledger_entry_deleted_at IS NULL")

	if v := c.Query("collector_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("ledger_entry_collector_user_id = ?", id)
		}
	}
	if v := c.Query("teacher_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("ledger_entry_teacher_id = ?", id)
		}
	}
	if v := c.Query("student_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("ledger_entry_student_id = ?", id)
		}
	}
	if v := c.Query("batch_id"); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			q = q.Where("ledger_entry_batch_id = ?", id)
		}
	}
	if v := c.Query("status"); v != "" {
		q = q.Where("ledger_entry_status = ?", v)
	}
	if v := c.Query("category"); v != "" {
		q = q.Where("ledger_entry_category = ?", v)
	}
	if v := c.Query("stream"); v != "" {
		q = q.Where("ledger_entry_stream = ?", v)
	}
	if v := c.Query("date_from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("ledger_entry_date >= ?", t)
		}
	}
	if v := c.Query("date_to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			q = q.Where("ledger_entry_date < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.FromError(c, err)
	}

	var rows []model.LedgerEntry
	if err := q.Order(buildLedgerOrderClause(p)).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&rows).Error; err != nil {
		return helper.FromError(c, err)
	}

	return helper.Success(c, "OK", fiber.Map{
		"ledger_entries": rows,
		"meta":           helper.BuildMeta(total, p),
	})
}

func buildLedgerOrderClause(p helper.Params) string {
	allowed := map[string]string{
		"created_at": "ledger_entry_created_at",
		"date":       "ledger_entry_date",
		"amount":     "ledger_entry_amount_idr",
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
