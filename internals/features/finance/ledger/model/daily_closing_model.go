package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	ClosingStatusVerified  = "verified"
	ClosingStatusCancelled = "cancelled"
)

/* ===================== Model ===================== */

// DailyClosing: potret immutable hasil tutup kasir satu kolektor.
// Dibuat sekali per operasi closing; setelah itu tidak pernah diubah
// kecuali pembatalan status.
type DailyClosing struct {
	ClosingID       uuid.UUID `gorm:"column:closing_id;type:uuid;default:gen_random_uuid();primaryKey" json:"closing_id"`
	ClosingSchoolID uuid.UUID `gorm:"column:closing_school_id;type:uuid;not null;index" json:"closing_school_id"`

	ClosingCollectorUserID uuid.UUID `gorm:"column:closing_collector_user_id;type:uuid;not null;index" json:"closing_collector_user_id"`

	ClosingTotalIDR int `gorm:"column:closing_total_idr;not null;check:closing_total_idr >= 0" json:"closing_total_idr"`

	// Rincian per kategori. Kategori tak dikenal dilipat ke other,
	// sehingga rincian selalu menjumlah ke total.
	ClosingSubjectRevenueIDR int `gorm:"column:closing_subject_revenue_idr;not null;default:0" json:"closing_subject_revenue_idr"`
	ClosingTuitionIDR        int `gorm:"column:closing_tuition_idr;not null;default:0" json:"closing_tuition_idr"`
	ClosingPoolIDR           int `gorm:"column:closing_pool_idr;not null;default:0" json:"closing_pool_idr"`
	ClosingOtherIDR          int `gorm:"column:closing_other_idr;not null;default:0" json:"closing_other_idr"`

	ClosingEntryCount int `gorm:"column:closing_entry_count;not null;default:0" json:"closing_entry_count"`

	ClosingStatus string  `gorm:"column:closing_status;not null;default:'verified'" json:"closing_status"`
	ClosingNote   *string `gorm:"column:closing_note" json:"closing_note,omitempty"`

	ClosingDate time.Time `gorm:"column:closing_date;not null;index" json:"closing_date"`

	CreatedAt time.Time      `gorm:"column:closing_created_at;autoCreateTime" json:"closing_created_at"`
	UpdatedAt time.Time      `gorm:"column:closing_updated_at;autoUpdateTime" json:"closing_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:closing_deleted_at;index" json:"closing_deleted_at,omitempty"`
}

func (DailyClosing) TableName() string { return "daily_closings" }
