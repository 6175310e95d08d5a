package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL:
   ledger_entry_kind, ledger_entry_category, ledger_entry_status
*/

const (
	LedgerKindIncome            = "income"
	LedgerKindExpense           = "expense"
	LedgerKindPartnerWithdrawal = "partner_withdrawal"
)

const (
	LedgerCategorySubjectRevenue = "subject_revenue"
	LedgerCategoryTuition        = "tuition"
	LedgerCategoryPool           = "pool"
	LedgerCategoryRent           = "rent"
	LedgerCategoryUtilities      = "utilities"
	LedgerCategorySalaries       = "salaries"
	LedgerCategoryMisc           = "misc"
)

// Revenue stream: penanda asal pendapatan yang lebih halus dari category.
const (
	LedgerStreamOwnerSubject       = "owner_subject_revenue"
	LedgerStreamPartnerBiology     = "partner_biology_revenue"
	LedgerStreamPartnerPhysics     = "partner_physics_revenue"
	LedgerStreamGenericTuition     = "tuition_general"
	LedgerStreamStaffTuition       = "staff_tuition"
	LedgerStreamExamPrepCommission = "exam_prep_commission"
	LedgerStreamExamPrepPool       = "exam_prep_pool"
	LedgerStreamUnallocatedPool    = "unallocated_pool"
)

const (
	LedgerStatusFloating  = "floating"  // provisional, kas masih di tangan kolektor
	LedgerStatusVerified  = "verified"  // sudah direkonsiliasi ke saldo terkonfirmasi
	LedgerStatusCancelled = "cancelled" // dibatalkan (soft), tidak pernah hard delete
)

/* ===================== Split snapshot ===================== */

// LedgerSplitSnapshot: jejak audit persentase & nominal bagi hasil yang
// menghasilkan entri ini. Dipertahankan setelah entri verified; hanya flag
// teacher_paid_out yang boleh berubah (saat settlement pending).
type LedgerSplitSnapshot struct {
	TeacherPercent  int  `json:"teacher_percent"`
	AcademyPercent  int  `json:"academy_percent"`
	TeacherShareIDR int  `json:"teacher_share_idr"`
	AcademyShareIDR int  `json:"academy_share_idr"`
	TeacherPaidOut  bool `json:"teacher_paid_out"`
}

/* ===================== Model ===================== */

type LedgerEntry struct {
	LedgerEntryID       uuid.UUID `gorm:"column:ledger_entry_id;type:uuid;default:gen_random_uuid();primaryKey" json:"ledger_entry_id"`
	LedgerEntrySchoolID uuid.UUID `gorm:"column:ledger_entry_school_id;type:uuid;not null;index" json:"ledger_entry_school_id"`

	LedgerEntryKind     string `gorm:"column:ledger_entry_kind;not null;default:'income'" json:"ledger_entry_kind"`
	LedgerEntryCategory string `gorm:"column:ledger_entry_category;not null" json:"ledger_entry_category"`
	LedgerEntryStream   string `gorm:"column:ledger_entry_stream;not null" json:"ledger_entry_stream"`
	LedgerEntryStatus   string `gorm:"column:ledger_entry_status;not null;default:'floating';index" json:"ledger_entry_status"`

	LedgerEntryAmountIDR int `gorm:"column:ledger_entry_amount_idr;not null;check:ledger_entry_amount_idr >= 0" json:"ledger_entry_amount_idr"`

	// Semua entri dari satu pembayaran berbagi batch id yang sama,
	// sehingga distribusi penuh satu pembayaran bisa direkonstruksi.
	LedgerEntryBatchID uuid.UUID `gorm:"column:ledger_entry_batch_id;type:uuid;not null;index" json:"ledger_entry_batch_id"`

	LedgerEntryCollectorUserID uuid.UUID  `gorm:"column:ledger_entry_collector_user_id;type:uuid;not null;index" json:"ledger_entry_collector_user_id"`
	LedgerEntryStudentID       *uuid.UUID `gorm:"column:ledger_entry_student_id;type:uuid" json:"ledger_entry_student_id,omitempty"`
	LedgerEntryTeacherID       *uuid.UUID `gorm:"column:ledger_entry_teacher_id;type:uuid;index" json:"ledger_entry_teacher_id,omitempty"`
	LedgerEntryClosingID       *uuid.UUID `gorm:"column:ledger_entry_closing_id;type:uuid;index" json:"ledger_entry_closing_id,omitempty"`

	LedgerEntrySubject       *string `gorm:"column:ledger_entry_subject" json:"ledger_entry_subject,omitempty"`
	LedgerEntryGradeCategory string  `gorm:"column:ledger_entry_grade_category;not null;default:''" json:"ledger_entry_grade_category"`

	// Bagian guru dari entri ini masuk pending (dibayar belakangan), bukan verified.
	LedgerEntryShareDeferred bool `gorm:"column:ledger_entry_share_deferred;not null;default:false" json:"ledger_entry_share_deferred"`

	LedgerEntrySplit *LedgerSplitSnapshot `gorm:"column:ledger_entry_split;type:jsonb;serializer:json" json:"ledger_entry_split,omitempty"`

	LedgerEntryDate time.Time `gorm:"column:ledger_entry_date;not null;index" json:"ledger_entry_date"`

	CreatedAt time.Time      `gorm:"column:ledger_entry_created_at;autoCreateTime" json:"ledger_entry_created_at"`
	UpdatedAt time.Time      `gorm:"column:ledger_entry_updated_at;autoUpdateTime" json:"ledger_entry_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:ledger_entry_deleted_at;index" json:"ledger_entry_deleted_at,omitempty"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

/* ===================== Helpers ===================== */

func (e *LedgerEntry) IsFloating() bool { return e.LedgerEntryStatus == LedgerStatusFloating }
func (e *LedgerEntry) IsVerified() bool { return e.LedgerEntryStatus == LedgerStatusVerified }
