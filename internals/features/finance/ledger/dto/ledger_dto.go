package dto

import (
	"time"

	"github.com/google/uuid"

	model "akademiku_backend/internals/features/finance/ledger/model"
)

////////////////////////////////////////////////////////////////////////////////
// DISTRIBUSI PEMBAYARAN — DTO
////////////////////////////////////////////////////////////////////////////////

type SubjectShareDTO struct {
	Subject      string `json:"subject" validate:"required"`
	LockedFeeIDR int    `json:"locked_fee_idr" validate:"min=0"`
}

// DistributeRequest: payment event dari alur penagihan. Daftar mapel boleh
// dikosongkan — fallback ke tarif terkunci pada enrollment siswa.
type DistributeRequest struct {
	StudentID     uuid.UUID         `json:"student_id" validate:"required"`
	ClassID       uuid.UUID         `json:"class_id" validate:"required"`
	PaidAmountIDR int               `json:"paid_amount_idr" validate:"required,gt=0"`
	PaymentKind   string            `json:"payment_kind" validate:"omitempty,oneof=regular exam_prep"`
	Subjects      []SubjectShareDTO `json:"subjects" validate:"omitempty,dive"`
}

////////////////////////////////////////////////////////////////////////////////
// CLOSING — DTO
////////////////////////////////////////////////////////////////////////////////

type CloseDayRequest struct {
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type ClosingResponse struct {
	ClosingID         uuid.UUID `json:"closing_id"`
	CollectorUserID   uuid.UUID `json:"collector_user_id"`
	TotalIDR          int       `json:"total_idr"`
	SubjectRevenueIDR int       `json:"subject_revenue_idr"`
	TuitionIDR        int       `json:"tuition_idr"`
	PoolIDR           int       `json:"pool_idr"`
	OtherIDR          int       `json:"other_idr"`
	EntryCount        int       `json:"entry_count"`
	Status            string    `json:"status"`
	Note              *string   `json:"note,omitempty"`
	ClosingDate       time.Time `json:"closing_date"`
}

func NewClosingResponse(m *model.DailyClosing) ClosingResponse {
	return ClosingResponse{
		ClosingID:         m.ClosingID,
		CollectorUserID:   m.ClosingCollectorUserID,
		TotalIDR:          m.ClosingTotalIDR,
		SubjectRevenueIDR: m.ClosingSubjectRevenueIDR,
		TuitionIDR:        m.ClosingTuitionIDR,
		PoolIDR:           m.ClosingPoolIDR,
		OtherIDR:          m.ClosingOtherIDR,
		EntryCount:        m.ClosingEntryCount,
		Status:            m.ClosingStatus,
		Note:              m.ClosingNote,
		ClosingDate:       m.ClosingDate,
	}
}

////////////////////////////////////////////////////////////////////////////////
// SALDO GURU — DTO
////////////////////////////////////////////////////////////////////////////////

type TeacherBalanceResponse struct {
	TeacherID   uuid.UUID `json:"teacher_id"`
	TeacherName string    `json:"teacher_name"`
	TeacherRole string    `json:"teacher_role"`
	FloatingIDR int       `json:"floating_idr"`
	VerifiedIDR int       `json:"verified_idr"`
	PendingIDR  int       `json:"pending_idr"`
}
