package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL: payment_status, payment_method */

const (
	PaymentStatusInitiated        = "initiated"
	PaymentStatusPending          = "pending"
	PaymentStatusAwaitingCallback = "awaiting_callback"
	PaymentStatusPaid             = "paid"
	PaymentStatusFailed           = "failed"
	PaymentStatusCanceled         = "canceled"
	PaymentStatusExpired          = "expired"
)

const (
	PaymentMethodCash    = "cash"
	PaymentMethodGateway = "gateway"
)

/* ===================== Model ===================== */

type Payment struct {
	PaymentID       uuid.UUID `gorm:"column:payment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"payment_id"`
	PaymentSchoolID uuid.UUID `gorm:"column:payment_school_id;type:uuid;not null;index" json:"payment_school_id"`

	PaymentStudentID uuid.UUID `gorm:"column:payment_student_id;type:uuid;not null;index" json:"payment_student_id"`
	PaymentClassID   uuid.UUID `gorm:"column:payment_class_id;type:uuid;not null" json:"payment_class_id"`

	// Nominal & jenis
	PaymentAmountIDR int    `gorm:"column:payment_amount_idr;not null;check:payment_amount_idr >= 0" json:"payment_amount_idr"`
	PaymentKind      string `gorm:"column:payment_kind;not null;default:'regular'" json:"payment_kind"` // regular | exam_prep

	// Status & metode
	PaymentStatus string `gorm:"column:payment_status;type:payment_status;not null;default:'initiated'" json:"payment_status"`
	PaymentMethod string `gorm:"column:payment_method;type:payment_method;not null;default:'cash'" json:"payment_method"`

	// Kolektor yang memegang kas (wajib — jadi pemilik entri floating)
	PaymentCollectorUserID uuid.UUID `gorm:"column:payment_collector_user_id;type:uuid;not null;index" json:"payment_collector_user_id"`

	// Batch distribusi ledger yang lahir dari pembayaran ini
	PaymentBatchID *uuid.UUID `gorm:"column:payment_batch_id;type:uuid;index" json:"payment_batch_id,omitempty"`

	// Info gateway (opsional untuk metode cash)
	PaymentExternalID  *string `gorm:"column:payment_external_id;uniqueIndex" json:"payment_external_id,omitempty"` // order_id di PSP
	PaymentCheckoutURL *string `gorm:"column:payment_checkout_url" json:"payment_checkout_url,omitempty"`

	// Timestamps penting
	PaymentPaidAt     *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`
	PaymentCanceledAt *time.Time `gorm:"column:payment_canceled_at" json:"payment_canceled_at,omitempty"`

	PaymentNote *string `gorm:"column:payment_note" json:"payment_note,omitempty"`

	CreatedAt time.Time      `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	UpdatedAt time.Time      `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:payment_deleted_at;index" json:"payment_deleted_at,omitempty"`
}

func (Payment) TableName() string { return "payments" }

/* ===================== Helpers ===================== */

func (p *Payment) IsPaid() bool { return p.PaymentStatus == PaymentStatusPaid }

func (p *Payment) IsOpen() bool {
	switch p.PaymentStatus {
	case PaymentStatusInitiated, PaymentStatusPending, PaymentStatusAwaitingCallback:
		return true
	default:
		return false
	}
}
