package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */
/* Selaras dengan ENUM di PostgreSQL: teacher_role */

const (
	TeacherRoleOwner   = "owner"
	TeacherRolePartner = "partner"
	TeacherRoleStaff   = "staff"
)

/* ===================== Model ===================== */

type Teacher struct {
	TeacherID       uuid.UUID  `gorm:"column:teacher_id;type:uuid;default:gen_random_uuid();primaryKey" json:"teacher_id"`
	TeacherSchoolID uuid.UUID  `gorm:"column:teacher_school_id;type:uuid;not null;index" json:"teacher_school_id"`
	TeacherUserID   *uuid.UUID `gorm:"column:teacher_user_id;type:uuid" json:"teacher_user_id,omitempty"`

	TeacherName    string  `gorm:"column:teacher_name;not null" json:"teacher_name"`
	TeacherRole    string  `gorm:"column:teacher_role;type:teacher_role;not null;default:'staff'" json:"teacher_role"`
	TeacherSubject *string `gorm:"column:teacher_subject" json:"teacher_subject,omitempty"`

	// Saldo (IDR). floating: uang setoran yang masih di tangan (jika guru merangkap kolektor),
	// verified: saldo terkonfirmasi siap dibayarkan, pending: komisi/SPP tertunda (staff).
	TeacherBalanceFloatingIDR int `gorm:"column:teacher_balance_floating_idr;not null;default:0" json:"teacher_balance_floating_idr"`
	TeacherBalanceVerifiedIDR int `gorm:"column:teacher_balance_verified_idr;not null;default:0" json:"teacher_balance_verified_idr"`
	TeacherBalancePendingIDR  int `gorm:"column:teacher_balance_pending_idr;not null;default:0" json:"teacher_balance_pending_idr"`

	CreatedAt time.Time      `gorm:"column:teacher_created_at;autoCreateTime" json:"teacher_created_at"`
	UpdatedAt time.Time      `gorm:"column:teacher_updated_at;autoUpdateTime" json:"teacher_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:teacher_deleted_at;index" json:"teacher_deleted_at,omitempty"`
}

func (Teacher) TableName() string { return "teachers" }

/* ===================== Helpers ===================== */

// IsPartnerLevel: owner & partner diperlakukan sama oleh aturan partner-100.
func (t *Teacher) IsPartnerLevel() bool {
	return t.TeacherRole == TeacherRoleOwner || t.TeacherRole == TeacherRolePartner
}
