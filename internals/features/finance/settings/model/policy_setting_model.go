package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Defaults ===================== */

const (
	DefaultStaffTeacherSharePercent = 70
	DefaultStaffAcademySharePercent = 30
	DefaultExamPrepCommissionIDR    = 3000
	DefaultPartner100Active         = true
)

/* ===================== Model ===================== */

// PolicySetting: konfigurasi kebijakan bagi hasil, satu baris per sekolah.
// Dibuat lazy dengan default saat pertama dibaca; hanya owner yang boleh ubah;
// tidak pernah dihapus.
type PolicySetting struct {
	PolicySettingID       uuid.UUID `gorm:"column:policy_setting_id;type:uuid;default:gen_random_uuid();primaryKey" json:"policy_setting_id"`
	PolicySettingSchoolID uuid.UUID `gorm:"column:policy_setting_school_id;type:uuid;not null;uniqueIndex" json:"policy_setting_school_id"`

	// Persentase bagi hasil guru staff (guru + akademi wajib = 100).
	PolicySettingStaffTeacherSharePercent int `gorm:"column:policy_setting_staff_teacher_share_percent;not null;default:70" json:"policy_setting_staff_teacher_share_percent"`
	PolicySettingStaffAcademySharePercent int `gorm:"column:policy_setting_staff_academy_share_percent;not null;default:30" json:"policy_setting_staff_academy_share_percent"`

	// Komisi tetap per siswa untuk program intensif ujian.
	PolicySettingExamPrepCommissionIDR int `gorm:"column:policy_setting_exam_prep_commission_idr;not null;default:3000;check:policy_setting_exam_prep_commission_idr >= 0" json:"policy_setting_exam_prep_commission_idr"`

	// Aturan partner-100: owner/partner menerima 100% fee.
	PolicySettingPartner100Active bool `gorm:"column:policy_setting_partner100_active;not null;default:true" json:"policy_setting_partner100_active"`

	CreatedAt time.Time      `gorm:"column:policy_setting_created_at;autoCreateTime" json:"policy_setting_created_at"`
	UpdatedAt time.Time      `gorm:"column:policy_setting_updated_at;autoUpdateTime" json:"policy_setting_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:policy_setting_deleted_at;index" json:"policy_setting_deleted_at,omitempty"`
}

func (PolicySetting) TableName() string { return "policy_settings" }
