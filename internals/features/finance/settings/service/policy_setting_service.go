package service

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	model "akademiku_backend/internals/features/finance/settings/model"
)

// GetOrCreate: ambil konfigurasi kebijakan sekolah; kalau belum ada,
// buat lazy dengan nilai default. Aman terhadap race lewat ON CONFLICT.
func GetOrCreate(db *gorm.DB, schoolID uuid.UUID) (model.PolicySetting, error) {
	var setting model.PolicySetting

	err := db.Where("policy_setting_school_id = ?", schoolID).Take(&setting).Error
	if err == nil {
		return setting, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return setting, err
	}

	setting = model.PolicySetting{
		PolicySettingID:                       uuid.New(),
		PolicySettingSchoolID:                 schoolID,
		PolicySettingStaffTeacherSharePercent: model.DefaultStaffTeacherSharePercent,
		PolicySettingStaffAcademySharePercent: model.DefaultStaffAcademySharePercent,
		PolicySettingExamPrepCommissionIDR:    model.DefaultExamPrepCommissionIDR,
		PolicySettingPartner100Active:         model.DefaultPartner100Active,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&setting).Error; err != nil {
		return setting, err
	}

	// re-read: bisa saja request lain menang race
	if err := db.Where("policy_setting_school_id = ?", schoolID).Take(&setting).Error; err != nil {
		return setting, err
	}
	return setting, nil
}

// UpdateInput: field yang boleh diubah owner.
type UpdateInput struct {
	StaffTeacherSharePercent *int
	StaffAcademySharePercent *int
	ExamPrepCommissionIDR    *int
	Partner100Active         *bool
}

// Update memvalidasi lalu menyimpan perubahan kebijakan. Persentase
// guru + akademi wajib = 100 — prasyarat keras yang diandalkan kalkulator;
// jangan pernah tulis konfigurasi langsung tanpa lewat sini.
func Update(db *gorm.DB, schoolID uuid.UUID, in UpdateInput) (model.PolicySetting, error) {
	setting, err := GetOrCreate(db, schoolID)
	if err != nil {
		return setting, err
	}

	if in.StaffTeacherSharePercent != nil {
		setting.PolicySettingStaffTeacherSharePercent = *in.StaffTeacherSharePercent
	}
	if in.StaffAcademySharePercent != nil {
		setting.PolicySettingStaffAcademySharePercent = *in.StaffAcademySharePercent
	}
	if in.ExamPrepCommissionIDR != nil {
		setting.PolicySettingExamPrepCommissionIDR = *in.ExamPrepCommissionIDR
	}
	if in.Partner100Active != nil {
		setting.PolicySettingPartner100Active = *in.Partner100Active
	}

	if err := Validate(setting); err != nil {
		return setting, err
	}

	if err := db.Model(&model.PolicySetting{}).
		Where("policy_setting_id = ?", setting.PolicySettingID).
		Updates(map[string]interface{}{
			"policy_setting_staff_teacher_share_percent": setting.PolicySettingStaffTeacherSharePercent,
			"policy_setting_staff_academy_share_percent": setting.PolicySettingStaffAcademySharePercent,
			"policy_setting_exam_prep_commission_idr":    setting.PolicySettingExamPrepCommissionIDR,
			"policy_setting_partner100_active":           setting.PolicySettingPartner100Active,
		}).Error; err != nil {
		return setting, err
	}
	return setting, nil
}

// Validate: aturan konfigurasi yang wajib dipenuhi sebelum disimpan.
func Validate(s model.PolicySetting) error {
	if s.PolicySettingStaffTeacherSharePercent < 0 || s.PolicySettingStaffTeacherSharePercent > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "Persentase bagi hasil guru harus 0–100")
	}
	if s.PolicySettingStaffTeacherSharePercent+s.PolicySettingStaffAcademySharePercent != 100 {
		return fiber.NewError(fiber.StatusBadRequest, "Persentase guru + akademi wajib berjumlah 100")
	}
	if s.PolicySettingExamPrepCommissionIDR < 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Komisi intensif tidak boleh negatif")
	}
	return nil
}
