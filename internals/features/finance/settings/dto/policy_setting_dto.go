package dto

import (
	"time"

	model "akademiku_backend/internals/features/finance/settings/model"
)

// Update: semua field opsional; validasi jumlah persentase ada di service.
type PolicySettingUpdateDTO struct {
	StaffTeacherSharePercent *int  `json:"staff_teacher_share_percent,omitempty" validate:"omitempty,min=0,max=100"`
	StaffAcademySharePercent *int  `json:"staff_academy_share_percent,omitempty" validate:"omitempty,min=0,max=100"`
	ExamPrepCommissionIDR    *int  `json:"exam_prep_commission_idr,omitempty" validate:"omitempty,min=0"`
	Partner100Active         *bool `json:"partner100_active,omitempty"`
}

type PolicySettingResponse struct {
	StaffTeacherSharePercent int       `json:"staff_teacher_share_percent"`
	StaffAcademySharePercent int       `json:"staff_academy_share_percent"`
	ExamPrepCommissionIDR    int       `json:"exam_prep_commission_idr"`
	Partner100Active         bool      `json:"partner100_active"`
	UpdatedAt                time.Time `json:"updated_at"`
}

func NewPolicySettingResponse(m model.PolicySetting) PolicySettingResponse {
	return PolicySettingResponse{
		StaffTeacherSharePercent: m.PolicySettingStaffTeacherSharePercent,
		StaffAcademySharePercent: m.PolicySettingStaffAcademySharePercent,
		ExamPrepCommissionIDR:    m.PolicySettingExamPrepCommissionIDR,
		Partner100Active:         m.PolicySettingPartner100Active,
		UpdatedAt:                m.UpdatedAt,
	}
}
