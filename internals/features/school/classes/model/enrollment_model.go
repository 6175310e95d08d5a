package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ===================== Enums (string) ===================== */

const (
	EnrollmentKindRegular  = "regular"
	EnrollmentKindExamPrep = "exam_prep"
)

/* ===================== Model ===================== */

// Enrollment: pendaftaran siswa pada satu kelas. Tarif mapel dikunci
// saat mendaftar (locked fee) dan tidak mengikuti perubahan tarif hidup.
type Enrollment struct {
	EnrollmentID        uuid.UUID `gorm:"column:enrollment_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_id"`
	EnrollmentSchoolID  uuid.UUID `gorm:"column:enrollment_school_id;type:uuid;not null;index" json:"enrollment_school_id"`
	EnrollmentStudentID uuid.UUID `gorm:"column:enrollment_student_id;type:uuid;not null;index" json:"enrollment_student_id"`
	EnrollmentClassID   uuid.UUID `gorm:"column:enrollment_class_id;type:uuid;not null;index" json:"enrollment_class_id"`

	// regular | exam_prep (program intensif ujian)
	EnrollmentKind string `gorm:"column:enrollment_kind;not null;default:'regular'" json:"enrollment_kind"`

	EnrollmentSubjects []EnrollmentSubject `gorm:"foreignKey:EnrollmentSubjectEnrollmentID;references:EnrollmentID" json:"enrollment_subjects,omitempty"`

	CreatedAt time.Time      `gorm:"column:enrollment_created_at;autoCreateTime" json:"enrollment_created_at"`
	UpdatedAt time.Time      `gorm:"column:enrollment_updated_at;autoUpdateTime" json:"enrollment_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:enrollment_deleted_at;index" json:"enrollment_deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollments" }

// EnrollmentSubject: satu mapel terdaftar dengan tarif terkunci, berurutan.
type EnrollmentSubject struct {
	EnrollmentSubjectID           uuid.UUID `gorm:"column:enrollment_subject_id;type:uuid;default:gen_random_uuid();primaryKey" json:"enrollment_subject_id"`
	EnrollmentSubjectEnrollmentID uuid.UUID `gorm:"column:enrollment_subject_enrollment_id;type:uuid;not null;index" json:"enrollment_subject_enrollment_id"`

	EnrollmentSubjectName         string `gorm:"column:enrollment_subject_name;not null" json:"enrollment_subject_name"`
	EnrollmentSubjectLockedFeeIDR int    `gorm:"column:enrollment_subject_locked_fee_idr;not null;check:enrollment_subject_locked_fee_idr >= 0" json:"enrollment_subject_locked_fee_idr"`
	EnrollmentSubjectPosition     int    `gorm:"column:enrollment_subject_position;not null;default:0" json:"enrollment_subject_position"`

	CreatedAt time.Time `gorm:"column:enrollment_subject_created_at;autoCreateTime" json:"enrollment_subject_created_at"`
}

func (EnrollmentSubject) TableName() string { return "enrollment_subjects" }
