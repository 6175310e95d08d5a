package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Student struct {
	StudentID       uuid.UUID `gorm:"column:student_id;type:uuid;default:gen_random_uuid();primaryKey" json:"student_id"`
	StudentSchoolID uuid.UUID `gorm:"column:student_school_id;type:uuid;not null;index" json:"student_school_id"`

	StudentName string `gorm:"column:student_name;not null" json:"student_name"`

	// Label jenjang/program bebas, mis. "SMA 12 IPA" / "Intensif UTBK".
	StudentGradeTrack string     `gorm:"column:student_grade_track;not null;default:''" json:"student_grade_track"`
	StudentClassID    *uuid.UUID `gorm:"column:student_class_id;type:uuid" json:"student_class_id,omitempty"`

	CreatedAt time.Time      `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	UpdatedAt time.Time      `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:student_deleted_at;index" json:"student_deleted_at,omitempty"`
}

func (Student) TableName() string { return "students" }
