package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Class struct {
	ClassID       uuid.UUID `gorm:"column:class_id;type:uuid;default:gen_random_uuid();primaryKey" json:"class_id"`
	ClassSchoolID uuid.UUID `gorm:"column:class_school_id;type:uuid;not null;index" json:"class_school_id"`

	ClassName string `gorm:"column:class_name;not null" json:"class_name"`

	// Pemetaan mapel → guru (key: nama mapel lowercase, value: teacher_id string).
	// Fallback: guru default kelas.
	ClassSubjectTeachers  datatypes.JSONMap `gorm:"column:class_subject_teachers;type:jsonb" json:"class_subject_teachers,omitempty"`
	ClassDefaultTeacherID *uuid.UUID        `gorm:"column:class_default_teacher_id;type:uuid" json:"class_default_teacher_id,omitempty"`

	CreatedAt time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	UpdatedAt time.Time      `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"class_deleted_at,omitempty"`
}

func (Class) TableName() string { return "classes" }

/* ===================== Helpers ===================== */

// ResolveSubjectTeacher: cari guru untuk mapel; mapping eksplisit dulu,
// lalu guru default kelas. nil = tidak teratribusi.
func (cl *Class) ResolveSubjectTeacher(subject string) *uuid.UUID {
	key := strings.ToLower(strings.TrimSpace(subject))
	if cl.ClassSubjectTeachers != nil {
		if v, ok := cl.ClassSubjectTeachers[key]; ok {
			if s, ok := v.(string); ok {
				if id, err := uuid.Parse(s); err == nil && id != uuid.Nil {
					return &id
				}
			}
		}
	}
	if cl.ClassDefaultTeacherID != nil && *cl.ClassDefaultTeacherID != uuid.Nil {
		id := *cl.ClassDefaultTeacherID
		return &id
	}
	return nil
}
