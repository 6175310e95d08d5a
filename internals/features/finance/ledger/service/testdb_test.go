package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	settingModel "akademiku_backend/internals/features/finance/settings/model"
	classModel "akademiku_backend/internals/features/school/classes/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
	userModel "akademiku_backend/internals/features/users/user/model"
)

// Skema tes di-declare manual (bukan AutoMigrate) karena tag model memakai
// default Postgres (gen_random_uuid, jsonb) yang tidak dikenal sqlite.
// Seluruh ID selalu diisi dari aplikasi, jadi default DB tidak dibutuhkan.
var testSchema = []string{
	`CREATE TABLE teachers (
		teacher_id TEXT PRIMARY KEY,
		teacher_school_id TEXT NOT NULL,
		teacher_user_id TEXT,
		teacher_name TEXT NOT NULL,
		teacher_role TEXT NOT NULL DEFAULT 'staff',
		teacher_subject TEXT,
		teacher_balance_floating_idr INTEGER NOT NULL DEFAULT 0,
		teacher_balance_verified_idr INTEGER NOT NULL DEFAULT 0,
		teacher_balance_pending_idr INTEGER NOT NULL DEFAULT 0,
		teacher_created_at DATETIME,
		teacher_updated_at DATETIME,
		teacher_deleted_at DATETIME
	)`,
	`CREATE TABLE users (
		user_id TEXT PRIMARY KEY,
		user_school_id TEXT,
		user_name TEXT NOT NULL,
		user_email TEXT NOT NULL,
		user_password TEXT NOT NULL DEFAULT '',
		user_roles TEXT,
		user_wallet_floating_idr INTEGER NOT NULL DEFAULT 0,
		user_wallet_verified_idr INTEGER NOT NULL DEFAULT 0,
		user_created_at DATETIME,
		user_updated_at DATETIME,
		user_deleted_at DATETIME
	)`,
	`CREATE TABLE classes (
		class_id TEXT PRIMARY KEY,
		class_school_id TEXT NOT NULL,
		class_name TEXT NOT NULL,
		class_subject_teachers TEXT,
		class_default_teacher_id TEXT,
		class_created_at DATETIME,
		class_updated_at DATETIME,
		class_deleted_at DATETIME
	)`,
	`CREATE TABLE policy_settings (
		policy_setting_id TEXT PRIMARY KEY,
		policy_setting_school_id TEXT NOT NULL UNIQUE,
		policy_setting_staff_teacher_share_percent INTEGER NOT NULL DEFAULT 70,
		policy_setting_staff_academy_share_percent INTEGER NOT NULL DEFAULT 30,
		policy_setting_exam_prep_commission_idr INTEGER NOT NULL DEFAULT 3000,
		policy_setting_partner100_active NUMERIC NOT NULL DEFAULT true,
		policy_setting_created_at DATETIME,
		policy_setting_updated_at DATETIME,
		policy_setting_deleted_at DATETIME
	)`,
	`CREATE TABLE ledger_entries (
		ledger_entry_id TEXT PRIMARY KEY,
		ledger_entry_school_id TEXT NOT NULL,
		ledger_entry_kind TEXT NOT NULL DEFAULT 'income',
		ledger_entry_category TEXT NOT NULL,
		ledger_entry_stream TEXT NOT NULL,
		ledger_entry_status TEXT NOT NULL DEFAULT 'floating',
		ledger_entry_amount_idr INTEGER NOT NULL,
		ledger_entry_batch_id TEXT NOT NULL,
		ledger_entry_collector_user_id TEXT NOT NULL,
		ledger_entry_student_id TEXT,
		ledger_entry_teacher_id TEXT,
		ledger_entry_closing_id TEXT,
		ledger_entry_subject TEXT,
		ledger_entry_grade_category TEXT NOT NULL DEFAULT '',
		ledger_entry_share_deferred NUMERIC NOT NULL DEFAULT false,
		ledger_entry_split TEXT,
		ledger_entry_date DATETIME NOT NULL,
		ledger_entry_created_at DATETIME,
		ledger_entry_updated_at DATETIME,
		ledger_entry_deleted_at DATETIME
	)`,
	`CREATE TABLE daily_closings (
		closing_id TEXT PRIMARY KEY,
		closing_school_id TEXT NOT NULL,
		closing_collector_user_id TEXT NOT NULL,
		closing_total_idr INTEGER NOT NULL,
		closing_subject_revenue_idr INTEGER NOT NULL DEFAULT 0,
		closing_tuition_idr INTEGER NOT NULL DEFAULT 0,
		closing_pool_idr INTEGER NOT NULL DEFAULT 0,
		closing_other_idr INTEGER NOT NULL DEFAULT 0,
		closing_entry_count INTEGER NOT NULL DEFAULT 0,
		closing_status TEXT NOT NULL DEFAULT 'verified',
		closing_note TEXT,
		closing_date DATETIME NOT NULL,
		closing_created_at DATETIME,
		closing_updated_at DATETIME,
		closing_deleted_at DATETIME
	)`,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// satu koneksi saja: tiap koneksi :memory: adalah database berbeda
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, ddl := range testSchema {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

/* ===================== Fixtures ===================== */

func seedTeacher(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name, role string) teacherModel.Teacher {
	t.Helper()
	teacher := teacherModel.Teacher{
		TeacherID:       uuid.New(),
		TeacherSchoolID: schoolID,
		TeacherName:     name,
		TeacherRole:     role,
	}
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher %s: %v", name, err)
	}
	return teacher
}

func seedCollector(t *testing.T, db *gorm.DB, schoolID uuid.UUID, name string) userModel.User {
	t.Helper()
	user := userModel.User{
		UserID:       uuid.New(),
		UserSchoolID: &schoolID,
		UserName:     name,
		UserEmail:    name + "@example.test",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed collector %s: %v", name, err)
	}
	return user
}

func seedClass(t *testing.T, db *gorm.DB, schoolID uuid.UUID, subjectTeachers map[string]interface{}, defaultTeacher *uuid.UUID) classModel.Class {
	t.Helper()
	class := classModel.Class{
		ClassID:               uuid.New(),
		ClassSchoolID:         schoolID,
		ClassName:             "12 IPA 1",
		ClassSubjectTeachers:  subjectTeachers,
		ClassDefaultTeacherID: defaultTeacher,
	}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	return class
}

func seedPolicy(t *testing.T, db *gorm.DB, schoolID uuid.UUID, teacherPct, academyPct, commissionIDR int, partner100 bool) settingModel.PolicySetting {
	t.Helper()
	setting := settingModel.PolicySetting{
		PolicySettingID:                       uuid.New(),
		PolicySettingSchoolID:                 schoolID,
		PolicySettingStaffTeacherSharePercent: teacherPct,
		PolicySettingStaffAcademySharePercent: academyPct,
		PolicySettingExamPrepCommissionIDR:    commissionIDR,
		PolicySettingPartner100Active:         partner100,
	}
	if err := db.Create(&setting).Error; err != nil {
		t.Fatalf("seed policy: %v", err)
	}
	return setting
}

func reloadTeacher(t *testing.T, db *gorm.DB, id uuid.UUID) teacherModel.Teacher {
	t.Helper()
	var teacher teacherModel.Teacher
	if err := db.Where("teacher_id = ?", id).Take(&teacher).Error; err != nil {
		t.Fatalf("reload teacher: %v", err)
	}
	return teacher
}

func reloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) userModel.User {
	t.Helper()
	var user userModel.User
	if err := db.Where("user_id = ?", id).Take(&user).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return user
}
