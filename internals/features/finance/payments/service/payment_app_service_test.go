package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	ledgerDTO "akademiku_backend/internals/features/finance/ledger/dto"
	ledgerModel "akademiku_backend/internals/features/finance/ledger/model"
	"akademiku_backend/internals/features/finance/payments/model"
	classModel "akademiku_backend/internals/features/school/classes/model"
	studentModel "akademiku_backend/internals/features/school/students/model"
	teacherModel "akademiku_backend/internals/features/school/teachers/model"
	userModel "akademiku_backend/internals/features/users/user/model"
)

// Skema tes manual: tag model memakai default Postgres (gen_random_uuid,
// jsonb) yang tidak dikenal sqlite; seluruh ID diisi dari aplikasi.
var testSchema = []string{
	`CREATE TABLE students (
		student_id TEXT PRIMARY KEY,
		student_school_id TEXT NOT NULL,
		student_name TEXT NOT NULL,
		student_grade_track TEXT NOT NULL DEFAULT '',
		student_class_id TEXT,
		student_created_at DATETIME,
		student_updated_at DATETIME,
		student_deleted_at DATETIME
	)`,
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
	`CREATE TABLE enrollments (
		enrollment_id TEXT PRIMARY KEY,
		enrollment_school_id TEXT NOT NULL,
		enrollment_student_id TEXT NOT NULL,
		enrollment_class_id TEXT NOT NULL,
		enrollment_kind TEXT NOT NULL DEFAULT 'regular',
		enrollment_created_at DATETIME,
		enrollment_updated_at DATETIME,
		enrollment_deleted_at DATETIME
	)`,
	`CREATE TABLE enrollment_subjects (
		enrollment_subject_id TEXT PRIMARY KEY,
		enrollment_subject_enrollment_id TEXT NOT NULL,
		enrollment_subject_name TEXT NOT NULL,
		enrollment_subject_locked_fee_idr INTEGER NOT NULL,
		enrollment_subject_position INTEGER NOT NULL DEFAULT 0,
		enrollment_subject_created_at DATETIME
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
	`CREATE TABLE payments (
		payment_id TEXT PRIMARY KEY,
		payment_school_id TEXT NOT NULL,
		payment_student_id TEXT NOT NULL,
		payment_class_id TEXT NOT NULL,
		payment_amount_idr INTEGER NOT NULL,
		payment_kind TEXT NOT NULL DEFAULT 'regular',
		payment_status TEXT NOT NULL DEFAULT 'initiated',
		payment_method TEXT NOT NULL DEFAULT 'cash',
		payment_collector_user_id TEXT NOT NULL,
		payment_batch_id TEXT,
		payment_external_id TEXT UNIQUE,
		payment_checkout_url TEXT,
		payment_paid_at DATETIME,
		payment_canceled_at DATETIME,
		payment_note TEXT,
		payment_created_at DATETIME,
		payment_updated_at DATETIME,
		payment_deleted_at DATETIME
	)`,
}

type fixture struct {
	db        *gorm.DB
	schoolID  uuid.UUID
	student   studentModel.Student
	class     classModel.Class
	teacher   teacherModel.Teacher
	collector userModel.User
}

func setupFixture(t *testing.T) fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
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

	schoolID := uuid.New()
	teacher := teacherModel.Teacher{
		TeacherID:       uuid.New(),
		TeacherSchoolID: schoolID,
		TeacherName:     "Pak Dodi",
		TeacherRole:     teacherModel.TeacherRoleStaff,
	}
	if err := db.Create(&teacher).Error; err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	class := classModel.Class{
		ClassID:               uuid.New(),
		ClassSchoolID:         schoolID,
		ClassName:             "12 IPA 1",
		ClassDefaultTeacherID: &teacher.TeacherID,
	}
	if err := db.Create(&class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}

	student := studentModel.Student{
		StudentID:         uuid.New(),
		StudentSchoolID:   schoolID,
		StudentName:       "Andi",
		StudentGradeTrack: "SMA 12 IPA",
		StudentClassID:    &class.ClassID,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}

	collector := userModel.User{
		UserID:       uuid.New(),
		UserSchoolID: &schoolID,
		UserName:     "kasir1",
		UserEmail:    "kasir1@example.test",
	}
	if err := db.Create(&collector).Error; err != nil {
		t.Fatalf("seed collector: %v", err)
	}

	return fixture{db: db, schoolID: schoolID, student: student, class: class, teacher: teacher, collector: collector}
}

func (f fixture) seedEnrollment(t *testing.T, kind string, subjects ...classModel.EnrollmentSubject) {
	t.Helper()
	enrollment := classModel.Enrollment{
		EnrollmentID:        uuid.New(),
		EnrollmentSchoolID:  f.schoolID,
		EnrollmentStudentID: f.student.StudentID,
		EnrollmentClassID:   f.class.ClassID,
		EnrollmentKind:      kind,
	}
	if err := f.db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	for i := range subjects {
		subjects[i].EnrollmentSubjectID = uuid.New()
		subjects[i].EnrollmentSubjectEnrollmentID = enrollment.EnrollmentID
		if err := f.db.Create(&subjects[i]).Error; err != nil {
			t.Fatalf("seed enrollment subject: %v", err)
		}
	}
}

func TestCreateCashPayment(t *testing.T) {
	f := setupFixture(t)
	svc := NewPaymentService(f.db)

	payment, result, err := svc.CreateCashPayment(context.Background(), f.schoolID, f.collector.UserID, ledgerDTO.DistributeRequest{
		StudentID:     f.student.StudentID,
		ClassID:       f.class.ClassID,
		PaidAmountIDR: 10000,
		Subjects: []ledgerDTO.SubjectShareDTO{
			{Subject: "Matematika", LockedFeeIDR: 10000},
		},
	})
	if err != nil {
		t.Fatalf("CreateCashPayment: %v", err)
	}

	if payment.PaymentStatus != model.PaymentStatusPaid {
		t.Errorf("status = %q, want paid", payment.PaymentStatus)
	}
	if payment.PaymentMethod != model.PaymentMethodCash {
		t.Errorf("method = %q, want cash", payment.PaymentMethod)
	}
	if payment.PaymentPaidAt == nil {
		t.Error("paid_at kosong")
	}
	if payment.PaymentBatchID == nil || *payment.PaymentBatchID != result.BatchID {
		t.Error("payment harus terhubung ke batch distribusi")
	}

	// distribusi ikut terjadi: entri batch menjumlah ke nominal
	var entries []ledgerModel.LedgerEntry
	if err := f.db.Where("ledger_entry_batch_id = ?", result.BatchID).Find(&entries).Error; err != nil {
		t.Fatalf("load entries: %v", err)
	}
	total := 0
	for _, e := range entries {
		total += e.LedgerEntryAmountIDR
	}
	if total != 10000 {
		t.Errorf("jumlah entri = %d, want 10000", total)
	}
}

func TestCreateCashPaymentEnrollmentFallback(t *testing.T) {
	f := setupFixture(t)
	f.seedEnrollment(t, classModel.EnrollmentKindRegular,
		classModel.EnrollmentSubject{EnrollmentSubjectName: "Matematika", EnrollmentSubjectLockedFeeIDR: 60000, EnrollmentSubjectPosition: 0},
		classModel.EnrollmentSubject{EnrollmentSubjectName: "Fisika", EnrollmentSubjectLockedFeeIDR: 40000, EnrollmentSubjectPosition: 1},
	)
	svc := NewPaymentService(f.db)

	// tanpa daftar mapel di request: tarif terkunci enrollment yang dipakai
	_, result, err := svc.CreateCashPayment(context.Background(), f.schoolID, f.collector.UserID, ledgerDTO.DistributeRequest{
		StudentID:     f.student.StudentID,
		ClassID:       f.class.ClassID,
		PaidAmountIDR: 50000,
	})
	if err != nil {
		t.Fatalf("CreateCashPayment: %v", err)
	}
	if len(result.Subjects) != 2 {
		t.Fatalf("subjects = %d, want 2 dari enrollment", len(result.Subjects))
	}
	if result.Subjects[0].Subject != "Matematika" || result.Subjects[1].Subject != "Fisika" {
		t.Errorf("urutan mapel = %q,%q, want Matematika,Fisika",
			result.Subjects[0].Subject, result.Subjects[1].Subject)
	}
	// 50000 dari tarif 60000/40000 → porsi 30000/20000
	if result.Subjects[0].ShareIDR != 30000 || result.Subjects[1].ShareIDR != 20000 {
		t.Errorf("porsi = %d/%d, want 30000/20000",
			result.Subjects[0].ShareIDR, result.Subjects[1].ShareIDR)
	}
}

func TestCreateCashPaymentUnknownStudent(t *testing.T) {
	f := setupFixture(t)
	svc := NewPaymentService(f.db)

	_, _, err := svc.CreateCashPayment(context.Background(), f.schoolID, f.collector.UserID, ledgerDTO.DistributeRequest{
		StudentID:     uuid.New(),
		ClassID:       f.class.ClassID,
		PaidAmountIDR: 10000,
		Subjects:      []ledgerDTO.SubjectShareDTO{{Subject: "Matematika", LockedFeeIDR: 10000}},
	})
	fe, ok := err.(*fiber.Error)
	if !ok || fe.Code != fiber.StatusNotFound {
		t.Fatalf("err = %v, want *fiber.Error 404", err)
	}
}

// Distribusi gagal → payment cash ikut batal; tidak boleh tersisa payment
// paid tanpa entri ledger.
func TestCreateCashPaymentRollsBackOnDistributeFailure(t *testing.T) {
	f := setupFixture(t)
	svc := NewPaymentService(f.db)

	_, _, err := svc.CreateCashPayment(context.Background(), f.schoolID, f.collector.UserID, ledgerDTO.DistributeRequest{
		StudentID:     f.student.StudentID,
		ClassID:       uuid.New(), // kelas tidak ada, distribusi pasti gagal
		PaidAmountIDR: 10000,
		Subjects:      []ledgerDTO.SubjectShareDTO{{Subject: "Matematika", LockedFeeIDR: 10000}},
	})
	fe, ok := err.(*fiber.Error)
	if !ok || fe.Code != fiber.StatusNotFound {
		t.Fatalf("err = %v, want *fiber.Error 404", err)
	}

	var payments, entries int64
	if err := f.db.Model(&model.Payment{}).Count(&payments).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if payments != 0 {
		t.Errorf("payments = %d, want 0 setelah rollback", payments)
	}
	if err := f.db.Model(&ledgerModel.LedgerEntry{}).Count(&entries).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entries != 0 {
		t.Errorf("entries = %d, want 0 setelah rollback", entries)
	}
}

// Klaim paid dan distribusi satu transaksi: kalau distribusi gagal, status
// kembali awaiting dan retry PSP berikutnya bisa menuntaskannya.
func TestHandleGatewayNotificationRetriesAfterDistributeFailure(t *testing.T) {
	f := setupFixture(t)
	svc := NewPaymentService(f.db)

	// enrollment menunjuk kelas yang belum ada barisnya
	ghostClassID := uuid.New()
	enrollment := classModel.Enrollment{
		EnrollmentID:        uuid.New(),
		EnrollmentSchoolID:  f.schoolID,
		EnrollmentStudentID: f.student.StudentID,
		EnrollmentClassID:   ghostClassID,
		EnrollmentKind:      classModel.EnrollmentKindRegular,
	}
	if err := f.db.Create(&enrollment).Error; err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
	sub := classModel.EnrollmentSubject{
		EnrollmentSubjectID:           uuid.New(),
		EnrollmentSubjectEnrollmentID: enrollment.EnrollmentID,
		EnrollmentSubjectName:         "Matematika",
		EnrollmentSubjectLockedFeeIDR: 10000,
	}
	if err := f.db.Create(&sub).Error; err != nil {
		t.Fatalf("seed enrollment subject: %v", err)
	}

	orderID := "AKM-retry"
	payment := model.Payment{
		PaymentID:              uuid.New(),
		PaymentSchoolID:        f.schoolID,
		PaymentStudentID:       f.student.StudentID,
		PaymentClassID:         ghostClassID,
		PaymentAmountIDR:       10000,
		PaymentKind:            "regular",
		PaymentStatus:          model.PaymentStatusAwaitingCallback,
		PaymentMethod:          model.PaymentMethodGateway,
		PaymentCollectorUserID: f.collector.UserID,
		PaymentExternalID:      &orderID,
	}
	if err := f.db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	// callback pertama: distribusi gagal (kelas tidak ada) → klaim paid rollback
	if err := svc.HandleGatewayNotification(context.Background(), orderID, "settlement"); err == nil {
		t.Fatal("callback pertama harus gagal, dapat nil")
	}
	var afterFail model.Payment
	if err := f.db.Where("payment_id = ?", payment.PaymentID).Take(&afterFail).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if afterFail.PaymentStatus != model.PaymentStatusAwaitingCallback {
		t.Errorf("status = %q, want awaiting_callback setelah rollback", afterFail.PaymentStatus)
	}
	if afterFail.PaymentBatchID != nil {
		t.Error("batch id harus tetap kosong setelah rollback")
	}
	var entries int64
	if err := f.db.Model(&ledgerModel.LedgerEntry{}).Count(&entries).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if entries != 0 {
		t.Errorf("entries = %d, want 0 setelah rollback", entries)
	}

	// kelasnya muncul, retry PSP menuntaskan pembayaran
	class := classModel.Class{
		ClassID:               ghostClassID,
		ClassSchoolID:         f.schoolID,
		ClassName:             "12 IPS 2",
		ClassDefaultTeacherID: &f.teacher.TeacherID,
	}
	if err := f.db.Create(&class).Error; err != nil {
		t.Fatalf("seed class: %v", err)
	}
	if err := svc.HandleGatewayNotification(context.Background(), orderID, "settlement"); err != nil {
		t.Fatalf("retry callback: %v", err)
	}
	var afterRetry model.Payment
	if err := f.db.Where("payment_id = ?", payment.PaymentID).Take(&afterRetry).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if afterRetry.PaymentStatus != model.PaymentStatusPaid {
		t.Errorf("status = %q, want paid setelah retry", afterRetry.PaymentStatus)
	}
	if afterRetry.PaymentBatchID == nil {
		t.Fatal("batch id kosong setelah retry berhasil")
	}
	var total int
	rows := []ledgerModel.LedgerEntry{}
	if err := f.db.Where("ledger_entry_batch_id = ?", *afterRetry.PaymentBatchID).Find(&rows).Error; err != nil {
		t.Fatalf("load entries: %v", err)
	}
	for _, e := range rows {
		total += e.LedgerEntryAmountIDR
	}
	if total != 10000 {
		t.Errorf("jumlah entri batch = %d, want 10000", total)
	}
}

func TestHandleGatewayNotificationSettlement(t *testing.T) {
	f := setupFixture(t)
	f.seedEnrollment(t, classModel.EnrollmentKindRegular,
		classModel.EnrollmentSubject{EnrollmentSubjectName: "Matematika", EnrollmentSubjectLockedFeeIDR: 10000},
	)
	svc := NewPaymentService(f.db)

	orderID := "AKM-" + uuid.New().String()
	payment := model.Payment{
		PaymentID:              uuid.New(),
		PaymentSchoolID:        f.schoolID,
		PaymentStudentID:       f.student.StudentID,
		PaymentClassID:         f.class.ClassID,
		PaymentAmountIDR:       10000,
		PaymentKind:            "regular",
		PaymentStatus:          model.PaymentStatusAwaitingCallback,
		PaymentMethod:          model.PaymentMethodGateway,
		PaymentCollectorUserID: f.collector.UserID,
		PaymentExternalID:      &orderID,
	}
	if err := f.db.Create(&payment).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	if err := svc.HandleGatewayNotification(context.Background(), orderID, "settlement"); err != nil {
		t.Fatalf("HandleGatewayNotification: %v", err)
	}

	var reloaded model.Payment
	if err := f.db.Where("payment_id = ?", payment.PaymentID).Take(&reloaded).Error; err != nil {
		t.Fatalf("reload payment: %v", err)
	}
	if reloaded.PaymentStatus != model.PaymentStatusPaid {
		t.Errorf("status = %q, want paid", reloaded.PaymentStatus)
	}
	if reloaded.PaymentBatchID == nil {
		t.Fatal("batch id kosong setelah settlement")
	}

	// callback ulang tidak mendistribusikan dua kali
	if err := svc.HandleGatewayNotification(context.Background(), orderID, "settlement"); err != nil {
		t.Fatalf("callback ulang: %v", err)
	}
	var count int64
	if err := f.db.Model(&ledgerModel.LedgerEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	var firstBatchCount int64
	if err := f.db.Model(&ledgerModel.LedgerEntry{}).
		Where("ledger_entry_batch_id = ?", *reloaded.PaymentBatchID).
		Count(&firstBatchCount).Error; err != nil {
		t.Fatalf("count batch: %v", err)
	}
	if count != firstBatchCount {
		t.Errorf("ada entri di luar batch pertama: total=%d batch=%d", count, firstBatchCount)
	}
}

func TestHandleGatewayNotificationExpireAndCancel(t *testing.T) {
	f := setupFixture(t)
	svc := NewPaymentService(f.db)

	seed := func(orderID string) model.Payment {
		p := model.Payment{
			PaymentID:              uuid.New(),
			PaymentSchoolID:        f.schoolID,
			PaymentStudentID:       f.student.StudentID,
			PaymentClassID:         f.class.ClassID,
			PaymentAmountIDR:       10000,
			PaymentStatus:          model.PaymentStatusAwaitingCallback,
			PaymentMethod:          model.PaymentMethodGateway,
			PaymentCollectorUserID: f.collector.UserID,
			PaymentExternalID:      &orderID,
		}
		if err := f.db.Create(&p).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
		return p
	}

	expired := seed("AKM-expire")
	if err := svc.HandleGatewayNotification(context.Background(), "AKM-expire", "expire"); err != nil {
		t.Fatalf("expire: %v", err)
	}
	var p model.Payment
	if err := f.db.Where("payment_id = ?", expired.PaymentID).Take(&p).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.PaymentStatus != model.PaymentStatusExpired {
		t.Errorf("status = %q, want expired", p.PaymentStatus)
	}

	canceled := seed("AKM-cancel")
	if err := svc.HandleGatewayNotification(context.Background(), "AKM-cancel", "deny"); err != nil {
		t.Fatalf("deny: %v", err)
	}
	// struct tujuan harus baru: hasil Take sebelumnya membawa primary key
	// lama ke kondisi query berikutnya
	var p2 model.Payment
	if err := f.db.Where("payment_id = ?", canceled.PaymentID).Take(&p2).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p2.PaymentStatus != model.PaymentStatusCanceled {
		t.Errorf("status = %q, want canceled", p2.PaymentStatus)
	}
	if p2.PaymentCanceledAt == nil {
		t.Error("canceled_at kosong")
	}

	// order tak dikenal → 404
	err := svc.HandleGatewayNotification(context.Background(), "AKM-tidak-ada", "settlement")
	fe, ok := err.(*fiber.Error)
	if !ok || fe.Code != fiber.StatusNotFound {
		t.Fatalf("err = %v, want *fiber.Error 404", err)
	}
}
