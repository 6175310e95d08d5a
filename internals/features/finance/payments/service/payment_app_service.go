package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	ledgerDTO "akademiku_backend/internals/features/finance/ledger/dto"
	ledgerService "akademiku_backend/internals/features/finance/ledger/service"
	"akademiku_backend/internals/features/finance/payments/model"
	classModel "akademiku_backend/internals/features/school/classes/model"
	studentModel "akademiku_backend/internals/features/school/students/model"
)

// PaymentService: alur penagihan — pencatatan pembayaran (cash/gateway)
// yang memasok payment event ke distributor ledger.
type PaymentService struct {
	DB *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{DB: db}
}

// CreateCashPayment mencatat pembayaran tunai sebagai paid dan langsung
// mendistribusikannya ke ledger. Payment + seluruh entri batch ditulis dalam
// satu transaksi: distribusi gagal berarti payment ikut batal, tidak pernah
// ada payment paid tanpa ledger.
func (s *PaymentService) CreateCashPayment(ctx context.Context, schoolID, collectorUserID uuid.UUID, req ledgerDTO.DistributeRequest) (*model.Payment, *ledgerService.DistributionResult, error) {
	var payment model.Payment
	var result *ledgerService.DistributionResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ev, err := buildPaymentEvent(ctx, tx, schoolID, collectorUserID, req)
		if err != nil {
			return err
		}

		now := time.Now()
		payment = model.Payment{
			PaymentID:              uuid.New(),
			PaymentSchoolID:        schoolID,
			PaymentStudentID:       req.StudentID,
			PaymentClassID:         req.ClassID,
			PaymentAmountIDR:       req.PaidAmountIDR,
			PaymentKind:            ev.PaymentKind,
			PaymentStatus:          model.PaymentStatusPaid,
			PaymentMethod:          model.PaymentMethodCash,
			PaymentCollectorUserID: collectorUserID,
			PaymentPaidAt:          &now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		result, err = ledgerService.NewDistributor(tx).Distribute(ctx, *ev)
		if err != nil {
			return err
		}

		if err := tx.Model(&model.Payment{}).
			Where("payment_id = ?", payment.PaymentID).
			UpdateColumn("payment_batch_id", result.BatchID).Error; err != nil {
			return err
		}
		payment.PaymentBatchID = &result.BatchID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &payment, result, nil
}

// CreateGatewayCheckout membuat payment initiated + Snap token Midtrans.
// Distribusi baru berjalan setelah notifikasi settlement masuk.
func (s *PaymentService) CreateGatewayCheckout(ctx context.Context, schoolID, collectorUserID uuid.UUID, req ledgerDTO.DistributeRequest, cust CustomerInput) (*model.Payment, error) {
	// validasi event di muka supaya checkout tidak dibuat untuk input rusak
	if _, err := buildPaymentEvent(ctx, s.DB, schoolID, collectorUserID, req); err != nil {
		return nil, err
	}

	orderID := fmt.Sprintf("AKM-%s", uuid.New().String())
	payment := model.Payment{
		PaymentID:              uuid.New(),
		PaymentSchoolID:        schoolID,
		PaymentStudentID:       req.StudentID,
		PaymentClassID:         req.ClassID,
		PaymentAmountIDR:       req.PaidAmountIDR,
		PaymentKind:            normalizeKind(req.PaymentKind),
		PaymentStatus:          model.PaymentStatusAwaitingCallback,
		PaymentMethod:          model.PaymentMethodGateway,
		PaymentCollectorUserID: collectorUserID,
		PaymentExternalID:      &orderID,
	}

	_, redirectURL, err := GenerateSnapToken(payment, cust)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "Gagal membuat transaksi gateway")
	}
	payment.PaymentCheckoutURL = &redirectURL

	if err := s.DB.WithContext(ctx).Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// HandleGatewayNotification memproses callback Midtrans. Idempoten:
// payment yang sudah paid tidak didistribusikan dua kali.
func (s *PaymentService) HandleGatewayNotification(ctx context.Context, orderID, transactionStatus string) error {
	var payment model.Payment
	if err := s.DB.WithContext(ctx).
		Where("payment_external_id = ?", orderID).
		Take(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Payment tidak ditemukan untuk order tersebut")
		}
		return err
	}

	switch transactionStatus {
	case "settlement", "capture":
		if payment.IsPaid() {
			return nil // callback ulang — sudah diproses
		}

		// klaim status + distribusi dalam satu transaksi: kalau distribusi
		// gagal, klaim paid ikut rollback dan retry PSP bisa mengulang
		return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now()
			// WHERE menjaga hanya satu callback yang menang
			res := tx.Model(&model.Payment{}).
				Where("payment_id = ? AND payment_status <> ?", payment.PaymentID, model.PaymentStatusPaid).
				UpdateColumns(map[string]interface{}{
					"payment_status":  model.PaymentStatusPaid,
					"payment_paid_at": now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}

			ev, err := buildPaymentEvent(ctx, tx, payment.PaymentSchoolID, payment.PaymentCollectorUserID, ledgerDTO.DistributeRequest{
				StudentID:     payment.PaymentStudentID,
				ClassID:       payment.PaymentClassID,
				PaidAmountIDR: payment.PaymentAmountIDR,
				PaymentKind:   payment.PaymentKind,
			})
			if err != nil {
				return err
			}
			result, err := ledgerService.NewDistributor(tx).Distribute(ctx, *ev)
			if err != nil {
				return err
			}
			return tx.Model(&model.Payment{}).
				Where("payment_id = ?", payment.PaymentID).
				UpdateColumn("payment_batch_id", result.BatchID).Error
		})

	case "deny", "cancel", "failure":
		now := time.Now()
		return s.DB.WithContext(ctx).Model(&model.Payment{}).
			Where("payment_id = ? AND payment_status <> ?", payment.PaymentID, model.PaymentStatusPaid).
			UpdateColumns(map[string]interface{}{
				"payment_status":      model.PaymentStatusCanceled,
				"payment_canceled_at": now,
			}).Error

	case "expire":
		return s.DB.WithContext(ctx).Model(&model.Payment{}).
			Where("payment_id = ? AND payment_status <> ?", payment.PaymentID, model.PaymentStatusPaid).
			UpdateColumn("payment_status", model.PaymentStatusExpired).Error
	}

	return nil // pending dkk: tunggu callback berikutnya
}

/* ===================== Internal ===================== */

// buildPaymentEvent melengkapi request menjadi PaymentEvent: grade track
// dari siswa, daftar mapel dari request atau fallback tarif terkunci
// enrollment.
func buildPaymentEvent(ctx context.Context, tx *gorm.DB, schoolID, collectorUserID uuid.UUID, req ledgerDTO.DistributeRequest) (*ledgerService.PaymentEvent, error) {
	db := tx.WithContext(ctx)

	var student studentModel.Student
	if err := db.
		Where("student_id = ? AND student_school_id = ?", req.StudentID, schoolID).
		Take(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return nil, err
	}

	kind := normalizeKind(req.PaymentKind)

	subjects := make([]ledgerService.SubjectShare, 0, len(req.Subjects))
	for _, sub := range req.Subjects {
		subjects = append(subjects, ledgerService.SubjectShare{
			Subject:      sub.Subject,
			LockedFeeIDR: sub.LockedFeeIDR,
		})
	}

	if len(subjects) == 0 {
		var enrollment classModel.Enrollment
		err := db.Preload("EnrollmentSubjects", func(q *gorm.DB) *gorm.DB {
			return q.Order("enrollment_subject_position ASC")
		}).
			Where("enrollment_student_id = ? AND enrollment_class_id = ? AND enrollment_school_id = ?",
				req.StudentID, req.ClassID, schoolID).
			Take(&enrollment).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fiber.NewError(fiber.StatusBadRequest, "Daftar mapel kosong dan enrollment tidak ditemukan")
			}
			return nil, err
		}
		for _, sub := range enrollment.EnrollmentSubjects {
			subjects = append(subjects, ledgerService.SubjectShare{
				Subject:      sub.EnrollmentSubjectName,
				LockedFeeIDR: sub.EnrollmentSubjectLockedFeeIDR,
			})
		}
		if req.PaymentKind == "" && enrollment.EnrollmentKind == classModel.EnrollmentKindExamPrep {
			kind = ledgerService.PaymentKindExamPrep
		}
	}

	if len(subjects) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Tidak ada mapel untuk didistribusikan")
	}

	return &ledgerService.PaymentEvent{
		SchoolID:        schoolID,
		StudentID:       req.StudentID,
		ClassID:         req.ClassID,
		PaidAmountIDR:   req.PaidAmountIDR,
		PaymentKind:     kind,
		GradeTrack:      student.StudentGradeTrack,
		Subjects:        subjects,
		CollectorUserID: collectorUserID,
		Date:            time.Now(),
	}, nil
}

func normalizeKind(kind string) string {
	if kind == ledgerService.PaymentKindExamPrep {
		return ledgerService.PaymentKindExamPrep
	}
	return ledgerService.PaymentKindRegular
}
